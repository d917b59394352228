package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/datev-export/datevexport"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
documentTypes:
  - invoice
  - storno
salesChannelId: channel-1
startDate: 2025-01-01T00:00:00Z
endDate: 2025-03-31T23:59:59Z
referenceType: order_number
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	profile, err := loadProfile(path)

	require.NoError(t, err)
	assert.Equal(t, []datevexport.DocumentType{
		datevexport.DocumentTypeInvoice,
		datevexport.DocumentTypeStorno,
	}, profile.DocumentTypes)
	assert.Equal(t, "channel-1", profile.SalesChannelID)
	assert.True(t, profile.Start.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, profile.End.Equal(time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, datevexport.ReferenceTypeOrderNumber, profile.EffectiveReferenceType())
	assert.Empty(t, profile.Validate())
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := loadProfile(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documentTypes: {{"), 0o600))

	_, err := loadProfile(path)

	require.Error(t, err)
}
