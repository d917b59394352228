package datevexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/datev-export/datevexport/message"
)

func validProfile() ExportProfile {
	return ExportProfile{
		DocumentTypes:  []DocumentType{DocumentTypeInvoice, DocumentTypeStorno},
		SalesChannelID: "channel-1",
		Start:          time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestExportProfileValidate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(profile *ExportProfile)
		expectedField string
	}{
		{
			name:          "missing document types",
			mutate:        func(p *ExportProfile) { p.DocumentTypes = nil },
			expectedField: "documentTypes",
		},
		{
			name:          "missing sales channel",
			mutate:        func(p *ExportProfile) { p.SalesChannelID = "" },
			expectedField: "salesChannelId",
		},
		{
			name:          "missing start date",
			mutate:        func(p *ExportProfile) { p.Start = time.Time{} },
			expectedField: "startDate",
		},
		{
			name:          "missing end date",
			mutate:        func(p *ExportProfile) { p.End = time.Time{} },
			expectedField: "endDate",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile := validProfile()
			tc.mutate(&profile)

			messages := profile.Validate()

			require.Len(t, messages, 1)
			assert.Equal(t, message.SeverityError, messages[0].Severity)
			assert.Equal(t, tc.expectedField, messages[0].Metadata["field"])
		})
	}
}

func TestExportProfileValidateValid(t *testing.T) {
	assert.Empty(t, validProfile().Validate())
}

func TestExportProfileValidateInvertedDateRange(t *testing.T) {
	profile := validProfile()
	profile.Start, profile.End = profile.End, profile.Start

	messages := profile.Validate()

	require.Len(t, messages, 1)
	assert.Equal(t, message.SeverityError, messages[0].Severity)
	assert.NotContains(t, messages[0].Metadata, "field",
		"the date-range message names no single field")
	assert.Contains(t, messages[0].Text(message.LocaleEnglish), "end date")
}

func TestExportProfileValidateCollectsAllFailures(t *testing.T) {
	messages := ExportProfile{}.Validate()

	require.Len(t, messages, 4)
	for _, m := range messages {
		assert.Equal(t, message.SeverityError, m.Severity)
	}
}
