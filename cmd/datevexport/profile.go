package main

import (
	"fmt"
	"os"
	"time"

	"github.com/wareflow/datev-export/datevexport"
	"gopkg.in/yaml.v3"
)

// profileFile is the YAML shape of an export profile on disk.
type profileFile struct {
	DocumentTypes  []string  `yaml:"documentTypes"`
	SalesChannelID string    `yaml:"salesChannelId"`
	StartDate      time.Time `yaml:"startDate"`
	EndDate        time.Time `yaml:"endDate"`
	ReferenceType  string    `yaml:"referenceType"`
}

// loadProfile reads and decodes an export profile YAML file. Semantic
// validation is left to ExportProfile.Validate.
func loadProfile(path string) (datevexport.ExportProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return datevexport.ExportProfile{}, fmt.Errorf("read profile: %w", err)
	}

	var file profileFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return datevexport.ExportProfile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}

	documentTypes := make([]datevexport.DocumentType, 0, len(file.DocumentTypes))
	for _, documentType := range file.DocumentTypes {
		documentTypes = append(documentTypes, datevexport.DocumentType(documentType))
	}

	return datevexport.ExportProfile{
		DocumentTypes:  documentTypes,
		SalesChannelID: file.SalesChannelID,
		Start:          file.StartDate,
		End:            file.EndDate,
		ReferenceType:  datevexport.ReferenceType(file.ReferenceType),
	}, nil
}
