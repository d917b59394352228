package datevexport

import (
	"time"

	"github.com/wareflow/datev-export/datevexport/message"
)

// ReferenceType selects which number fills a record's reference field.
type ReferenceType string

const (
	// ReferenceTypeDocumentNumber uses the document's own number (default).
	ReferenceTypeDocumentNumber ReferenceType = "document_number"
	// ReferenceTypeOrderNumber uses the underlying order's number.
	ReferenceTypeOrderNumber ReferenceType = "order_number"
)

// Export identifies one persisted export run. Its creation time freezes the
// document window against concurrently created documents.
type Export struct {
	ID        string
	CreatedAt time.Time
	UserID    string
}

// ExportProfile is the tenant configuration driving one export.
type ExportProfile struct {
	DocumentTypes  []DocumentType
	SalesChannelID string
	Start          time.Time
	End            time.Time
	ReferenceType  ReferenceType
}

// Validate checks the profile and returns structured error messages instead
// of an error, so misconfiguration renders like every other audit entry.
func (p ExportProfile) Validate() []message.Message {
	var messages []message.Message

	if len(p.DocumentTypes) == 0 {
		messages = append(messages, message.MissingProfileField("documentTypes"))
	}

	if p.SalesChannelID == "" {
		messages = append(messages, message.MissingProfileField("salesChannelId"))
	}

	if p.Start.IsZero() {
		messages = append(messages, message.MissingProfileField("startDate"))
	}

	if p.End.IsZero() {
		messages = append(messages, message.MissingProfileField("endDate"))
	}

	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		messages = append(messages, message.InvalidProfileDateRange())
	}

	return messages
}

// EffectiveReferenceType returns the configured reference type, defaulting to
// the document number.
func (p ExportProfile) EffectiveReferenceType() ReferenceType {
	if p.ReferenceType == ReferenceTypeOrderNumber {
		return ReferenceTypeOrderNumber
	}

	return ReferenceTypeDocumentNumber
}
