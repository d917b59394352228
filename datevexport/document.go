package datevexport

import (
	"time"

	"github.com/wareflow/datev-export/datevexport/message"
)

// DocumentType identifies the kind of sales document being exported.
type DocumentType string

const (
	// DocumentTypeInvoice is a regular sales invoice.
	DocumentTypeInvoice DocumentType = "invoice"
	// DocumentTypeStorno is a cancellation (storno) invoice.
	DocumentTypeStorno DocumentType = "storno"
	// DocumentTypeCorrection is an invoice correction referencing an original invoice.
	DocumentTypeCorrection DocumentType = "invoice_correction"
	// DocumentTypePOSReceipt is a point-of-sale receipt. POS receipts never
	// carry an order version extension and are excluded from this export path.
	DocumentTypePOSReceipt DocumentType = "pos_receipt"
)

// documentTypeNames holds the bilingual display names used in posting texts
// and audit messages.
var documentTypeNames = map[DocumentType]map[message.Locale]string{
	DocumentTypeInvoice: {
		message.LocaleGerman:  "Rechnung",
		message.LocaleEnglish: "Invoice",
	},
	DocumentTypeStorno: {
		message.LocaleGerman:  "Stornorechnung",
		message.LocaleEnglish: "Cancellation invoice",
	},
	DocumentTypeCorrection: {
		message.LocaleGerman:  "Rechnungskorrektur",
		message.LocaleEnglish: "Invoice correction",
	},
	DocumentTypePOSReceipt: {
		message.LocaleGerman:  "Kassenbeleg",
		message.LocaleEnglish: "POS receipt",
	},
}

// DisplayName returns the localized display name of the document type.
func (t DocumentType) DisplayName(locale message.Locale) string {
	names, ok := documentTypeNames[t]
	if !ok {
		return string(t)
	}

	if name, ok := names[locale]; ok {
		return name
	}

	return names[message.LocaleEnglish]
}

// ConfigKeyReferencedDocumentNumber is the document config key carrying the
// number of the corrected invoice on invoice-correction documents.
const ConfigKeyReferencedDocumentNumber = "referencedDocumentNumber"

// Document is one exportable sales document.
type Document struct {
	ID     string
	Type   DocumentType
	Number string

	// Date is the business document date. Nil when the document was created
	// without one; the export falls back to CreatedAt.
	Date      *time.Time
	CreatedAt time.Time

	OrderID string
	// OrderVersionID pins the order state the document was created from.
	// Empty for POS receipts, which always read the live order version.
	OrderVersionID string

	// ReferencedDocument is the document this one refers to, e.g. the
	// original invoice of a storno or correction. Nil otherwise.
	ReferencedDocument *Document

	// Config carries document-level custom configuration values.
	Config map[string]string

	// ZUGFeRD marks the document as an embedded e-invoice, which the receipt
	// image export cannot handle.
	ZUGFeRD bool
}

// EffectiveDate returns the document date, falling back to the creation date.
func (d *Document) EffectiveDate() time.Time {
	if d.Date != nil {
		return *d.Date
	}

	return d.CreatedAt
}
