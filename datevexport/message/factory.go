package message

import "fmt"

// UnresolvedRevenueAccount reports that no revenue account rule matched an
// item. The document's records are voided.
func UnresolvedRevenueAccount(documentNumber string, taxRate string) Message {
	return New(SeverityError, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Für Beleg %s konnte kein Erlöskonto ermittelt werden (Steuersatz %s %%).", documentNumber, taxRate),
		LocaleEnglish: fmt.Sprintf("No revenue account could be determined for document %s (tax rate %s %%).", documentNumber, taxRate),
	}, map[string]any{
		"documentNumber": documentNumber,
		"taxRate":        taxRate,
	})
}

// UnresolvedDebtorAccount reports that no debtor account rule matched an
// item. The document's records are voided.
func UnresolvedDebtorAccount(documentNumber string) Message {
	return New(SeverityError, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Für Beleg %s konnte kein Debitorenkonto ermittelt werden.", documentNumber),
		LocaleEnglish: fmt.Sprintf("No debtor account could be determined for document %s.", documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
	})
}

// MissingDocumentDate reports the fallback to the document's creation date.
func MissingDocumentDate(documentNumber string) Message {
	return New(SeverityInfo, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Beleg %s hat kein Belegdatum; das Erstellungsdatum wird verwendet.", documentNumber),
		LocaleEnglish: fmt.Sprintf("Document %s has no document date; the creation date is used instead.", documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
	})
}

// MissingShippingAddress reports the fallback to the billing address.
func MissingShippingAddress(documentNumber string) Message {
	return New(SeverityInfo, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Bestellung zu Beleg %s hat keine Lieferadresse; die Rechnungsadresse wird verwendet.", documentNumber),
		LocaleEnglish: fmt.Sprintf("The order of document %s has no shipping address; the billing address is used instead.", documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
	})
}

// UnsupportedEInvoiceType reports that a ZUGFeRD e-invoice cannot be exported
// as a receipt image. The document is still posted.
func UnsupportedEInvoiceType(documentNumber string) Message {
	return New(SeverityWarning, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Beleg %s ist eine ZUGFeRD-E-Rechnung und wird vom Belegbild-Export nicht unterstützt.", documentNumber),
		LocaleEnglish: fmt.Sprintf("Document %s is a ZUGFeRD e-invoice, which is not supported by the receipt image export.", documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
	})
}

// MissingOrderVersion reports a document whose live order lacks the recorded
// order version. The document is skipped.
func MissingOrderVersion(documentNumber string) Message {
	return New(SeverityWarning, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Beleg %s verweist auf keine gültige Bestellversion und wird übersprungen.", documentNumber),
		LocaleEnglish: fmt.Sprintf("Document %s does not reference a valid order version and is skipped.", documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
	})
}

// InvalidTaxInformation reports an order whose tax information failed
// validation. The document is skipped.
func InvalidTaxInformation(documentNumber string, orderNumber string) Message {
	return New(SeverityWarning, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Die Steuerinformationen der Bestellung %s sind unvollständig; Beleg %s wird übersprungen.", orderNumber, documentNumber),
		LocaleEnglish: fmt.Sprintf("The tax information of order %s is incomplete; document %s is skipped.", orderNumber, documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
		"orderNumber":    orderNumber,
	})
}

// InvalidReferencedTaxInformation reports that the referenced document (for
// example the original invoice of a correction) failed tax validation. The
// document is skipped.
func InvalidReferencedTaxInformation(documentNumber string, referencedNumber string) Message {
	return New(SeverityWarning, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Die Steuerinformationen des referenzierten Belegs %s sind unvollständig; Beleg %s wird übersprungen.", referencedNumber, documentNumber),
		LocaleEnglish: fmt.Sprintf("The tax information of the referenced document %s is incomplete; document %s is skipped.", referencedNumber, documentNumber),
	}, map[string]any{
		"documentNumber":           documentNumber,
		"referencedDocumentNumber": referencedNumber,
	})
}

// ReceiptLinkFailed reports that no receipt link GUID could be issued for the
// document. The document is skipped.
func ReceiptLinkFailed(documentNumber string) Message {
	return New(SeverityWarning, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Für Beleg %s konnte kein Belegbild-Link erzeugt werden; der Beleg wird übersprungen.", documentNumber),
		LocaleEnglish: fmt.Sprintf("No receipt link could be issued for document %s; the document is skipped.", documentNumber),
	}, map[string]any{
		"documentNumber": documentNumber,
	})
}

// DebtorBookkeepingFailed reports that the individual-debtor bookkeeping
// service could not record a debtor assignment. The record is still emitted.
func DebtorBookkeepingFailed(documentNumber string, account string) Message {
	return New(SeverityWarning, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Die Debitorenzuordnung für Beleg %s (Konto %s) konnte nicht vermerkt werden.", documentNumber, account),
		LocaleEnglish: fmt.Sprintf("The debtor assignment for document %s (account %s) could not be recorded.", documentNumber, account),
	}, map[string]any{
		"documentNumber": documentNumber,
		"account":        account,
	})
}

// MissingProfileField reports a missing required export profile field.
func MissingProfileField(field string) Message {
	return New(SeverityError, map[Locale]string{
		LocaleGerman:  fmt.Sprintf("Das Pflichtfeld %q fehlt in der Exportkonfiguration.", field),
		LocaleEnglish: fmt.Sprintf("The required field %q is missing from the export configuration.", field),
	}, map[string]any{
		"field": field,
	})
}

// InvalidProfileDateRange reports an export profile whose end precedes its start.
func InvalidProfileDateRange() Message {
	return New(SeverityError, map[Locale]string{
		LocaleGerman:  "Das Enddatum der Exportkonfiguration liegt vor dem Startdatum.",
		LocaleEnglish: "The export configuration's end date precedes its start date.",
	}, nil)
}
