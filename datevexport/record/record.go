package record

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/message"
)

// DebitCredit is the DATEV posting identifier: "S" (Soll) debits, "H"
// (Haben) credits.
type DebitCredit string

const (
	// Debit marks a Soll posting.
	Debit DebitCredit = "S"
	// Credit marks a Haben posting.
	Credit DebitCredit = "H"
)

// debitCreditByType fixes the posting identifier per document type.
var debitCreditByType = map[datevexport.DocumentType]DebitCredit{
	datevexport.DocumentTypeInvoice:    Credit,
	datevexport.DocumentTypeStorno:     Debit,
	datevexport.DocumentTypeCorrection: Credit,
	datevexport.DocumentTypePOSReceipt: Credit,
}

// invertedDebitCredit swaps the identifier when a negative revenue is negated.
var invertedDebitCredit = map[DebitCredit]DebitCredit{
	Debit:  Credit,
	Credit: Debit,
}

// Account is a concrete bookkeeping account resolved by a rule stack.
type Account struct {
	Number string
}

// AccountDetermination is the tagged result of one rule-stack resolution: a
// resolved account or none, plus whatever messages the rules emitted.
type AccountDetermination struct {
	Account  *Account
	Messages []message.Message
}

// Resolved reports whether the rule stack produced an account.
func (d AccountDetermination) Resolved() bool {
	return d.Account != nil
}

// InfoPair is one type/content pair of a record's document or additional info.
type InfoPair struct {
	Type    string
	Content string
}

// Info pair type names used by this export.
const (
	infoTypeInvoiceReference = "invoiceReference"
	infoTypeOrderNumber      = "orderNumber"
)

// Field capacities of the DATEV batch format.
const (
	maxDocumentInfos   = 4
	maxAdditionalInfos = 4
	maxCostCenters     = 2
)

// EntryBatchRecord is one double-entry posting line handed to the batch
// writer. It is transient; nothing in this package persists it.
type EntryBatchRecord struct {
	Revenue       decimal.Decimal
	DebitCredit   DebitCredit
	Account       string
	ContraAccount string

	DocumentDate    time.Time
	ReferenceNumber string
	PostingText     string
	ReceiptLink     string

	DocumentInfos []InfoPair
	CostCenters   []string

	EUCountryAndVatID string
	EUTaxRate         string

	AdditionalInfos []InfoPair

	Fixation   bool
	TaskNumber string
}

// Collection aggregates the records and messages of one chunk. It is
// append-only during processing.
type Collection struct {
	Records  []EntryBatchRecord
	Messages []message.Message
}

func (c *Collection) addRecords(records ...EntryBatchRecord) {
	c.Records = append(c.Records, records...)
}

func (c *Collection) addMessages(messages ...message.Message) {
	c.Messages = append(c.Messages, messages...)
}
