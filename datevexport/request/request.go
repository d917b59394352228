package request

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/message"
	"github.com/wareflow/datev-export/datevexport/money"
)

// RevenueAccountKey addresses the revenue-side rule stack. Items of one order
// sharing a tax rate share the key.
type RevenueAccountKey struct {
	OrderID string
	TaxRate string
}

// DebtorAccountKey addresses the debtor-side rule stack; one debtor per order.
type DebtorAccountKey struct {
	OrderID string
}

// Item is one resolvable unit of a request: a price item plus its account keys.
type Item struct {
	PriceItem         money.PriceItem
	RevenueAccountKey RevenueAccountKey
	DebtorAccountKey  DebtorAccountKey
}

// Request is the immutable per-document export request.
type Request struct {
	Document *datevexport.Document
	Context  *CalculationContext
	Items    []Item
}

// Empty reports whether the document is ineligible for this export path.
func (r Request) Empty() bool {
	return len(r.Items) == 0
}

// CalculationContext carries the per-document facts decomposition and account
// resolution need. It is transient: built fresh for every export attempt.
type CalculationContext struct {
	OrderID     string
	OrderNumber string

	Order        *datevexport.Order
	Calculatable *datevexport.CalculatableOrder

	IsShopifyOrder   bool
	IsPreDiscountFix bool

	CountryISO      string
	PaymentMethodID string
	VatIDs          []string
	BillingCompany  string
}

// taxRateKey normalizes an optional tax rate into its key form.
func taxRateKey(rate *decimal.Decimal) string {
	if rate == nil {
		return ""
	}

	return rate.String()
}

// OrderSource loads order states. LoadVersion pins the state a document was
// created from; LoadLive reads the current one.
type OrderSource interface {
	LoadVersion(ctx context.Context, orderID, versionID string) (*datevexport.Order, error)
	LoadLive(ctx context.Context, orderID string) (*datevexport.Order, error)
}

// CalculatableOrderFactory recalculates an order's monetary state.
type CalculatableOrderFactory interface {
	Build(ctx context.Context, order *datevexport.Order) (*datevexport.CalculatableOrder, error)
}

// CorrectionCalculator derives the calculatable order of an invoice
// correction by comparing the original and corrected order states.
type CorrectionCalculator interface {
	Calculate(ctx context.Context, document *datevexport.Document, order *datevexport.Order) (*datevexport.CalculatableOrder, error)
}

// Classifier decides whether a document belongs to this export path.
type Classifier interface {
	Exportable(ctx context.Context, document *datevexport.Document) (bool, error)
}

// CostCenterResolver attaches cost centers to decomposed price items. It may
// emit messages the caller must surface regardless of outcome.
type CostCenterResolver interface {
	Attach(ctx context.Context, items []money.PriceItem, order *datevexport.Order) ([]money.PriceItem, []message.Message)
}
