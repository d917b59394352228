package datevexport

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wareflow/datev-export/datevexport/decompose"
)

// Sales channel type technical names. The POS type is excluded from this
// export path at the query level; the Shopify type selects the
// broken-Shopify decomposition algorithms.
const (
	SalesChannelTypeStorefront = "storefront"
	SalesChannelTypeShopify    = "shopify"
	SalesChannelTypePOS        = "pickware_pos"
)

// ShopifyDiscountFixDate is the deploy date of the upstream Shopify discount
// fix. Orders placed before it need the single-step reconciliation.
var ShopifyDiscountFixDate = time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)

// Address is the subset of an order address the export reads.
type Address struct {
	CountryISO string
	Company    string
}

// Customer is the subset of the order customer the export reads.
type Customer struct {
	ID     string
	Number string
	VatIDs []string
}

// Transaction is one payment transaction of an order.
type Transaction struct {
	ID              string
	PaymentMethodID string
}

// Delivery is one delivery of an order.
type Delivery struct {
	ID              string
	ShippingAddress *Address
}

// Order is the pinned order state a document was created from.
type Order struct {
	ID               string
	VersionID        string
	Number           string
	SalesChannelID   string
	SalesChannelType string
	OrderDate        time.Time

	Customer       *Customer
	BillingAddress *Address
	Transactions   []Transaction
	Deliveries     []Delivery
}

// PrimaryTransaction returns the order's primary payment transaction, nil
// when the order has none.
func (o *Order) PrimaryTransaction() *Transaction {
	if len(o.Transactions) == 0 {
		return nil
	}

	return &o.Transactions[0]
}

// PrimaryDelivery returns the order's primary delivery, nil when the order
// has none.
func (o *Order) PrimaryDelivery() *Delivery {
	if len(o.Deliveries) == 0 {
		return nil
	}

	return &o.Deliveries[0]
}

// IsShopify reports whether the order was placed through a Shopify sales
// channel.
func (o *Order) IsShopify() bool {
	return o.SalesChannelType == SalesChannelTypeShopify
}

// CalculatableOrder is the recalculated monetary state of an order: the
// authoritative total plus the per-tax-rate lines decomposition works on.
type CalculatableOrder struct {
	Total     decimal.Decimal
	TaxStatus decompose.TaxStatus
	TaxLines  []decompose.TaxLine

	// TaxRuleCount is the number of tax-rate lines across all order
	// positions and shipping. It scales the two-step deviation tolerance.
	TaxRuleCount int
}

// CalculatedTaxTotal sums the stored tax amounts of all tax lines.
func (o *CalculatableOrder) CalculatedTaxTotal() decimal.Decimal {
	total := decimal.Zero

	for _, line := range o.TaxLines {
		total = total.Add(line.Tax)
	}

	return total
}
