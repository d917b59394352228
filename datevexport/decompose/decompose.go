package decompose

import (
	"github.com/shopspring/decimal"
	"github.com/wareflow/datev-export/datevexport/money"
)

// TaxStatus describes how an order's stored prices relate to tax.
type TaxStatus string

const (
	// TaxStatusFree marks an order without any tax.
	TaxStatusFree TaxStatus = "tax-free"
	// TaxStatusGross marks stored prices that already include tax.
	TaxStatusGross TaxStatus = "gross"
	// TaxStatusNet marks stored prices that exclude tax.
	TaxStatusNet TaxStatus = "net"
)

// TaxLine is one calculated-tax line of an order: the stored price bucket for
// a single tax rate.
type TaxLine struct {
	// Rate is the tax rate as a percentage (19 means 19 %).
	Rate decimal.Decimal
	// Price is the stored bucket price: gross for TaxStatusGross orders, net
	// for TaxStatusNet orders.
	Price decimal.Decimal
	// Tax is the stored tax amount of the bucket.
	Tax decimal.Decimal
}

// Input is the decomposition input for one order.
type Input struct {
	TaxStatus TaxStatus
	Lines     []TaxLine
	// Total is the order's authoritative total price. Every algorithm
	// reconciles its items against this value.
	Total decimal.Decimal
	// TaxRuleCount is the number of tax-rate lines across all order
	// positions and shipping; it scales the two-step tolerance.
	TaxRuleCount int
}

// Algorithm decomposes an order price into per-tax-rate price items.
type Algorithm interface {
	Decompose(in Input) []money.PriceItem
}

// ForOrder selects the decomposition algorithm for an order. Non-Shopify
// orders always use the standard algorithm; Shopify orders placed before the
// upstream discount fix need the single-step reconciliation, later ones the
// two-step one.
//
//nolint:ireturn
func ForOrder(shopify, preDiscountFix bool) Algorithm {
	if !shopify {
		return Standard{}
	}

	if preDiscountFix {
		return ShopifySingleStep{}
	}

	return ShopifyTwoStep{}
}

// freeItems is the decomposition of a tax-free order: one rate-less item
// carrying the full total.
func freeItems(in Input) []money.PriceItem {
	return money.Contributing([]money.PriceItem{{Price: in.Total}})
}

// storedGross returns the stored gross price of a line: the stored price for
// gross orders, price plus tax for net orders.
func storedGross(status TaxStatus, line TaxLine) decimal.Decimal {
	if status == TaxStatusNet {
		return line.Price.Add(line.Tax)
	}

	return line.Price
}

// backwardGross reconstructs a gross price from the stored tax amount:
// round(tax/(rate/100) + tax, 2).
func backwardGross(line TaxLine) decimal.Decimal {
	return money.Round2(line.Tax.Div(money.Percent(line.Rate)).Add(line.Tax))
}

// Standard trusts the stored tax lines as-is.
type Standard struct{}

// Decompose returns one item per tax line (the full total for tax-free
// orders), converting net prices to gross.
func (Standard) Decompose(in Input) []money.PriceItem {
	if in.TaxStatus == TaxStatusFree {
		return freeItems(in)
	}

	items := make([]money.PriceItem, 0, len(in.Lines))

	// Stored prices are used as-is: the contribution filter must see the raw
	// value, so a stored 0.005 is dropped rather than rounded up to a cent.
	for _, line := range in.Lines {
		rate := line.Rate
		items = append(items, money.PriceItem{
			Price:   storedGross(in.TaxStatus, line),
			TaxRate: &rate,
		})
	}

	return money.Contributing(items)
}
