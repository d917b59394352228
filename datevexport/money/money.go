package money

import (
	"github.com/shopspring/decimal"
)

// currencyPlaces is the number of decimal places carried by every amount.
const currencyPlaces = 2

// oneHundred is the pre-allocated multiplier for percentage and cent scaling.
var oneHundred = decimal.NewFromInt(100)

// minContribution is the smallest absolute amount a price item may carry.
var minContribution = decimal.New(1, -2)

// Round2 rounds an amount to two places, half away from zero.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(currencyPlaces)
}

// Cents converts a two-place amount to integer-scaled cents.
//
// The amount is rounded first, so Cents(Round2(x)) == Cents(x).
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(oneHundred).Round(0).IntPart()
}

// FromCents converts integer-scaled cents back into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -currencyPlaces)
}

// Percent converts a percentage rate into its fractional multiplier (19 → 0.19).
func Percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(oneHundred)
}

// PriceItem is one monetary bucket of a decomposed order price.
//
// TaxRate is nil for tax-free buckets. CostCenter is attached after
// decomposition by an external resolver.
type PriceItem struct {
	Price      decimal.Decimal
	TaxRate    *decimal.Decimal
	CostCenter *string
}

// Contributes reports whether the item carries at least one cent.
func (item PriceItem) Contributes() bool {
	return item.Price.Abs().GreaterThanOrEqual(minContribution)
}

// Contributing drops every item with |price| < 0.01, preserving order.
//
// This is always the final step of a decomposition; items below the threshold
// may legitimately exist mid-computation.
func Contributing(items []PriceItem) []PriceItem {
	kept := make([]PriceItem, 0, len(items))

	for _, item := range items {
		if item.Contributes() {
			kept = append(kept, item)
		}
	}

	return kept
}

// Sum returns the total of all item prices.
func Sum(items []PriceItem) decimal.Decimal {
	total := decimal.Zero

	for _, item := range items {
		total = total.Add(item.Price)
	}

	return total
}
