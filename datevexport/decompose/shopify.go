package decompose

import (
	"github.com/shopspring/decimal"
	"github.com/wareflow/datev-export/datevexport/money"
)

// taxDeviationTolerancePerLine is the empirical per-tax-rate-line tolerance
// of the two-step algorithm. Preserved as-is; there is no derivation.
var taxDeviationTolerancePerLine = decimal.New(5, -3)

// ShopifySingleStep reconstructs every non-zero-rate gross price from its tax
// amount and reconciles the integer-cent remainder against the order total in
// a single distribution step.
//
// Used for Shopify orders placed before the upstream discount fix, whose
// stored gross prices are unreliable.
type ShopifySingleStep struct{}

// Decompose implements Algorithm.
func (ShopifySingleStep) Decompose(in Input) []money.PriceItem {
	if in.TaxStatus == TaxStatusFree {
		return freeItems(in)
	}

	items := make([]money.PriceItem, 0, len(in.Lines))
	zeroRateSeen := false

	for _, line := range in.Lines {
		if line.Rate.IsZero() {
			zeroRateSeen = true

			continue
		}

		rate := line.Rate
		items = append(items, money.PriceItem{Price: backwardGross(line), TaxRate: &rate})
	}

	calculated := int64(0)
	for _, item := range items {
		calculated += money.Cents(item.Price)
	}

	remainder := money.Cents(in.Total) - calculated

	switch {
	case zeroRateSeen:
		// The 0 % bucket absorbs the entire remainder, which implicitly
		// contains the zero-rate line's own gross price.
		zeroRate := decimal.Zero
		items = append(items, money.PriceItem{Price: money.FromCents(remainder), TaxRate: &zeroRate})
	case remainder != 0 && len(items) > 0:
		distributeRemainder(items, remainder)
	}

	return money.Contributing(items)
}

// distributeRemainder spreads remainder cents across all items: the whole
// cents-per-item share goes to every item, leftover single cents are assigned
// one at a time in item order starting at index 0. The sign of every
// adjustment matches the sign of the remainder.
func distributeRemainder(items []money.PriceItem, remainder int64) {
	count := int64(len(items))

	magnitude := remainder
	sign := int64(1)

	if magnitude < 0 {
		magnitude = -magnitude
		sign = -1
	}

	whole := magnitude / count
	leftover := magnitude - whole*count

	for i := range items {
		adjust := whole
		if int64(i) < leftover {
			adjust++
		}

		items[i].Price = items[i].Price.Add(money.FromCents(sign * adjust))
	}
}

// ShopifyTwoStep keeps stored gross prices whose tax amounts are plausible
// and reconstructs the rest, folding both the reconstruction deviation and
// the residual against the order total into a 0 %-rate bucket.
//
// Only legacy orders reach this path; new data is decomposed by Standard or
// ShopifySingleStep.
type ShopifyTwoStep struct{}

// Decompose implements Algorithm.
func (ShopifyTwoStep) Decompose(in Input) []money.PriceItem {
	if in.TaxStatus == TaxStatusFree {
		return freeItems(in)
	}

	tolerance := taxDeviationTolerancePerLine.Mul(decimal.NewFromInt(int64(in.TaxRuleCount)))

	items := make([]money.PriceItem, 0, len(in.Lines)+1)
	deviation := decimal.Zero
	zeroBucket := decimal.Zero

	for _, line := range in.Lines {
		if line.Rate.IsZero() {
			zeroBucket = zeroBucket.Add(storedGross(in.TaxStatus, line))

			continue
		}

		stored := storedGross(in.TaxStatus, line)
		rate := line.Rate

		if line.Tax.Sub(forwardTax(in.TaxStatus, line)).Abs().LessThanOrEqual(tolerance) {
			items = append(items, money.PriceItem{Price: stored, TaxRate: &rate})

			continue
		}

		recomputed := backwardGross(line)
		items = append(items, money.PriceItem{Price: recomputed, TaxRate: &rate})
		deviation = deviation.Add(stored.Sub(recomputed))
	}

	zeroBucket = zeroBucket.Add(deviation)

	// Second step: whatever still separates the reconstructed total from the
	// authoritative one lands in the 0 % bucket as well. Rounding happens
	// last so the two deviations cannot cancel into a rounding artifact.
	residual := in.Total.Sub(money.Sum(items).Add(zeroBucket))
	zeroRate := decimal.Zero
	items = append(items, money.PriceItem{
		Price:   money.Round2(zeroBucket.Add(residual)),
		TaxRate: &zeroRate,
	})

	return money.Contributing(items)
}

// forwardTax recomputes the tax a line's stored price implies: for gross
// prices the included tax, for net prices the added tax.
func forwardTax(status TaxStatus, line TaxLine) decimal.Decimal {
	if status == TaxStatusNet {
		return money.Round2(line.Price.Mul(money.Percent(line.Rate)))
	}

	one := decimal.NewFromInt(1)

	return money.Round2(line.Price.Sub(line.Price.Div(one.Add(money.Percent(line.Rate)))))
}
