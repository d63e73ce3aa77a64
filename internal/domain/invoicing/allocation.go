package invoicing

import "github.com/shopspring/decimal"

// Allocation is the result of proportionally splitting one sale line against
// one matched movement quantity.
type Allocation struct {
	Ratio     decimal.Decimal
	Quantity  decimal.Decimal
	Revenue   decimal.Decimal
	LineTotal decimal.Decimal
	Cost      decimal.Decimal
	Tax       decimal.Decimal
	Discounts DiscountAmounts
}

// AllocationCalculator derives an exploded line's quantity and every
// proportional monetary field from a sale line and its matched movement
// quantity.
type AllocationCalculator struct{}

// Allocate computes the allocation for one (sale line, movement) pairing.
// hasMatch=false means the line is emitted unscaled. Exchange-for-points
// lines are never split, so they also keep ratio 1. A zero sale quantity
// defaults the ratio to 1 so no NaN/Inf-style garbage propagates.
func (AllocationCalculator) Allocate(line *SaleLine, class OrderTypeClass, matchedQty decimal.Decimal, hasMatch bool) Allocation {
	ratio := decimal.NewFromInt(1)
	quantity := line.Quantity

	if hasMatch && !class.NeverSplit() {
		quantity = matchedQty.Abs()
		if !line.Quantity.IsZero() {
			ratio = matchedQty.Abs().Div(line.Quantity.Abs())
		}
	}

	return Allocation{
		Ratio:     ratio,
		Quantity:  quantity,
		Revenue:   line.Revenue.Mul(ratio),
		LineTotal: line.LineTotal.Mul(ratio),
		Cost:      line.Cost.Mul(ratio),
		Tax:       line.Tax.Mul(ratio),
		Discounts: line.Discounts.Scale(ratio),
	}
}
