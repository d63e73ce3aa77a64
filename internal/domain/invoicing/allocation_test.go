package invoicing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAllocationCalculator_Allocate(t *testing.T) {
	calc := AllocationCalculator{}

	line := &SaleLine{
		Quantity:  decimal.NewFromInt(10),
		Revenue:   decimal.NewFromInt(1000),
		LineTotal: decimal.NewFromInt(950),
		Cost:      decimal.NewFromInt(700),
		Tax:       decimal.NewFromInt(80),
		Discounts: DiscountAmounts{
			PolicyDiscount: decimal.NewFromInt(50),
			CouponPayment:  decimal.NewFromInt(20),
		},
	}

	t.Run("scales every monetary field by the ratio", func(t *testing.T) {
		alloc := calc.Allocate(line, ClassRetail, decimal.NewFromInt(-6), true)

		assert.True(t, alloc.Ratio.Equal(decimal.NewFromFloat(0.6)), "ratio %s", alloc.Ratio)
		assert.True(t, alloc.Quantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, alloc.Revenue.Equal(decimal.NewFromInt(600)))
		assert.True(t, alloc.LineTotal.Equal(decimal.NewFromInt(570)))
		assert.True(t, alloc.Cost.Equal(decimal.NewFromInt(420)))
		assert.True(t, alloc.Tax.Equal(decimal.NewFromInt(48)))
		assert.True(t, alloc.Discounts.PolicyDiscount.Equal(decimal.NewFromInt(30)))
		assert.True(t, alloc.Discounts.CouponPayment.Equal(decimal.NewFromInt(12)))
	})

	t.Run("no match keeps the line unscaled", func(t *testing.T) {
		alloc := calc.Allocate(line, ClassRetail, decimal.Zero, false)

		assert.True(t, alloc.Ratio.Equal(decimal.NewFromInt(1)))
		assert.True(t, alloc.Quantity.Equal(line.Quantity))
		assert.True(t, alloc.Revenue.Equal(line.Revenue))
	})

	t.Run("exchange-for-points is never split", func(t *testing.T) {
		alloc := calc.Allocate(line, ClassPointsExchange, decimal.NewFromInt(-3), true)

		assert.True(t, alloc.Ratio.Equal(decimal.NewFromInt(1)))
		assert.True(t, alloc.Quantity.Equal(line.Quantity))
		assert.True(t, alloc.Revenue.Equal(line.Revenue))
	})

	t.Run("zero sale quantity defaults the ratio to one", func(t *testing.T) {
		zeroLine := &SaleLine{
			Quantity: decimal.Zero,
			Revenue:  decimal.NewFromInt(100),
		}
		alloc := calc.Allocate(zeroLine, ClassRetail, decimal.NewFromInt(-4), true)

		assert.True(t, alloc.Ratio.Equal(decimal.NewFromInt(1)))
		assert.True(t, alloc.Quantity.Equal(decimal.NewFromInt(4)))
		assert.True(t, alloc.Revenue.Equal(decimal.NewFromInt(100)))
	})

	t.Run("return line scales on absolute quantities", func(t *testing.T) {
		returnLine := &SaleLine{
			Quantity: decimal.NewFromInt(-4),
			Revenue:  decimal.NewFromInt(-400),
		}
		alloc := calc.Allocate(returnLine, ClassReturn, decimal.NewFromInt(2), true)

		assert.True(t, alloc.Ratio.Equal(decimal.NewFromFloat(0.5)))
		assert.True(t, alloc.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, alloc.Revenue.Equal(decimal.NewFromInt(-200)))
	})
}
