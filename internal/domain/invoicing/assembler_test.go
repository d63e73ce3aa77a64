package invoicing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *Order {
	return &Order{
		OrderCode:    "SO1",
		CustomerCode: "KH001",
		Brand:        "FSHOP",
		DocDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func explodedLine(material string, qty, revenue int64) *ExplodedLine {
	return &ExplodedLine{
		ItemCode:     "A",
		MaterialCode: material,
		BranchCode:   "BR1",
		Ratio:        decimal.NewFromInt(1),
		Quantity:     decimal.NewFromInt(qty),
		UnitPrice:    decimal.NewFromInt(100),
		Revenue:      decimal.NewFromInt(revenue),
	}
}

func TestInvoicePayloadAssembler_Assemble(t *testing.T) {
	assembler := NewInvoicePayloadAssembler()

	t.Run("detail lines carry monotonically increasing indices", func(t *testing.T) {
		lines := []*ExplodedLine{
			explodedLine("M1", 2, 200),
			explodedLine("M1", 3, 300),
			explodedLine("M2", 1, 100),
		}
		payload := assembler.Assemble(testOrder(), lines, nil)

		require.Len(t, payload.Details, 3)
		for i, d := range payload.Details {
			assert.Equal(t, i+1, d.LineNo)
		}
	})

	t.Run("envelope defaults", func(t *testing.T) {
		payload := assembler.Assemble(testOrder(), []*ExplodedLine{explodedLine("M1", 1, 100)}, nil)

		assert.Equal(t, "SO1", payload.OrderCode)
		assert.Equal(t, "KH001", payload.CustomerCode)
		assert.Equal(t, "2024-03-15", payload.DocDate)
		assert.Equal(t, "VND", payload.Currency)
		assert.True(t, payload.ExchangeRate.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, "BR1", payload.BranchCode)
	})

	t.Run("department code resolves via the first detail line", func(t *testing.T) {
		departments := func(branchCode string) (DepartmentInfo, bool) {
			if branchCode == "BR1" {
				return DepartmentInfo{DepartmentCode: "P01"}, true
			}
			return DepartmentInfo{}, false
		}
		payload := assembler.Assemble(testOrder(), []*ExplodedLine{explodedLine("M1", 1, 100)}, departments)
		assert.Equal(t, "P01", payload.DepartmentCode)
	})

	t.Run("summary aggregates per material code", func(t *testing.T) {
		l1 := explodedLine("M1", 2, 200)
		l1.Slots[0] = DiscountSlot{Amount: decimal.NewFromInt(10), Code: "CKMUA"}
		l2 := explodedLine("M1", 3, 300)
		l3 := explodedLine("M2", 1, 100)

		payload := assembler.Assemble(testOrder(), []*ExplodedLine{l1, l2, l3}, nil)

		require.Len(t, payload.Summary, 2)
		m1 := payload.Summary[0]
		assert.Equal(t, "M1", m1.MaterialCode)
		assert.True(t, m1.Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, m1.TotalDiscount.Equal(decimal.NewFromInt(10)))
		assert.True(t, m1.NetAmount.Equal(decimal.NewFromInt(490)))

		m2 := payload.Summary[1]
		assert.Equal(t, "M2", m2.MaterialCode)
		assert.True(t, m2.NetAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("card-splitting uses the issuing partner from the negative line", func(t *testing.T) {
		positive := explodedLine("M1", 1, 100)
		positive.Class = ClassCardInstallment
		positive.PartnerRef = "PARTNER-POS"

		negative := explodedLine("M1", 1, 100)
		negative.Class = ClassCardInstallment
		negative.Quantity = decimal.NewFromInt(-1)
		negative.PartnerRef = "PARTNER-NEG"

		payload := assembler.Assemble(testOrder(), []*ExplodedLine{positive, negative}, nil)
		assert.Equal(t, "PARTNER-NEG", payload.CustomerCode)
	})

	t.Run("card-splitting falls back to any line with a partner", func(t *testing.T) {
		line := explodedLine("M1", 1, 100)
		line.Class = ClassCardInstallment
		line.PartnerRef = "PARTNER-ANY"

		payload := assembler.Assemble(testOrder(), []*ExplodedLine{line}, nil)
		assert.Equal(t, "PARTNER-ANY", payload.CustomerCode)
	})

	t.Run("discount slots land on the positional fields", func(t *testing.T) {
		line := explodedLine("M1", 1, 100)
		line.Slots[4] = DiscountSlot{Amount: decimal.NewFromInt(50), Code: "VOUCHER"}
		line.Slots[21] = DiscountSlot{Amount: decimal.NewFromInt(7), Code: "KHAC"}

		payload := assembler.Assemble(testOrder(), []*ExplodedLine{line}, nil)

		d := payload.Details[0]
		assert.True(t, d.CK05.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "VOUCHER", d.MaCK05)
		assert.True(t, d.CK22.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, "KHAC", d.MaCK22)
		assert.True(t, d.TotalDiscount().Equal(decimal.NewFromInt(57)))
	})

	t.Run("currency override", func(t *testing.T) {
		custom := NewInvoicePayloadAssembler(WithCurrency("USD", decimal.NewFromFloat(25450)))
		payload := custom.Assemble(testOrder(), nil, nil)
		assert.Equal(t, "USD", payload.Currency)
		assert.True(t, payload.ExchangeRate.Equal(decimal.NewFromFloat(25450)))
	})
}
