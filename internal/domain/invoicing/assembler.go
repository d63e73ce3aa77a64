package invoicing

import (
	"github.com/shopspring/decimal"
)

// docDateLayout is the date format the downstream accounting system expects.
const docDateLayout = "2006-01-02"

// InvoicePayloadAssembler folds exploded lines into the submission payload:
// one detail record per line, the per-material cbdetail summary, and the
// envelope header.
type InvoicePayloadAssembler struct {
	currency     string
	exchangeRate decimal.Decimal
}

// AssemblerOption configures an InvoicePayloadAssembler.
type AssemblerOption func(*InvoicePayloadAssembler)

// WithCurrency overrides the operating currency and exchange rate of the
// envelope.
func WithCurrency(currency string, rate decimal.Decimal) AssemblerOption {
	return func(a *InvoicePayloadAssembler) {
		if currency != "" {
			a.currency = currency
		}
		if rate.IsPositive() {
			a.exchangeRate = rate
		}
	}
}

// NewInvoicePayloadAssembler creates an assembler for the operating currency
// (VND, exchange rate 1.0) unless overridden.
func NewInvoicePayloadAssembler(opts ...AssemblerOption) *InvoicePayloadAssembler {
	a := &InvoicePayloadAssembler{
		currency:     "VND",
		exchangeRate: decimal.NewFromInt(1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble produces the payload for one order. Line indices are 1-based and
// monotonically increasing in input order.
func (a *InvoicePayloadAssembler) Assemble(order *Order, lines []*ExplodedLine, departments DepartmentLookup) *InvoicePayload {
	payload := &InvoicePayload{
		OrderCode:    order.OrderCode,
		CustomerCode: a.customerCode(order, lines),
		DocDate:      order.DocDate.Format(docDateLayout),
		Currency:     a.currency,
		ExchangeRate: a.exchangeRate,
		Details:      make([]InvoiceDetail, 0, len(lines)),
	}

	for i, line := range lines {
		detail := InvoiceDetail{
			LineNo:          i + 1,
			ItemCode:        line.ItemCode,
			MaterialCode:    line.MaterialCode,
			Unit:            line.Unit,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			Revenue:         line.Revenue,
			LineTotal:       line.LineTotal,
			Warehouse:       line.Warehouse,
			LotCode:         line.LotCode,
			SerialCode:      line.SerialCode,
			BranchCode:      line.BranchCode,
			PromotionCode:   line.PromotionCode,
			GiftFlag:        boolFlag(line.GiftLine),
			Inferred:        boolFlag(line.Inferred),
			RevenueAccount:  line.Accounts.Revenue,
			CostAccount:     line.Accounts.Cost,
			DiscountAccount: line.Accounts.Discount,
			FeeAccount:      line.Accounts.Fee,
		}
		detail.SetSlots(line.Slots)
		payload.Details = append(payload.Details, detail)
	}

	if len(payload.Details) > 0 {
		first := payload.Details[0]
		payload.BranchCode = first.BranchCode
		if departments != nil {
			if dept, ok := departments(first.BranchCode); ok {
				payload.DepartmentCode = dept.DepartmentCode
			}
		}
	}

	payload.Summary = a.summarize(payload.Details)
	return payload
}

// customerCode resolves the header customer. Card-splitting orders use the
// issuing-partner code carried on the negative-quantity line (or any line
// that has one) instead of the nominal customer.
func (a *InvoicePayloadAssembler) customerCode(order *Order, lines []*ExplodedLine) string {
	cardSplit := false
	for _, line := range lines {
		if line.Class == ClassCardInstallment {
			cardSplit = true
			break
		}
	}
	if !cardSplit {
		return order.CustomerCode
	}
	var fallback string
	for _, line := range lines {
		if line.PartnerRef == "" {
			continue
		}
		if line.Quantity.IsNegative() {
			return line.PartnerRef
		}
		if fallback == "" {
			fallback = line.PartnerRef
		}
	}
	if fallback != "" {
		return fallback
	}
	return order.CustomerCode
}

// summarize aggregates detail records per distinct material code, in
// first-seen order. Net amount is revenue minus the summed discount slots.
func (a *InvoicePayloadAssembler) summarize(details []InvoiceDetail) []InvoiceSummaryEntry {
	index := make(map[string]int)
	summary := make([]InvoiceSummaryEntry, 0)

	for i := range details {
		d := &details[i]
		discount := d.TotalDiscount()

		pos, seen := index[d.MaterialCode]
		if !seen {
			index[d.MaterialCode] = len(summary)
			summary = append(summary, InvoiceSummaryEntry{
				MaterialCode: d.MaterialCode,
				UnitPrice:    d.UnitPrice,
			})
			pos = len(summary) - 1
		}

		entry := &summary[pos]
		entry.Quantity = entry.Quantity.Add(d.Quantity)
		entry.TotalDiscount = entry.TotalDiscount.Add(discount)
		entry.NetAmount = entry.NetAmount.Add(d.Revenue.Sub(discount))
	}

	return summary
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
