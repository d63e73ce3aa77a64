package invoicing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erp/invoicing/internal/domain/shared"
)

// BuildInput is the full input snapshot for one order. The engine performs no
// I/O; every collection must already be loaded by the caller.
type BuildInput struct {
	Order          *Order
	SaleLines      []*SaleLine
	Movements      []*StockMovementRecord
	Products       ProductLookup
	Departments    DepartmentLookup
	PaymentSources []*PaymentSourceRecord
	OrderFee       *OrderFeeRecord
}

// Engine runs the per-order reconciliation pipeline: match, explode,
// allocate, resolve, assemble. It is stateless between orders and safe to
// share across goroutines as long as each invocation owns its input
// snapshot.
type Engine struct {
	matcher     *StockMatcher
	allocator   AllocationCalculator
	batchSerial BatchSerialResolver
	warehouses  *WarehouseResolver
	discounts   *DiscountCodeResolver
	assembler   *InvoicePayloadAssembler
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStockMatcher replaces the default matcher.
func WithStockMatcher(m *StockMatcher) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithWarehouseRemap installs the external warehouse code remap table.
func WithWarehouseRemap(remap map[string]string) EngineOption {
	return func(e *Engine) {
		e.warehouses = NewWarehouseResolver(remap)
	}
}

// WithAssembler replaces the default payload assembler.
func WithAssembler(a *InvoicePayloadAssembler) EngineOption {
	return func(e *Engine) {
		if a != nil {
			e.assembler = a
		}
	}
}

// NewEngine creates an engine with default components.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		matcher:    NewStockMatcher(),
		warehouses: NewWarehouseResolver(nil),
		discounts:  NewDiscountCodeResolver(),
		assembler:  NewInvoicePayloadAssembler(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildInvoice reconciles one order's sale lines against its stock movements
// and assembles the submission payload. Missing optional data degrades to
// zero/empty fields; only structurally invalid input (nil order, records
// carrying a different order code) is rejected.
func (e *Engine) BuildInvoice(ctx context.Context, in BuildInput) (*InvoicePayload, error) {
	if in.Order == nil || in.Order.OrderCode == "" {
		return nil, shared.ErrInvalidInput
	}
	if err := e.validateOrderScope(in); err != nil {
		return nil, err
	}

	selected := SelectPaymentSource(in.PaymentSources)
	match := e.matcher.Match(in.SaleLines, in.Movements, in.Products)

	lines := make([]*ExplodedLine, 0, len(in.SaleLines))
	orderFeesAttached := false

	for _, sale := range in.SaleLines {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		exploded := e.explodeSaleLine(sale, match.Pairs[sale.ID], in, selected, &orderFeesAttached)
		lines = append(lines, exploded...)
	}

	for _, mov := range match.UnmatchedMovements {
		lines = append(lines, e.inferredLine(mov, in))
	}

	return e.assembler.Assemble(in.Order, lines, in.Departments), nil
}

// validateOrderScope rejects collections assembled for the wrong order.
// Return documents may reference the order via their originating order code.
func (e *Engine) validateOrderScope(in BuildInput) error {
	code := in.Order.OrderCode
	for _, line := range in.SaleLines {
		if line.OrderCode != code {
			return shared.NewDomainError("ORDER_MISMATCH",
				fmt.Sprintf("sale line %s belongs to order %s, not %s", line.ID, line.OrderCode, code))
		}
	}
	for _, mov := range in.Movements {
		if mov.OrderCode != code && mov.OriginOrderCode != code {
			return shared.NewDomainError("ORDER_MISMATCH",
				fmt.Sprintf("stock movement %s belongs to order %s, not %s", mov.DocCode, mov.OrderCode, code))
		}
	}
	return nil
}

// explodeSaleLine emits one output line per driving movement, or a single
// unscaled line when no movement matched. Outbound movements drive the split;
// for return lines (negative quantity) without outbounds the inbound
// movements drive it instead.
func (e *Engine) explodeSaleLine(sale *SaleLine, pair *MatchedPair, in BuildInput, selected *PaymentSourceRecord, orderFeesAttached *bool) []*ExplodedLine {
	class := ClassifyOrderType(sale.OrderTypeCode, sale.OrderTypeLabel)

	var driving []*StockMovementRecord
	outbound := false
	if pair != nil {
		driving = pair.Outbounds
		outbound = len(driving) > 0
		if len(driving) == 0 && sale.Quantity.IsNegative() {
			driving = pair.Inbounds
		}
	}

	if len(driving) == 0 || class.NeverSplit() {
		var mov *StockMovementRecord
		if len(driving) > 0 {
			mov = driving[0]
		}
		line := e.buildLine(sale, class, mov, false, outbound, in, selected, orderFeesAttached)
		return []*ExplodedLine{line}
	}

	lines := make([]*ExplodedLine, 0, len(driving))
	for _, mov := range driving {
		lines = append(lines, e.buildLine(sale, class, mov, true, outbound, in, selected, orderFeesAttached))
	}
	return lines
}

// buildLine runs allocation and every resolver for one (sale line, movement)
// pairing.
func (e *Engine) buildLine(sale *SaleLine, class OrderTypeClass, mov *StockMovementRecord, scaled, outbound bool, in BuildInput, selected *PaymentSourceRecord, orderFeesAttached *bool) *ExplodedLine {
	movQty := decimal.Zero
	if mov != nil {
		movQty = mov.Quantity
	}
	alloc := e.allocator.Allocate(sale, class, movQty, scaled)

	product, productKnown := ProductInfo{}, false
	if in.Products != nil {
		product, productKnown = in.Products(sale.ItemCode)
	}

	var dept *DepartmentInfo
	if in.Departments != nil {
		if d, ok := in.Departments(sale.BranchCode); ok {
			dept = &d
		}
	}

	line := &ExplodedLine{
		Sale:       sale,
		Class:      class,
		ItemCode:   sale.ItemCode,
		Unit:       product.Unit,
		BranchCode: sale.BranchCode,
		PartnerRef: sale.PartnerRef,
		Ratio:      alloc.Ratio,
		Quantity:   alloc.Quantity,
		UnitPrice:  sale.UnitPrice,
		Revenue:    alloc.Revenue,
		LineTotal:  alloc.LineTotal,
		Cost:       alloc.Cost,
		Tax:        alloc.Tax,
		Discounts:  alloc.Discounts,
	}
	if productKnown {
		line.MaterialCode = product.MaterialCode
	} else if mov != nil {
		line.MaterialCode = mov.MaterialCode
	}

	movWarehouse, movSource := "", ""
	if mov != nil {
		movWarehouse = mov.WarehouseCode
		movSource = mov.LotOrSerial
	}
	deptDefault := ""
	if dept != nil {
		deptDefault = dept.DefaultWarehouse
	}
	line.Warehouse = e.warehouses.Resolve(movWarehouse, sale.WarehouseCode, deptDefault, class)
	line.LotCode, line.SerialCode = e.batchSerial.Resolve(movSource, product.TracksLot, product.TracksSerial)

	attachFees := !*orderFeesAttached
	res := e.discounts.Resolve(DiscountInput{
		Discounts:       alloc.Discounts,
		Class:           class,
		ProductTag:      sale.ProductTag,
		UnitPrice:       sale.UnitPrice,
		LineTotal:       alloc.LineTotal,
		PromotionCode:   sale.PromotionCode,
		PromotionLabel:  sale.PromotionLabel,
		PaymentSource:   selected,
		OrderFee:        in.OrderFee,
		AttachOrderFees: attachFees,
		Department:      dept,
		Brand:           in.Order.Brand,
		Outbound:        outbound,
	})
	if attachFees {
		*orderFeesAttached = true
	}

	line.Slots = res.Slots
	line.PromotionCode = res.PromotionCode
	line.GiftLine = res.GiftLine
	line.Accounts = res.Accounts
	return line
}

// inferredLine synthesizes a zero-priced output line for a movement no sale
// line absorbed. Such movements are never silently discarded (financial
// auditability), so they surface in the payload flagged as inferred.
func (e *Engine) inferredLine(mov *StockMovementRecord, in BuildInput) *ExplodedLine {
	product, known := ProductInfo{}, false
	if in.Products != nil {
		product, known = in.Products(mov.ItemCode)
	}

	material := mov.MaterialCode
	if material == "" && known {
		material = product.MaterialCode
	}

	line := &ExplodedLine{
		Class:        ClassRetail,
		ItemCode:     mov.ItemCode,
		MaterialCode: material,
		Unit:         product.Unit,
		Ratio:        decimal.NewFromInt(1),
		Quantity:     mov.Quantity.Abs(),
		UnitPrice:    decimal.Zero,
		Revenue:      decimal.Zero,
		LineTotal:    decimal.Zero,
		Inferred:     true,
	}
	line.Warehouse = e.warehouses.Resolve(mov.WarehouseCode, "", "", ClassRetail)
	line.LotCode, line.SerialCode = e.batchSerial.Resolve(mov.LotOrSerial, product.TracksLot, product.TracksSerial)
	return line
}
