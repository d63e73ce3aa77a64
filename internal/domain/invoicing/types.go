package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductTag classifies what kind of thing a sale line sells.
type ProductTag string

const (
	ProductTagMerchandise ProductTag = "MERCHANDISE"
	ProductTagService     ProductTag = "SERVICE"
	ProductTagVoucher     ProductTag = "VOUCHER"
	ProductTagGift        ProductTag = "GIFT"
)

// ChannelType is the sales channel of a department.
type ChannelType string

const (
	ChannelRetail    ChannelType = "RETAIL"
	ChannelWholesale ChannelType = "WHOLESALE"
)

// PaymentKind identifies a payment-source record's method.
type PaymentKind string

const (
	PaymentKindCash          PaymentKind = "CASH"
	PaymentKindCard          PaymentKind = "CARD"
	PaymentKindBankTransfer  PaymentKind = "BANK_TRANSFER"
	PaymentKindVoucher       PaymentKind = "VOUCHER"
	PaymentKindVirtualWallet PaymentKind = "VIRTUAL_WALLET"
)

// Order is the header of the commercial order being invoiced.
type Order struct {
	OrderCode    string
	CustomerCode string
	Brand        string
	DocDate      time.Time
}

// DiscountAmounts carries the raw per-category discount values recorded on a
// sale line by upstream ingestion. Amounts are signed; a zero value simply
// means the category does not apply to the line.
type DiscountAmounts struct {
	OtherDiscount      decimal.Decimal
	PurchaseDiscount   decimal.Decimal
	PolicyDiscount     decimal.Decimal
	GradeDiscount      decimal.Decimal
	VIPDiscount        decimal.Decimal // legacy alias of GradeDiscount, kept for old feeds
	CouponPayment      decimal.Decimal
	VoucherPayment     decimal.Decimal
	PointRedemption    decimal.Decimal
	EmployeeDiscount   decimal.Decimal
	ProgramSubsidy     decimal.Decimal
	FreightSubsidy     decimal.Decimal
	TradeInCredit      decimal.Decimal
	InstallmentSubsidy decimal.Decimal
	CardPartnerSubsidy decimal.Decimal
	FlashSaleDiscount  decimal.Decimal
	BundleDiscount     decimal.Decimal
	DisplayMarkdown    decimal.Decimal
	WarrantyDiscount   decimal.Decimal
	ContractDiscount   decimal.Decimal
	RoundingAdjustment decimal.Decimal
	OtherSubsidy       decimal.Decimal
}

// Scale returns a copy with every category multiplied by ratio.
func (d DiscountAmounts) Scale(ratio decimal.Decimal) DiscountAmounts {
	return DiscountAmounts{
		OtherDiscount:      d.OtherDiscount.Mul(ratio),
		PurchaseDiscount:   d.PurchaseDiscount.Mul(ratio),
		PolicyDiscount:     d.PolicyDiscount.Mul(ratio),
		GradeDiscount:      d.GradeDiscount.Mul(ratio),
		VIPDiscount:        d.VIPDiscount.Mul(ratio),
		CouponPayment:      d.CouponPayment.Mul(ratio),
		VoucherPayment:     d.VoucherPayment.Mul(ratio),
		PointRedemption:    d.PointRedemption.Mul(ratio),
		EmployeeDiscount:   d.EmployeeDiscount.Mul(ratio),
		ProgramSubsidy:     d.ProgramSubsidy.Mul(ratio),
		FreightSubsidy:     d.FreightSubsidy.Mul(ratio),
		TradeInCredit:      d.TradeInCredit.Mul(ratio),
		InstallmentSubsidy: d.InstallmentSubsidy.Mul(ratio),
		CardPartnerSubsidy: d.CardPartnerSubsidy.Mul(ratio),
		FlashSaleDiscount:  d.FlashSaleDiscount.Mul(ratio),
		BundleDiscount:     d.BundleDiscount.Mul(ratio),
		DisplayMarkdown:    d.DisplayMarkdown.Mul(ratio),
		WarrantyDiscount:   d.WarrantyDiscount.Mul(ratio),
		ContractDiscount:   d.ContractDiscount.Mul(ratio),
		RoundingAdjustment: d.RoundingAdjustment.Mul(ratio),
		OtherSubsidy:       d.OtherSubsidy.Mul(ratio),
	}
}

// SaleLine is one priced item/service entry within a commercial order.
// Instances are immutable inputs to the engine.
type SaleLine struct {
	ID             uuid.UUID
	OrderCode      string
	ItemCode       string
	Quantity       decimal.Decimal // signed; negative = return
	UnitPrice      decimal.Decimal
	Revenue        decimal.Decimal
	LineTotal      decimal.Decimal
	Cost           decimal.Decimal
	Tax            decimal.Decimal
	OrderTypeCode  string
	OrderTypeLabel string
	ProductTag     ProductTag
	PartnerRef     string // issuing-partner code for card-installment orders
	BranchCode     string
	WarehouseCode  string // sale-recorded warehouse
	PromotionCode  string
	PromotionLabel string
	Discounts      DiscountAmounts
}

// StockMovementRecord records physical inventory leaving or returning a
// warehouse, tied to an order. Multiple records may exist per item code
// within one order (partial fulfilments).
type StockMovementRecord struct {
	ID              uuid.UUID
	OrderCode       string
	OriginOrderCode string // set on return documents; points at the original sale
	ItemCode        string
	MaterialCode    string          // may be absent until resolved via product lookup
	Quantity        decimal.Decimal // signed; negative = stock-out
	WarehouseCode   string
	LotOrSerial     string
	DocCode         string // prefix distinguishes outbound vs inbound document classes
	MovedAt         time.Time
}

// MatchedPair associates one sale line with the stock movements consumed for
// it. A movement record is referenced by at most one pair. Outbounds usually
// holds a single record; additional entries come from the legacy
// one-sale-to-many-movements fallback in the matcher.
type MatchedPair struct {
	SaleLineID uuid.UUID
	Outbounds  []*StockMovementRecord
	Inbounds   []*StockMovementRecord
}

// FirstOutbound returns the first matched outbound movement, or nil.
func (p *MatchedPair) FirstOutbound() *StockMovementRecord {
	if p == nil || len(p.Outbounds) == 0 {
		return nil
	}
	return p.Outbounds[0]
}

// FirstInbound returns the first matched inbound movement, or nil.
func (p *MatchedPair) FirstInbound() *StockMovementRecord {
	if p == nil || len(p.Inbounds) == 0 {
		return nil
	}
	return p.Inbounds[0]
}

// ProductInfo is the catalog data the engine needs per item code.
type ProductInfo struct {
	MaterialCode string
	TracksLot    bool
	TracksSerial bool
	Unit         string
}

// DepartmentInfo is the department/branch data the engine needs per branch code.
type DepartmentInfo struct {
	DefaultWarehouse string
	DepartmentCode   string
	Channel          ChannelType
}

// ProductLookup resolves an item code to catalog data. The second return
// value reports whether the item is known; the engine degrades to defaults
// when it is not.
type ProductLookup func(itemCode string) (ProductInfo, bool)

// DepartmentLookup resolves a branch code to department data.
type DepartmentLookup func(branchCode string) (DepartmentInfo, bool)

// PaymentSourceRecord is one entry of the payment-method breakdown ("cashio")
// for an order.
type PaymentSourceRecord struct {
	OrderCode string
	Kind      PaymentKind
	Amount    decimal.Decimal
}

// OrderFeeRecord carries per-order platform fee/voucher data.
type OrderFeeRecord struct {
	OrderCode           string
	PlatformVoucher     decimal.Decimal
	PlatformShippingFee decimal.Decimal
}

// ExplodedLine is one output line produced from a sale line and a matched
// stock movement, from an unmatched sale line (ratio 1), or synthesized from
// an unmatched movement (Inferred, zero priced).
type ExplodedLine struct {
	Sale  *SaleLine // nil for inferred lines
	Class OrderTypeClass

	ItemCode     string
	MaterialCode string
	Unit         string
	BranchCode   string
	PartnerRef   string

	Ratio     decimal.Decimal
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Revenue   decimal.Decimal
	LineTotal decimal.Decimal
	Cost      decimal.Decimal
	Tax       decimal.Decimal
	Discounts DiscountAmounts // raw categories scaled by Ratio

	Slots         DiscountSlotSet
	PromotionCode string
	GiftLine      bool
	Accounts      AccountSet

	Warehouse  string
	LotCode    string
	SerialCode string

	Inferred bool
}
