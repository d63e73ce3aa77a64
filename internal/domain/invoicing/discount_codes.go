package invoicing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountSlotCount is the fixed number of discount slots on an invoice
// line. The downstream accounting system parses the slots positionally by
// name (ck01..ck22 / ma_ck01..ma_ck22), so the count never changes.
const DiscountSlotCount = 22

// DiscountSlot is one (amount, reason-code) pair.
type DiscountSlot struct {
	Amount decimal.Decimal
	Code   string
}

// DiscountSlotSet is the fixed set of 22 slots attached to an exploded line.
// Index 0 is slot 1 (ck01).
type DiscountSlotSet [DiscountSlotCount]DiscountSlot

// Slot returns the 1-based slot n.
func (s *DiscountSlotSet) Slot(n int) DiscountSlot {
	return s[n-1]
}

// Total sums all slot amounts.
func (s *DiscountSlotSet) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range s {
		total = total.Add(s[i].Amount)
	}
	return total
}

// AccountSet is the accounting-account quadruple resolved for a line.
type AccountSet struct {
	Revenue  string
	Cost     string
	Discount string
	Fee      string
}

// Fixed reason-code labels. Most slots carry either a fixed label, a label
// present only when the amount is non-zero, or no label at all.
const (
	codePurchaseDiscount = "CKMUA"
	codeCoupon           = "COUPON"
	codeVoucher          = "VOUCHER"
	codePoint            = "POINT"
	codeEmployee         = "CBNV"
	codeProgram          = "CTKM"
	codeFreight          = "FREIGHT"
	codeTradeIn          = "THUCU"
	codeInstallment      = "TRAGOP"
	codeCardPartner      = "DOITAC"
	codePlatformVoucher  = "SANTMDT"
	codeFlashSale        = "FLASH"
	codeBundle           = "COMBO"
	codeDisplay          = "TRUNGBAY"
	codeWarranty         = "BHMR"
	codeOther            = "KHAC"
)

// promoInvestmentLabel is the sentinel promotion label that suppresses the
// gift flag even on zero-priced lines.
const promoInvestmentLabel = "INVESTMENT"

// giftEpsilon bounds how far from zero unit price and line total may be for
// a line to still count as a gift.
var giftEpsilon = decimal.NewFromFloat(0.01)

// Revenue/cost account codes by scenario.
const (
	accountRevenueRetail    = "5111"
	accountRevenueWholesale = "5112"
	accountRevenueZeroPrice = "5118"
	accountCostRetail       = "6321"
	accountCostWholesale    = "6322"
	accountCostZeroPrice    = "6328"
	accountRevenueGift      = "6418"
	accountCostGift         = "6418G"
)

// accountRuleKey keys the per-brand discount/fee account tables.
type accountRuleKey struct {
	hasPromo bool
	gift     bool
	class    OrderTypeClass
}

// discountFeeAccounts is a (discount account, fee account) pair.
type discountFeeAccounts struct {
	discount string
	fee      string
}

// defaultDiscountFeeAccounts is the brand-independent fallback table.
var defaultDiscountFeeAccounts = map[accountRuleKey]discountFeeAccounts{
	{hasPromo: false, gift: false, class: ClassRetail}:         {"5211", "6417"},
	{hasPromo: true, gift: false, class: ClassRetail}:          {"5212", "6417"},
	{hasPromo: false, gift: true, class: ClassRetail}:          {"6418", "6417"},
	{hasPromo: true, gift: true, class: ClassRetail}:           {"6418", "6417"},
	{hasPromo: false, gift: false, class: ClassReturn}:         {"5213", "6417"},
	{hasPromo: true, gift: false, class: ClassReturn}:          {"5213", "6417"},
	{hasPromo: false, gift: false, class: ClassPointsExchange}: {"5214", "6417"},
}

// discountFeeAccountsByBrand carries brand-specific overrides; any miss falls
// back to the default table, then to the plain-retail default row.
var discountFeeAccountsByBrand = map[string]map[accountRuleKey]discountFeeAccounts{
	"FSHOP": {
		{hasPromo: true, gift: false, class: ClassRetail}: {"5212F", "6417F"},
		{hasPromo: false, gift: true, class: ClassRetail}: {"6418F", "6417F"},
	},
	"LONGCHAU": {
		{hasPromo: false, gift: false, class: ClassRetail}: {"5211L", "6417L"},
	},
}

// DiscountInput carries everything slot resolution needs for one exploded
// line. Amounts must already be scaled by the line's allocation ratio.
type DiscountInput struct {
	Discounts  DiscountAmounts
	Class      OrderTypeClass
	ProductTag ProductTag
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal

	PromotionCode  string
	PromotionLabel string

	// Selected payment source for the order; nil when none exists.
	PaymentSource *PaymentSourceRecord
	// Order-level platform fees; attached only when AttachOrderFees is set
	// (the assembler sets it for the first line of the order only, so the
	// order-level amounts are not duplicated across the split).
	OrderFee        *OrderFeeRecord
	AttachOrderFees bool

	// Department of the line's branch; nil when the lookup missed.
	Department *DepartmentInfo
	Brand      string
	// Outbound reports whether the line is backed by a stock-out movement;
	// it gates the merchandise promotion suffix.
	Outbound bool
}

// DiscountResolution is the total result of the rule table for one line.
type DiscountResolution struct {
	Slots         DiscountSlotSet
	PromotionCode string
	GiftLine      bool
	Accounts      AccountSet
}

// DiscountCodeResolver encodes the slot decision table, the promotion-code
// rules and the account tables. Resolution is total: missing lookups degrade
// to empty codes, never an error.
type DiscountCodeResolver struct{}

// NewDiscountCodeResolver creates a resolver.
func NewDiscountCodeResolver() *DiscountCodeResolver {
	return &DiscountCodeResolver{}
}

// Resolve runs the full rule table for one exploded line.
func (r *DiscountCodeResolver) Resolve(in DiscountInput) DiscountResolution {
	res := DiscountResolution{
		GiftLine:      r.isGiftLine(in),
		PromotionCode: r.promotionCode(in),
	}
	res.Slots = r.resolveSlots(in)
	res.Accounts = r.resolveAccounts(in, res.GiftLine, res.PromotionCode != "")
	return res
}

// resolveSlots fills the 22 slots. There is no shared formula; each slot is
// encoded on its own.
func (r *DiscountCodeResolver) resolveSlots(in DiscountInput) DiscountSlotSet {
	var slots DiscountSlotSet
	d := in.Discounts

	// Slot 1: purchase discount, the larger of the two raw sources.
	slot1 := d.OtherDiscount
	if d.PurchaseDiscount.GreaterThan(slot1) {
		slot1 = d.PurchaseDiscount
	}
	slots[0] = DiscountSlot{Amount: slot1, Code: codePurchaseDiscount}

	// Slot 2: policy discount, no reason code.
	slots[1] = DiscountSlot{Amount: d.PolicyDiscount}

	// Slot 3: VIP-grade discount; GradeDiscount with the legacy alias as
	// fallback, labelled by the brand-aware VIP helper.
	grade := d.GradeDiscount
	if grade.IsZero() {
		grade = d.VIPDiscount
	}
	slots[2] = DiscountSlot{Amount: grade, Code: vipGradeLabel(in.Brand, in.ProductTag)}

	// Slot 4: coupon, labelled only when an amount is present.
	slots[3] = DiscountSlot{Amount: d.CouponPayment, Code: codeWhenPositive(d.CouponPayment, codeCoupon)}

	// Slots 5 and 11: voucher vs ecoin, mutually exclusive. The selected
	// payment source is the source of truth and overrides whatever the raw
	// line carried in either category.
	voucher, ecoin := r.splitVoucherAmount(in)
	slots[4] = voucher
	slots[10] = ecoin

	// Slot 6: member-point redemption.
	slots[5] = DiscountSlot{Amount: d.PointRedemption, Code: codeWhenPositive(d.PointRedemption, codePoint)}

	// Slot 7: employee discount, fixed label.
	slots[6] = DiscountSlot{Amount: d.EmployeeDiscount, Code: codeEmployee}

	// Slot 8: promotion-program subsidy, fixed label.
	slots[7] = DiscountSlot{Amount: d.ProgramSubsidy, Code: codeProgram}

	// Slot 9: freight subsidy.
	slots[8] = DiscountSlot{Amount: d.FreightSubsidy, Code: codeWhenPositive(d.FreightSubsidy, codeFreight)}

	// Slot 10: trade-in credit, fixed label.
	slots[9] = DiscountSlot{Amount: d.TradeInCredit, Code: codeTradeIn}

	// Slot 12: installment subsidy.
	slots[11] = DiscountSlot{Amount: d.InstallmentSubsidy, Code: codeWhenPositive(d.InstallmentSubsidy, codeInstallment)}

	// Slot 13: card-partner subsidy, fixed label.
	slots[12] = DiscountSlot{Amount: d.CardPartnerSubsidy, Code: codeCardPartner}

	// Slots 14/15: order-level platform voucher and shipping fee, attached
	// to one line per order only.
	if in.AttachOrderFees && in.OrderFee != nil {
		pv := in.OrderFee.PlatformVoucher
		slots[13] = DiscountSlot{Amount: pv, Code: codeWhenPositive(pv, codePlatformVoucher)}
		slots[14] = DiscountSlot{Amount: in.OrderFee.PlatformShippingFee}
	}

	// Slot 16: flash-sale discount, fixed label.
	slots[15] = DiscountSlot{Amount: d.FlashSaleDiscount, Code: codeFlashSale}

	// Slot 17: bundle discount.
	slots[16] = DiscountSlot{Amount: d.BundleDiscount, Code: codeWhenPositive(d.BundleDiscount, codeBundle)}

	// Slot 18: display-unit markdown, fixed label.
	slots[17] = DiscountSlot{Amount: d.DisplayMarkdown, Code: codeDisplay}

	// Slot 19: warranty-package discount.
	slots[18] = DiscountSlot{Amount: d.WarrantyDiscount, Code: codeWhenPositive(d.WarrantyDiscount, codeWarranty)}

	// Slot 20: B2B contract discount, no reason code.
	slots[19] = DiscountSlot{Amount: d.ContractDiscount}

	// Slot 21: rounding adjustment, no reason code.
	slots[20] = DiscountSlot{Amount: d.RoundingAdjustment}

	// Slot 22: other subsidy.
	slots[21] = DiscountSlot{Amount: d.OtherSubsidy, Code: codeWhenPositive(d.OtherSubsidy, codeOther)}

	return slots
}

// splitVoucherAmount routes the voucher/ecoin amount to slot 5 or slot 11
// based on the selected payment source. Exactly one of the two may carry a
// non-zero amount. Exchange-for-points orders force slot 5 to zero
// regardless of the selection.
func (r *DiscountCodeResolver) splitVoucherAmount(in DiscountInput) (slot5, slot11 DiscountSlot) {
	amount := in.Discounts.VoucherPayment

	if in.PaymentSource != nil {
		switch in.PaymentSource.Kind {
		case PaymentKindVirtualWallet:
			return DiscountSlot{}, DiscountSlot{Amount: amount, Code: walletLabel(in.Brand, in.ProductTag)}
		case PaymentKindVoucher:
			if in.Class == ClassPointsExchange {
				return DiscountSlot{}, DiscountSlot{}
			}
			return DiscountSlot{Amount: amount, Code: codeVoucher}, DiscountSlot{}
		}
	}

	if in.Class == ClassPointsExchange {
		return DiscountSlot{}, DiscountSlot{}
	}
	return DiscountSlot{Amount: amount, Code: codeVoucher}, DiscountSlot{}
}

// promotionCode truncates the raw code at the first delimiter and appends
// the product-type suffix: ".I" for merchandise on an outbound line, ".S"
// for services, ".V" for vouchers, nothing otherwise.
func (r *DiscountCodeResolver) promotionCode(in DiscountInput) string {
	code := in.PromotionCode
	if idx := strings.IndexAny(code, ".-"); idx >= 0 {
		code = code[:idx]
	}
	if code == "" {
		return ""
	}
	switch {
	case in.ProductTag == ProductTagMerchandise && in.Outbound:
		return code + ".I"
	case in.ProductTag == ProductTagService:
		return code + ".S"
	case in.ProductTag == ProductTagVoucher:
		return code + ".V"
	default:
		return code
	}
}

// isGiftLine reports km_yn: unit price and line total both within epsilon of
// zero, and the promotion label is not the investment sentinel.
func (r *DiscountCodeResolver) isGiftLine(in DiscountInput) bool {
	if strings.EqualFold(strings.TrimSpace(in.PromotionLabel), promoInvestmentLabel) {
		return false
	}
	return in.UnitPrice.Abs().LessThanOrEqual(giftEpsilon) &&
		in.LineTotal.Abs().LessThanOrEqual(giftEpsilon)
}

// resolveAccounts picks the four accounting accounts for the line. A missing
// department degrades to empty revenue/cost codes rather than failing.
func (r *DiscountCodeResolver) resolveAccounts(in DiscountInput, gift, hasPromo bool) AccountSet {
	var acc AccountSet

	if in.Department != nil {
		switch {
		case gift:
			acc.Revenue = accountRevenueGift
			acc.Cost = accountCostGift
		case in.UnitPrice.IsZero():
			acc.Revenue = accountRevenueZeroPrice
			acc.Cost = accountCostZeroPrice
		case in.Department.Channel == ChannelWholesale:
			acc.Revenue = accountRevenueWholesale
			acc.Cost = accountCostWholesale
		default:
			acc.Revenue = accountRevenueRetail
			acc.Cost = accountCostRetail
		}
	}

	key := accountRuleKey{hasPromo: hasPromo, gift: gift, class: in.Class}
	pair, ok := lookupDiscountFee(in.Brand, key)
	if !ok {
		// Unlisted class rows (exchange, transfer, card-installment)
		// reuse the plain-retail pair for their promo/gift shape.
		key.class = ClassRetail
		pair, ok = lookupDiscountFee(in.Brand, key)
	}
	if ok {
		acc.Discount = pair.discount
		acc.Fee = pair.fee
	}
	return acc
}

func lookupDiscountFee(brand string, key accountRuleKey) (discountFeeAccounts, bool) {
	if byBrand, ok := discountFeeAccountsByBrand[strings.ToUpper(brand)]; ok {
		if pair, ok := byBrand[key]; ok {
			return pair, true
		}
	}
	pair, ok := defaultDiscountFeeAccounts[key]
	return pair, ok
}

// codeWhenPositive returns the label only when amount > 0.
func codeWhenPositive(amount decimal.Decimal, code string) string {
	if amount.IsPositive() {
		return code
	}
	return ""
}

// vipGradeLabel computes the slot-3 reason code. The label is brand-scoped;
// service lines get the service-scoped variant.
func vipGradeLabel(brand string, tag ProductTag) string {
	label := "VIP"
	if b := strings.ToUpper(strings.TrimSpace(brand)); b != "" {
		label = "VIP_" + b
	}
	if tag == ProductTagService {
		label += ".S"
	}
	return label
}

// walletLabel computes the slot-11 reason code for virtual-wallet payments.
func walletLabel(brand string, tag ProductTag) string {
	label := "ECOIN"
	if b := strings.ToUpper(strings.TrimSpace(brand)); b != "" {
		label = "ECOIN_" + b
	}
	if tag == ProductTagService {
		label += ".S"
	}
	return label
}
