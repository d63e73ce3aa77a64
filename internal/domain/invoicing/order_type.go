package invoicing

import "strings"

// OrderTypeClass is the closed classification of an order type. It is
// produced once per sale line by ClassifyOrderType and consumed everywhere
// else, replacing repeated string comparisons on the raw code/label.
type OrderTypeClass int

const (
	// ClassRetail is the default class for ordinary sales.
	ClassRetail OrderTypeClass = iota
	// ClassReturn marks customer-return orders.
	ClassReturn
	// ClassExchange marks item-exchange orders; the warehouse must come
	// from the sale record, not the matched movement.
	ClassExchange
	// ClassTransfer marks internal-transfer orders; same warehouse rule
	// as ClassExchange.
	ClassTransfer
	// ClassPointsExchange marks exchange-for-points orders; these are
	// never proportionally split and never carry a voucher slot amount.
	ClassPointsExchange
	// ClassCardInstallment marks card-splitting orders; the invoice
	// header customer is the issuing partner, not the nominal customer.
	ClassCardInstallment
)

func (c OrderTypeClass) String() string {
	switch c {
	case ClassReturn:
		return "RETURN"
	case ClassExchange:
		return "EXCHANGE"
	case ClassTransfer:
		return "TRANSFER"
	case ClassPointsExchange:
		return "POINTS_EXCHANGE"
	case ClassCardInstallment:
		return "CARD_INSTALLMENT"
	default:
		return "RETAIL"
	}
}

// WarehouseFromSaleRecord reports whether the warehouse fallback chain must
// skip the matched movement and start at the sale-recorded value.
func (c OrderTypeClass) WarehouseFromSaleRecord() bool {
	return c == ClassExchange || c == ClassTransfer
}

// NeverSplit reports whether lines of this class keep ratio 1 even when a
// movement of a different quantity matched.
func (c OrderTypeClass) NeverSplit() bool {
	return c == ClassPointsExchange
}

var orderClassByCode = map[string]OrderTypeClass{
	"RETAIL":      ClassRetail,
	"POS":         ClassRetail,
	"ONLINE":      ClassRetail,
	"WHOLESALE":   ClassRetail,
	"RETURN":      ClassReturn,
	"EXCHANGE":    ClassExchange,
	"TRANSFER":    ClassTransfer,
	"POINTS":      ClassPointsExchange,
	"POINT_EXCH":  ClassPointsExchange,
	"CARD_SPLIT":  ClassCardInstallment,
	"INSTALLMENT": ClassCardInstallment,
}

// ClassifyOrderType maps a raw order-type code and its human label to the
// closed class. The code table wins; the label is a keyword fallback for
// feeds that only carry the label. Unknown inputs classify as retail.
func ClassifyOrderType(code, label string) OrderTypeClass {
	if c, ok := orderClassByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	l := strings.ToUpper(label)
	switch {
	case strings.Contains(l, "POINT"):
		return ClassPointsExchange
	case strings.Contains(l, "CARD SPLIT"), strings.Contains(l, "INSTALLMENT"):
		return ClassCardInstallment
	case strings.Contains(l, "EXCHANGE"):
		return ClassExchange
	case strings.Contains(l, "TRANSFER"):
		return ClassTransfer
	case strings.Contains(l, "RETURN"):
		return ClassReturn
	}
	return ClassRetail
}
