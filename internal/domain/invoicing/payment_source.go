package invoicing

// SelectPaymentSource picks the payment source that drives voucher/ecoin
// slot resolution for an order. Priority: virtual wallet, then voucher, then
// the first record present, else nil. The order may legitimately carry both a
// wallet and a voucher record; the fixed priority keeps selection
// deterministic rather than surfacing an error.
func SelectPaymentSource(records []*PaymentSourceRecord) *PaymentSourceRecord {
	var voucher, first *PaymentSourceRecord
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.Kind == PaymentKindVirtualWallet {
			return rec
		}
		if rec.Kind == PaymentKindVoucher && voucher == nil {
			voucher = rec
		}
		if first == nil {
			first = rec
		}
	}
	if voucher != nil {
		return voucher
	}
	return first
}
