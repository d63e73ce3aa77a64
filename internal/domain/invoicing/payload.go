package invoicing

import "github.com/shopspring/decimal"

// InvoiceDetail is one output line of the submission payload. Field names are
// parsed positionally by name downstream and must not change.
type InvoiceDetail struct {
	LineNo       int             `json:"line_no"`
	ItemCode     string          `json:"ma_vt"`
	MaterialCode string          `json:"ma_vlieu"`
	Unit         string          `json:"dvt"`
	Quantity     decimal.Decimal `json:"so_luong"`
	UnitPrice    decimal.Decimal `json:"gia_ban"`
	Revenue      decimal.Decimal `json:"tien_hang"`
	LineTotal    decimal.Decimal `json:"tien_tt"`
	Warehouse    string          `json:"ma_kho"`
	LotCode      string          `json:"ma_lo"`
	SerialCode   string          `json:"so_serial"`
	BranchCode   string          `json:"ma_bp"`

	PromotionCode string `json:"ma_km"`
	GiftFlag      int    `json:"km_yn"`
	Inferred      int    `json:"auto_yn"`

	RevenueAccount  string `json:"tk_dt"`
	CostAccount     string `json:"tk_gv"`
	DiscountAccount string `json:"tk_ck"`
	FeeAccount      string `json:"tk_phi"`

	CK01 decimal.Decimal `json:"ck01"`
	CK02 decimal.Decimal `json:"ck02"`
	CK03 decimal.Decimal `json:"ck03"`
	CK04 decimal.Decimal `json:"ck04"`
	CK05 decimal.Decimal `json:"ck05"`
	CK06 decimal.Decimal `json:"ck06"`
	CK07 decimal.Decimal `json:"ck07"`
	CK08 decimal.Decimal `json:"ck08"`
	CK09 decimal.Decimal `json:"ck09"`
	CK10 decimal.Decimal `json:"ck10"`
	CK11 decimal.Decimal `json:"ck11"`
	CK12 decimal.Decimal `json:"ck12"`
	CK13 decimal.Decimal `json:"ck13"`
	CK14 decimal.Decimal `json:"ck14"`
	CK15 decimal.Decimal `json:"ck15"`
	CK16 decimal.Decimal `json:"ck16"`
	CK17 decimal.Decimal `json:"ck17"`
	CK18 decimal.Decimal `json:"ck18"`
	CK19 decimal.Decimal `json:"ck19"`
	CK20 decimal.Decimal `json:"ck20"`
	CK21 decimal.Decimal `json:"ck21"`
	CK22 decimal.Decimal `json:"ck22"`

	MaCK01 string `json:"ma_ck01"`
	MaCK02 string `json:"ma_ck02"`
	MaCK03 string `json:"ma_ck03"`
	MaCK04 string `json:"ma_ck04"`
	MaCK05 string `json:"ma_ck05"`
	MaCK06 string `json:"ma_ck06"`
	MaCK07 string `json:"ma_ck07"`
	MaCK08 string `json:"ma_ck08"`
	MaCK09 string `json:"ma_ck09"`
	MaCK10 string `json:"ma_ck10"`
	MaCK11 string `json:"ma_ck11"`
	MaCK12 string `json:"ma_ck12"`
	MaCK13 string `json:"ma_ck13"`
	MaCK14 string `json:"ma_ck14"`
	MaCK15 string `json:"ma_ck15"`
	MaCK16 string `json:"ma_ck16"`
	MaCK17 string `json:"ma_ck17"`
	MaCK18 string `json:"ma_ck18"`
	MaCK19 string `json:"ma_ck19"`
	MaCK20 string `json:"ma_ck20"`
	MaCK21 string `json:"ma_ck21"`
	MaCK22 string `json:"ma_ck22"`
}

// SetSlots copies a resolved slot set into the positional ck/ma_ck fields.
func (d *InvoiceDetail) SetSlots(slots DiscountSlotSet) {
	amounts := []*decimal.Decimal{
		&d.CK01, &d.CK02, &d.CK03, &d.CK04, &d.CK05, &d.CK06, &d.CK07,
		&d.CK08, &d.CK09, &d.CK10, &d.CK11, &d.CK12, &d.CK13, &d.CK14,
		&d.CK15, &d.CK16, &d.CK17, &d.CK18, &d.CK19, &d.CK20, &d.CK21, &d.CK22,
	}
	codes := []*string{
		&d.MaCK01, &d.MaCK02, &d.MaCK03, &d.MaCK04, &d.MaCK05, &d.MaCK06, &d.MaCK07,
		&d.MaCK08, &d.MaCK09, &d.MaCK10, &d.MaCK11, &d.MaCK12, &d.MaCK13, &d.MaCK14,
		&d.MaCK15, &d.MaCK16, &d.MaCK17, &d.MaCK18, &d.MaCK19, &d.MaCK20, &d.MaCK21, &d.MaCK22,
	}
	for i := range slots {
		*amounts[i] = slots[i].Amount
		*codes[i] = slots[i].Code
	}
}

// TotalDiscount sums the 22 slot amounts of the detail record.
func (d *InvoiceDetail) TotalDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, a := range []decimal.Decimal{
		d.CK01, d.CK02, d.CK03, d.CK04, d.CK05, d.CK06, d.CK07,
		d.CK08, d.CK09, d.CK10, d.CK11, d.CK12, d.CK13, d.CK14,
		d.CK15, d.CK16, d.CK17, d.CK18, d.CK19, d.CK20, d.CK21, d.CK22,
	} {
		total = total.Add(a)
	}
	return total
}

// InvoiceSummaryEntry is one entry of the order-level summary, aggregated per
// distinct material code.
type InvoiceSummaryEntry struct {
	MaterialCode  string          `json:"ma_vlieu"`
	Quantity      decimal.Decimal `json:"so_luong"`
	TotalDiscount decimal.Decimal `json:"tong_ck"`
	UnitPrice     decimal.Decimal `json:"gia_ban"`
	NetAmount     decimal.Decimal `json:"tien"`
}

// InvoicePayload is the full submission envelope for one order.
type InvoicePayload struct {
	OrderCode      string                `json:"so_ct"`
	CustomerCode   string                `json:"ma_kh"`
	DocDate        string                `json:"ngay_ct"` // yyyy-MM-dd
	BranchCode     string                `json:"ma_bp"`
	DepartmentCode string                `json:"ma_phong"`
	Currency       string                `json:"ma_nt"`
	ExchangeRate   decimal.Decimal       `json:"ty_gia"`
	Details        []InvoiceDetail       `json:"detail"`
	Summary        []InvoiceSummaryEntry `json:"cbdetail"`
}
