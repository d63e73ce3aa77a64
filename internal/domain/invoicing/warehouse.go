package invoicing

// WarehouseResolver resolves the final warehouse code for a line via the
// fallback chain movement → sale record → department default, plus an
// optional remap table modelling historical warehouse-code renumbering.
type WarehouseResolver struct {
	remap map[string]string
}

// NewWarehouseResolver creates a resolver. remap may be nil.
func NewWarehouseResolver(remap map[string]string) *WarehouseResolver {
	return &WarehouseResolver{remap: remap}
}

// Resolve picks the first non-empty code in the chain. Exchange/transfer
// orders must take the warehouse from the sale record, so for those classes
// the matched movement's code is skipped. The chosen code is substituted
// through the remap table when an entry exists.
func (r *WarehouseResolver) Resolve(movementWarehouse, saleWarehouse, departmentDefault string, class OrderTypeClass) string {
	code := movementWarehouse
	if class.WarehouseFromSaleRecord() {
		code = ""
	}
	if code == "" {
		code = saleWarehouse
	}
	if code == "" {
		code = departmentDefault
	}
	if r != nil && r.remap != nil {
		if mapped, ok := r.remap[code]; ok {
			return mapped
		}
	}
	return code
}
