package invoicing

// BatchSerialResolver chooses between lot code and serial code for an
// exploded line. A product is tracked by lot number or by serial number,
// never both; lot takes priority when both flags are (incorrectly) set since
// lot is the coarser, always-safe choice.
type BatchSerialResolver struct{}

// Resolve returns the (lotCode, serialCode) pair for a line. At most one is
// populated; both are empty when the source value is empty or the product is
// untracked.
func (BatchSerialResolver) Resolve(source string, tracksLot, tracksSerial bool) (lotCode, serialCode string) {
	if source == "" {
		return "", ""
	}
	switch {
	case tracksLot:
		return source, ""
	case tracksSerial:
		return "", source
	default:
		return "", ""
	}
}
