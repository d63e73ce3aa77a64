package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/erp/invoicing/internal/domain/invoicing"
)

// Snapshot is a file-based input set for offline batch runs: every record the
// engine needs for a set of orders, exported upstream into one JSON document.
type Snapshot struct {
	Orders         []*invoicing.Order                  `json:"orders"`
	SaleLines      []*invoicing.SaleLine               `json:"sale_lines"`
	Movements      []*invoicing.StockMovementRecord    `json:"movements"`
	Products       map[string]invoicing.ProductInfo    `json:"products"`
	Departments    map[string]invoicing.DepartmentInfo `json:"departments"`
	PaymentSources []*invoicing.PaymentSourceRecord    `json:"payment_sources"`
	OrderFees      []*invoicing.OrderFeeRecord         `json:"order_fees"`
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// Source serves the application-layer collaborator ports from a loaded
// snapshot. All lookups are in-memory and never fail.
type Source struct {
	snap *Snapshot
}

// NewSource wraps a snapshot as a collaborator source.
func NewSource(snap *Snapshot) *Source {
	return &Source{snap: snap}
}

// SaleLines returns the sale lines recorded for the order.
func (s *Source) SaleLines(_ context.Context, orderCode string) ([]*invoicing.SaleLine, error) {
	var lines []*invoicing.SaleLine
	for _, line := range s.snap.SaleLines {
		if line.OrderCode == orderCode {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Movements returns the stock movements for the order, including return
// documents referencing it as their originating order.
func (s *Source) Movements(_ context.Context, orderCode string) ([]*invoicing.StockMovementRecord, error) {
	var movements []*invoicing.StockMovementRecord
	for _, mov := range s.snap.Movements {
		if mov.OrderCode == orderCode || mov.OriginOrderCode == orderCode {
			movements = append(movements, mov)
		}
	}
	return movements, nil
}

// Product resolves an item code against the snapshot catalog.
func (s *Source) Product(_ context.Context, itemCode string) (invoicing.ProductInfo, bool, error) {
	info, ok := s.snap.Products[itemCode]
	return info, ok, nil
}

// Department resolves a branch code against the snapshot directory.
func (s *Source) Department(_ context.Context, branchCode string) (invoicing.DepartmentInfo, bool, error) {
	info, ok := s.snap.Departments[branchCode]
	return info, ok, nil
}

// PaymentSources returns the payment-method breakdown for the order.
func (s *Source) PaymentSources(_ context.Context, orderCode string) ([]*invoicing.PaymentSourceRecord, error) {
	var sources []*invoicing.PaymentSourceRecord
	for _, src := range s.snap.PaymentSources {
		if src.OrderCode == orderCode {
			sources = append(sources, src)
		}
	}
	return sources, nil
}

// OrderFee returns the platform fee record for the order, or nil.
func (s *Source) OrderFee(_ context.Context, orderCode string) (*invoicing.OrderFeeRecord, error) {
	for _, fee := range s.snap.OrderFees {
		if fee.OrderCode == orderCode {
			return fee, nil
		}
	}
	return nil, nil
}
