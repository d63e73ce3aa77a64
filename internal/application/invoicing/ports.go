package invoicing

import (
	"context"

	domain "github.com/erp/invoicing/internal/domain/invoicing"
)

// The engine never performs I/O itself; these ports are the collaborators
// that assemble its input snapshot. Implementations live outside this module
// (synchronization jobs, upstream HTTP clients, repositories).

// SaleLineSource supplies the sale lines recorded for one order.
type SaleLineSource interface {
	SaleLines(ctx context.Context, orderCode string) ([]*domain.SaleLine, error)
}

// StockMovementSource supplies the stock-movement records for one order,
// including return documents referencing it as their originating order.
type StockMovementSource interface {
	Movements(ctx context.Context, orderCode string) ([]*domain.StockMovementRecord, error)
}

// ProductDirectory resolves item codes to catalog data.
type ProductDirectory interface {
	Product(ctx context.Context, itemCode string) (domain.ProductInfo, bool, error)
}

// DepartmentDirectory resolves branch codes to department data.
type DepartmentDirectory interface {
	Department(ctx context.Context, branchCode string) (domain.DepartmentInfo, bool, error)
}

// PaymentSourceDirectory supplies the payment-method breakdown for one order.
type PaymentSourceDirectory interface {
	PaymentSources(ctx context.Context, orderCode string) ([]*domain.PaymentSourceRecord, error)
}

// OrderFeeDirectory supplies the platform fee/voucher record for one order,
// or nil when the order has none.
type OrderFeeDirectory interface {
	OrderFee(ctx context.Context, orderCode string) (*domain.OrderFeeRecord, error)
}

// InvoiceSubmitter pushes an assembled payload to the downstream accounting
// system.
type InvoiceSubmitter interface {
	Submit(ctx context.Context, payload *domain.InvoicePayload) error
}
