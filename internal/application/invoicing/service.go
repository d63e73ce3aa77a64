package invoicing

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	domain "github.com/erp/invoicing/internal/domain/invoicing"
	"github.com/erp/invoicing/internal/infrastructure/logger"
)

// defaultFanOutLimit bounds concurrent upstream fan-out when processing a
// batch of orders, to avoid overloading upstream services.
const defaultFanOutLimit = 5

// BuildService assembles the input snapshot for each order from the
// collaborator ports and runs the engine over it. Collaborator fetches are
// issued concurrently per order; any upstream failure except the sale-line
// fetch degrades to empty/default input rather than aborting the order.
type BuildService struct {
	engine *domain.Engine

	saleLines      SaleLineSource
	movements      StockMovementSource
	products       ProductDirectory
	departments    DepartmentDirectory
	paymentSources PaymentSourceDirectory
	orderFees      OrderFeeDirectory

	log   *zap.Logger
	limit int64
}

// BuildServiceOption configures a BuildService.
type BuildServiceOption func(*BuildService)

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) BuildServiceOption {
	return func(s *BuildService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFanOutLimit bounds how many orders fan out to upstream services
// concurrently during batch processing.
func WithFanOutLimit(limit int) BuildServiceOption {
	return func(s *BuildService) {
		if limit > 0 {
			s.limit = int64(limit)
		}
	}
}

// NewBuildService creates a build service.
func NewBuildService(
	engine *domain.Engine,
	saleLines SaleLineSource,
	movements StockMovementSource,
	products ProductDirectory,
	departments DepartmentDirectory,
	paymentSources PaymentSourceDirectory,
	orderFees OrderFeeDirectory,
	opts ...BuildServiceOption,
) *BuildService {
	s := &BuildService{
		engine:         engine,
		saleLines:      saleLines,
		movements:      movements,
		products:       products,
		departments:    departments,
		paymentSources: paymentSources,
		orderFees:      orderFees,
		log:            zap.NewNop(),
		limit:          defaultFanOutLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildOrder fetches the order's input snapshot and builds its payload.
func (s *BuildService) BuildOrder(ctx context.Context, order *domain.Order) (*domain.InvoicePayload, error) {
	log := logger.WithTraceContext(ctx, s.log).With(zap.String("order_code", order.OrderCode))

	input, err := s.fetchInput(ctx, order)
	if err != nil {
		return nil, err
	}

	payload, err := s.engine.BuildInvoice(ctx, *input)
	if err != nil {
		return nil, fmt.Errorf("build invoice for order %s: %w", order.OrderCode, err)
	}

	log.Info("invoice payload built",
		zap.Int("detail_lines", len(payload.Details)),
		zap.Int("summary_entries", len(payload.Summary)))
	return payload, nil
}

// fetchInput fans out the collaborator fetches for one order: fan-out,
// wait-all, no ordering dependency between them. Card/serial and payment
// data is fetched per order, never once per batch.
func (s *BuildService) fetchInput(ctx context.Context, order *domain.Order) (*domain.BuildInput, error) {
	input := &domain.BuildInput{Order: order}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lines, err := s.saleLines.SaleLines(gctx, order.OrderCode)
		if err != nil {
			// Without sale lines there is nothing to reconcile.
			return fmt.Errorf("fetch sale lines for order %s: %w", order.OrderCode, err)
		}
		input.SaleLines = lines
		return nil
	})
	g.Go(func() error {
		movements, err := s.movements.Movements(gctx, order.OrderCode)
		if err != nil {
			s.warnDegraded(order.OrderCode, "stock movements", err)
			return nil
		}
		input.Movements = movements
		return nil
	})
	g.Go(func() error {
		sources, err := s.paymentSources.PaymentSources(gctx, order.OrderCode)
		if err != nil {
			s.warnDegraded(order.OrderCode, "payment sources", err)
			return nil
		}
		input.PaymentSources = sources
		return nil
	})
	g.Go(func() error {
		fee, err := s.orderFees.OrderFee(gctx, order.OrderCode)
		if err != nil {
			s.warnDegraded(order.OrderCode, "order fee record", err)
			return nil
		}
		input.OrderFee = fee
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	input.Products = s.productLookup(ctx, order.OrderCode)
	input.Departments = s.departmentLookup(ctx, order.OrderCode)
	return input, nil
}

// productLookup adapts the directory port to the engine's pure lookup shape.
// Lookup errors degrade to "unknown item".
func (s *BuildService) productLookup(ctx context.Context, orderCode string) domain.ProductLookup {
	if s.products == nil {
		return nil
	}
	return func(itemCode string) (domain.ProductInfo, bool) {
		info, ok, err := s.products.Product(ctx, itemCode)
		if err != nil {
			s.warnDegraded(orderCode, "product lookup "+itemCode, err)
			return domain.ProductInfo{}, false
		}
		return info, ok
	}
}

// departmentLookup adapts the directory port the same way.
func (s *BuildService) departmentLookup(ctx context.Context, orderCode string) domain.DepartmentLookup {
	if s.departments == nil {
		return nil
	}
	return func(branchCode string) (domain.DepartmentInfo, bool) {
		info, ok, err := s.departments.Department(ctx, branchCode)
		if err != nil {
			s.warnDegraded(orderCode, "department lookup "+branchCode, err)
			return domain.DepartmentInfo{}, false
		}
		return info, ok
	}
}

func (s *BuildService) warnDegraded(orderCode, what string, err error) {
	s.log.Warn("collaborator fetch degraded to default",
		zap.String("order_code", orderCode),
		zap.String("collaborator", what),
		zap.Error(err))
}

// BuildResult is the outcome for one order of a batch.
type BuildResult struct {
	Order   *domain.Order
	Payload *domain.InvoicePayload
	Err     error
}

// ProcessBatch builds payloads for many orders with bounded concurrency.
// Results are returned in input order; one order's failure never aborts the
// rest of the batch.
func (s *BuildService) ProcessBatch(ctx context.Context, orders []*domain.Order) []BuildResult {
	results := make([]BuildResult, len(orders))
	sem := semaphore.NewWeighted(s.limit)

	g, gctx := errgroup.WithContext(ctx)
	for i, order := range orders {
		i, order := i, order
		if err := sem.Acquire(gctx, 1); err != nil {
			results[i] = BuildResult{Order: order, Err: err}
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)
			payload, err := s.BuildOrder(gctx, order)
			results[i] = BuildResult{Order: order, Payload: payload, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
