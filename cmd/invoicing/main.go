package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinvoicing "github.com/erp/invoicing/internal/application/invoicing"
	domain "github.com/erp/invoicing/internal/domain/invoicing"
	"github.com/erp/invoicing/internal/infrastructure/cache"
	"github.com/erp/invoicing/internal/infrastructure/config"
	"github.com/erp/invoicing/internal/infrastructure/logger"
	"github.com/erp/invoicing/internal/infrastructure/snapshot"
)

// orderOutcome is one order's result in the output document.
type orderOutcome struct {
	OrderCode string                 `json:"order_code"`
	Payload   *domain.InvoicePayload `json:"payload,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "path to the input snapshot JSON")
	outputPath := flag.String("output", "", "path for the payload output JSON (default stdout)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: invoicing -input snapshot.json [-output payloads.json]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice batch run",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("input", *inputPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *inputPath, *outputPath); err != nil {
		log.Error("batch run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, inputPath, outputPath string) error {
	snap, err := snapshot.Load(inputPath)
	if err != nil {
		return err
	}
	source := snapshot.NewSource(snap)

	productCache := cache.NewProductCache(cfg.Redis, log)
	products := cache.NewCachedProductDirectory(source, productCache)

	engine := domain.NewEngine(
		domain.WithStockMatcher(domain.NewStockMatcher(
			domain.WithOutboundPrefixes(cfg.Invoice.OutboundPrefixes...),
			domain.WithInboundPrefixes(cfg.Invoice.InboundPrefixes...),
		)),
		domain.WithWarehouseRemap(cfg.WarehouseRemap),
		domain.WithAssembler(domain.NewInvoicePayloadAssembler(
			domain.WithCurrency(cfg.Invoice.Currency, decimal.NewFromFloat(cfg.Invoice.ExchangeRate)),
		)),
	)

	service := appinvoicing.NewBuildService(
		engine,
		source,
		source,
		products,
		source,
		source,
		source,
		appinvoicing.WithLogger(log),
		appinvoicing.WithFanOutLimit(cfg.Batch.FanOutLimit),
	)

	results := service.ProcessBatch(ctx, snap.Orders)

	outcomes := make([]orderOutcome, 0, len(results))
	failed := 0
	for _, res := range results {
		outcome := orderOutcome{OrderCode: res.Order.OrderCode, Payload: res.Payload}
		if res.Err != nil {
			outcome.Error = res.Err.Error()
			failed++
		}
		outcomes = append(outcomes, outcome)
	}

	if err := writeOutcomes(outputPath, outcomes); err != nil {
		return err
	}

	stats := productCache.Stats()
	log.Info("batch run finished",
		zap.Int("orders", len(results)),
		zap.Int("failed", failed),
		zap.Int64("cache_hits", stats.Hits),
		zap.Int64("cache_misses", stats.Misses),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d orders failed", failed, len(results))
	}
	return nil
}

func writeOutcomes(path string, outcomes []orderOutcome) error {
	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
