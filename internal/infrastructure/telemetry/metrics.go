package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration
	ServiceName       string
	Insecure          bool
}

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates an OTLP meter provider and installs it globally.
// When disabled the global no-op provider stays in place.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	interval := cfg.ExportInterval
	if interval == 0 {
		interval = 60 * time.Second
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized", zap.Duration("export_interval", interval))
	return mp, nil
}

// Shutdown flushes and stops the provider.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return mp.provider.Shutdown(shutdownCtx)
}

// FinanceMetrics records ledger activity.
type FinanceMetrics struct {
	feeStructuresCreated metric.Int64Counter
	rollbacks            metric.Int64Counter
	aggregationFailures  metric.Int64Counter
	aggregationDuration  metric.Float64Histogram
}

// NewFinanceMetrics registers the finance instruments on the global meter provider.
func NewFinanceMetrics() (*FinanceMetrics, error) {
	return NewFinanceMetricsWithMeter(otel.GetMeterProvider().Meter(TracerName))
}

// NewFinanceMetricsWithMeter registers the finance instruments on meter.
func NewFinanceMetricsWithMeter(meter metric.Meter) (*FinanceMetrics, error) {
	m := &FinanceMetrics{}
	var err error

	if m.feeStructuresCreated, err = meter.Int64Counter("fee_structures_created_total",
		metric.WithDescription("Fee structures created")); err != nil {
		return nil, err
	}
	if m.rollbacks, err = meter.Int64Counter("fee_structure_rollbacks_total",
		metric.WithDescription("Compensating deletes of fee structure headers")); err != nil {
		return nil, err
	}
	if m.aggregationFailures, err = meter.Int64Counter("ledger_aggregation_failures_total",
		metric.WithDescription("Ledger aggregations aborted by a read failure")); err != nil {
		return nil, err
	}
	if m.aggregationDuration, err = meter.Float64Histogram("ledger_aggregation_duration_seconds",
		metric.WithDescription("Time spent building ledger aggregates"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return m, nil
}

// FeeStructureCreated counts a created structure.
func (m *FinanceMetrics) FeeStructureCreated(ctx context.Context, studentType string) {
	if m == nil {
		return
	}
	m.feeStructuresCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("student_type", studentType)))
}

// Rollback counts a compensating delete; ok is false when the delete itself failed.
func (m *FinanceMetrics) Rollback(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	m.rollbacks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("succeeded", ok)))
}

// Aggregation records the duration and outcome of an aggregation.
func (m *FinanceMetrics) Aggregation(ctx context.Context, name string, started time.Time, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("aggregate", name), attribute.Bool("failed", err != nil))
	m.aggregationDuration.Record(ctx, time.Since(started).Seconds(), attrs)
	if err != nil {
		m.aggregationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("aggregate", name)))
	}
}
