package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const metricNamespace = "github.com/bazarlivre/vitrine"

// Metrics aggregates the instruments recorded by the storefront.
type Metrics struct {
	renders        metric.Int64Counter
	rendersEnabled bool

	renderLatency        metric.Float64Histogram
	renderLatencyEnabled bool

	dispatches        metric.Int64Counter
	dispatchesEnabled bool
}

// NewMetrics registers the storefront instruments against the supplied meter.
// A nil meter falls back to the global provider. Registration failures are
// logged and the affected instrument is disabled.
func NewMetrics(meter metric.Meter, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	m := &Metrics{}

	renders, err := meter.Int64Counter(
		"catalog.view.renders",
		metric.WithDescription("Count of presentation tree renders"),
	)
	if err != nil {
		logger.Warn("observability: unable to register render counter", zap.Error(err))
	} else {
		m.renders = renders
		m.rendersEnabled = true
	}

	renderLatency, err := meter.Float64Histogram(
		"catalog.view.render_latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds for presentation tree renders"),
	)
	if err != nil {
		logger.Warn("observability: unable to register render latency histogram", zap.Error(err))
	} else {
		m.renderLatency = renderLatency
		m.renderLatencyEnabled = true
	}

	dispatches, err := meter.Int64Counter(
		"interactions.dispatches",
		metric.WithDescription("Count of dispatched interaction events by kind"),
	)
	if err != nil {
		logger.Warn("observability: unable to register dispatch counter", zap.Error(err))
	} else {
		m.dispatches = dispatches
		m.dispatchesEnabled = true
	}

	return m
}

// RecordRender counts one render and its latency in milliseconds.
func (m *Metrics) RecordRender(ctx context.Context, cards int, latencyMillis float64) {
	if m == nil {
		return
	}
	if m.rendersEnabled {
		m.renders.Add(ctx, 1, metric.WithAttributes(attribute.Int("cards", cards)))
	}
	if m.renderLatencyEnabled {
		m.renderLatency.Record(ctx, latencyMillis)
	}
}

// RecordDispatch counts one dispatched interaction of the given kind.
func (m *Metrics) RecordDispatch(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	if m.dispatchesEnabled {
		m.dispatches.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}
