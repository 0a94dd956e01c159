// Package observe provides application-wide observability primitives for
// Interject: OpenTelemetry metrics, tracing helpers, and SDK provider setup.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Interject metrics.
const meterName = "github.com/voxhall/interject"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ClassifyDuration tracks the latency of a single classification call.
	// Classification is expected to stay in the microsecond range; this
	// histogram is how that budget is watched.
	ClassifyDuration metric.Float64Histogram

	// Decisions counts classifier outcomes. Use with attributes:
	//   attribute.String("decision", ...), attribute.String("language", ...), attribute.Bool("final", ...)
	Decisions metric.Int64Counter

	// Interrupts counts outbound interrupt requests to the session. Use with:
	//   attribute.String("status", "ok"|"error")
	Interrupts metric.Int64Counter

	// ConfigReloads counts word-list hot reload attempts. Use with:
	//   attribute.String("status", "ok"|"error")
	ConfigReloads metric.Int64Counter

	// ActiveSessions tracks the number of live decision sessions.
	ActiveSessions metric.Int64UpDownCounter
}

// classifyBuckets defines histogram bucket boundaries (in seconds) for the
// classification call, which must stay off the audio turn-taking path.
var classifyBuckets = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ClassifyDuration, err = m.Float64Histogram("interject.classify.duration",
		metric.WithDescription("Latency of one transcript classification call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(classifyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Decisions, err = m.Int64Counter("interject.decisions",
		metric.WithDescription("Total classifier decisions by decision, language, and finality."),
	); err != nil {
		return nil, err
	}
	if met.Interrupts, err = m.Int64Counter("interject.interrupts",
		metric.WithDescription("Total interrupt requests sent to the session by status."),
	); err != nil {
		return nil, err
	}
	if met.ConfigReloads, err = m.Int64Counter("interject.config.reloads",
		metric.WithDescription("Total word-list reload attempts by status."),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("interject.active_sessions",
		metric.WithDescription("Number of live decision sessions."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordDecision records a classifier decision with the standard attribute
// set, alongside the classification latency in seconds.
func (m *Metrics) RecordDecision(ctx context.Context, decision, language string, final bool, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("decision", decision),
		attribute.String("language", language),
		attribute.Bool("final", final),
	)
	m.Decisions.Add(ctx, 1, attrs)
	m.ClassifyDuration.Record(ctx, seconds)
}

// RecordInterrupt records an outbound interrupt attempt.
func (m *Metrics) RecordInterrupt(ctx context.Context, status string) {
	m.Interrupts.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordConfigReload records a word-list reload attempt.
func (m *Metrics) RecordConfigReload(ctx context.Context, status string) {
	m.ConfigReloads.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
