package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ExploreRequestsTotal  metric.Int64Counter
	ExploreCacheHitsTotal metric.Int64Counter
	SourceRequestsTotal   metric.Int64Counter
	SourceErrorsTotal     metric.Int64Counter
	SourceLatencySeconds  metric.Float64Histogram
	AIFallbacksTotal      metric.Int64Counter
	AIRequestsTotal       metric.Int64Counter
	AILatencySeconds      metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider; before the
// provider is configured the instruments are no-ops, which keeps tests free
// of metrics setup.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("sathi-api")
		var err error
		m := &AppMetrics{}

		m.ExploreRequestsTotal, err = meter.Int64Counter(
			"explore_requests_total",
			metric.WithDescription("Total number of explore queries handled"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create explore_requests_total: %v", err)
		}

		m.ExploreCacheHitsTotal, err = meter.Int64Counter(
			"explore_cache_hits_total",
			metric.WithDescription("Explore queries served from the result cache"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create explore_cache_hits_total: %v", err)
		}

		m.SourceRequestsTotal, err = meter.Int64Counter(
			"source_requests_total",
			metric.WithDescription("Upstream provider requests issued by the cascade"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create source_requests_total: %v", err)
		}

		m.SourceErrorsTotal, err = meter.Int64Counter(
			"source_errors_total",
			metric.WithDescription("Upstream provider requests that failed"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create source_errors_total: %v", err)
		}

		m.SourceLatencySeconds, err = meter.Float64Histogram(
			"source_latency_seconds",
			metric.WithDescription("Latency of upstream provider requests"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create source_latency_seconds: %v", err)
		}

		m.AIFallbacksTotal, err = meter.Int64Counter(
			"ai_fallbacks_total",
			metric.WithDescription("Explore queries that exhausted every real source"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_fallbacks_total: %v", err)
		}

		m.AIRequestsTotal, err = meter.Int64Counter(
			"ai_requests_total",
			metric.WithDescription("Calls made to the generative model"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_requests_total: %v", err)
		}

		m.AILatencySeconds, err = meter.Float64Histogram(
			"ai_latency_seconds",
			metric.WithDescription("Latency of generative model calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_latency_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing it
// on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// SourceAttrs labels a measurement with the provider it belongs to.
func SourceAttrs(source string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("source", source))
}
