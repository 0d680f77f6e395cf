// Package metrics provides OpenTelemetry instrumentation exported in Prometheus format:
// business operation metrics for the API key lifecycle and HTTP request metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// OperationDurationBuckets are the histogram boundaries, in seconds, for business operations.
// Generate and Verify are dominated by one Argon2id hash, which costs tens to a few hundred
// milliseconds, so resolution is concentrated there.
var OperationDurationBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.2, 0.3, 0.5, 0.75, 1, 2.5, 5,
}

// HTTPDurationBuckets are the histogram boundaries, in seconds, for HTTP requests.
var HTTPDurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2.5, 5, 10,
}

// Provider owns the meter provider and the Prometheus registry it exports to.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
}

// NewProvider creates a Provider for metrics prefixed with namespace (e.g. "apikeys").
//
// Each Provider uses its own registry, which also carries the Go runtime and process
// collectors.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: namespace,
	})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithView(
			histogramView(operationDurationName(namespace), OperationDurationBuckets),
			histogramView(httpDurationName(namespace), HTTPDurationBuckets),
		),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
	}, nil
}

func histogramView(instrument string, boundaries []float64) metric.View {
	return metric.NewView(
		metric.Instrument{Name: instrument},
		metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{Boundaries: boundaries}},
	)
}

func operationDurationName(namespace string) string {
	return fmt.Sprintf("%s_operation_duration_seconds", namespace)
}

func httpDurationName(namespace string) string {
	return fmt.Sprintf("%s_http_request_duration_seconds", namespace)
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the meter provider used by the business and HTTP instruments.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
