// Package telemetry exports traces, metrics and logs over OTLP gRPC and runs
// the Pyroscope profiler. Each provider degrades to the global no-op
// implementation when disabled, so callers never branch on configuration.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// ServiceVersion is reported on every exported resource and by /health
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Exporter is the collector connection shared by the three OTLP providers
type Exporter struct {
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
}

func (e Exporter) resource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(e.ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

// shutdownWithin flushes a provider, bounded by shutdownTimeout
func shutdownWithin(ctx context.Context, what string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", what, err)
	}
	return nil
}
