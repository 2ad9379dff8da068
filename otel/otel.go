package otel

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// TracingConfig holds the configuration for the tracer provider.
type TracingConfig struct {
	Enabled     bool
	ServiceName string  `validate:"required_if=Enabled true"`
	Environment string
	SampleRate  float64 `validate:"gte=0,lte=1"`
	// Exporter receives finished spans. Without one, spans are still created
	// so trace headers reach the backend, but nothing is exported.
	Exporter trace.SpanExporter
}

// Setup installs the global tracer provider and the W3C propagator. The
// propagator is installed even when tracing is disabled so incoming and
// outgoing trace headers keep flowing.
func Setup(cfg TracingConfig) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid tracing configuration: %w", err)
	}

	opts := []trace.TracerProviderOption{
		trace.WithResource(newResource(cfg)),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SampleRate))),
	}
	if cfg.Exporter != nil {
		opts = append(opts, trace.WithBatcher(cfg.Exporter))
	}

	provider := trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

func newResource(cfg TracingConfig) *resource.Resource {
	hostName, _ := os.Hostname()

	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment),
		semconv.HostName(hostName),
	)
}
