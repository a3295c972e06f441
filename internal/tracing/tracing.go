package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const peerServiceKey = attribute.Key("peer.service")

// Config describes where spans go and how they are labelled.
type Config struct {
	Enabled           bool
	ServiceName       string
	RemoteServiceName string
	ZipkinEndpoint    string
}

// Provider owns the process-wide tracer provider. A disabled Provider leaves
// transports and handlers untouched.
type Provider struct {
	enabled           bool
	remoteServiceName string
	tracerProvider    trace.TracerProvider
	propagator        propagation.TextMapPropagator
	shutdown          func(ctx context.Context) error
}

// NewProvider builds a Provider exporting spans to the configured Zipkin collector.
func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tracerProvider: noop.NewTracerProvider(),
			propagator:     propagation.NewCompositeTextMapPropagator(),
			shutdown:       func(context.Context) error { return nil },
		}, nil
	}

	exporter, err := zipkin.New(
		cfg.ZipkinEndpoint,
		zipkin.WithLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn)),
	)
	if err != nil {
		return nil, fmt.Errorf("create zipkin exporter: %w", err)
	}

	return newProvider(cfg, sdktrace.WithBatcher(exporter)), nil
}

func newProvider(cfg Config, opts ...sdktrace.TracerProviderOption) *Provider {
	opts = append(
		opts,
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.ServiceName))),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	tp := sdktrace.NewTracerProvider(opts...)
	return &Provider{
		enabled:           true,
		remoteServiceName: cfg.RemoteServiceName,
		tracerProvider:    tp,
		propagator:        propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		shutdown:          tp.Shutdown,
	}
}

// TracerProvider returns the underlying provider.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tracerProvider
}

// Transport wraps base so that every outbound request emits a client span and carries
// the trace context in its headers. Request and response are passed through unchanged.
func (p *Provider) Transport(base http.RoundTripper) http.RoundTripper {
	if !p.enabled {
		return base
	}

	return otelhttp.NewTransport(
		base,
		otelhttp.WithTracerProvider(p.tracerProvider),
		otelhttp.WithPropagators(p.propagator),
		otelhttp.WithSpanOptions(trace.WithAttributes(peerServiceKey.String(p.remoteServiceName))),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return p.remoteServiceName + " " + r.Method
		}),
	)
}

// Handler starts a server span for every inbound request, continuing any trace found
// in the request headers.
func (p *Provider) Handler(next http.Handler, operation string) http.Handler {
	if !p.enabled {
		return next
	}

	return otelhttp.NewHandler(
		next,
		operation,
		otelhttp.WithTracerProvider(p.tracerProvider),
		otelhttp.WithPropagators(p.propagator),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
