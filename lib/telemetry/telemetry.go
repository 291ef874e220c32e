package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Telemetry owns the providers installed by Setup. The zero value is the
// no-op telemetry used when nothing is configured.
type Telemetry struct {
	shutdown []func(context.Context) error
}

// OnShutdown registers fn to run on Shutdown, after the functions
// registered before it.
func (t *Telemetry) OnShutdown(fn func(context.Context) error) {
	t.shutdown = append(t.shutdown, fn)
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	var errlist []error
	for _, fn := range t.shutdown {
		err := fn(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

// Tracer is a shorthand for otel.Tracer, it resolves against whatever
// global provider is installed at the time spans are started.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Setup installs global trace and metric providers exporting over OTLP.
// signals without an endpoint are left on the otel no-op providers.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	var t Telemetry
	if !config.Otlp.Traces.enabled() && !config.Otlp.Metrics.enabled() {
		return t, nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return t, err
	}

	if config.Otlp.Traces.enabled() {
		tracerProvider, err := newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return t, err
		}
		otel.SetTracerProvider(tracerProvider)
		t.shutdown = append(t.shutdown, tracerProvider.Shutdown)
	}

	if config.Otlp.Metrics.enabled() {
		meterProvider, err := newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return t, err
		}
		otel.SetMeterProvider(meterProvider)
		t.shutdown = append(t.shutdown, meterProvider.Shutdown)
	}

	return t, nil
}

var setupTestEnvironments = map[string]bool{}

// SetupForTesting installs debug logging for a test binary, ensuring it
// isn't done more than once per service name. tests never export.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	tel, err := Setup(context.Background(), serviceName, Config{})
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}
