package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	exporterTimeout = 3 * time.Second
	// a lookup finishes well within one interval, Shutdown flushes the rest
	metricInterval = 5 * time.Second
)

// grpc wins when both endpoints are configured.
func (c OtlpConnConfig) useGrpc() bool {
	return c.GrpcEndpoint != ""
}

func (c OtlpConnConfig) endpoint() string {
	if c.useGrpc() {
		return c.GrpcEndpoint
	}
	return c.HttpEndpoint
}

func (c OtlpConnConfig) logValues(signal string) []any {
	transport := "http"
	if c.useGrpc() {
		transport = "grpc"
	}
	return []any{"signal", signal, "transport", transport, "endpoint", c.endpoint()}
}

func newTraceProvider(ctx context.Context, r *resource.Resource, conn OtlpConnConfig) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()
	slog.DebugContext(ctx, "otlp exporter", conn.logValues("traces")...)

	var exporter trace.SpanExporter
	var err error
	if conn.useGrpc() {
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(conn.GrpcEndpoint),
			otlptracegrpc.WithHeaders(conn.Headers),
		)
	} else {
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(conn.HttpEndpoint),
			otlptracehttp.WithHeaders(conn.Headers),
		)
	}
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, conn OtlpConnConfig) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()
	slog.DebugContext(ctx, "otlp exporter", conn.logValues("metrics")...)

	var exporter metric.Exporter
	var err error
	if conn.useGrpc() {
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(conn.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(conn.Headers),
		)
	} else {
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(conn.HttpEndpoint),
			otlpmetrichttp.WithHeaders(conn.Headers),
		)
	}
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(metricInterval))),
		metric.WithResource(r),
	), nil
}
