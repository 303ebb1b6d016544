// Package metrics configures the global OTEL meter provider and serves the
// Prometheus scrape endpoint.
package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

// NewMetricProvider builds the meter provider from the configured exporters
// and installs it globally. With no providers configured it falls back to an
// OTLP gRPC exporter driven by the standard OTEL env vars.
func NewMetricProvider(options ...OptionFn) MetricProvider {
	ctx := context.Background()

	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = os.Getenv("OTEL_SERVICE_NAME")
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(
			resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
		),
	}
	for _, reader := range buildReaders(ctx, cfg) {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	return provider
}

func buildReaders(ctx context.Context, cfg Config) []sdkmetric.Reader {
	var readers []sdkmetric.Reader

	for _, p := range cfg.Provider {
		switch p.Provider {
		case PrometheusProvider:
			exp, err := prometheus.New()
			if err != nil {
				panic(err)
			}
			readers = append(readers, exp)

		case OTLPCollector:
			grpcOpts := []otlpmetricgrpc.Option{
				otlpmetricgrpc.WithEndpointURL(p.Endpoint),
				otlpmetricgrpc.WithHeaders(p.Headers),
			}
			if p.Insecure {
				grpcOpts = append(grpcOpts, otlpmetricgrpc.WithInsecure())
			}
			exp, err := otlpmetricgrpc.New(ctx, grpcOpts...)
			if err != nil {
				panic(err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exp))
		}
	}

	if len(readers) == 0 {
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			panic(err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp))
	}

	return readers
}

// ServePrometheusMetrics blocks serving /metrics on the configured port.
func ServePrometheusMetrics(opt ...PromOptionFn) {
	cfg := PromServerConfig{port: "9090"}
	for _, o := range opt {
		cfg = o(cfg)
	}

	log.Printf("serving metrics at :%s/metrics", cfg.port)
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.port), nil); err != nil { //nolint:gosec
		log.Printf("error serving metrics: %v", err)
	}
}
