package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xsll/lib/infra"
)

// NewConsoleMetricsExporter serves for test/dev environment.
// The provider is also installed as the global one, its Shutdown
// flushes the last collection into the writer of stdoutmetric.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] new console metrics exporter")
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(interval),
		sdkmetric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewPrometheusMetricsExporter serves for the product environment, the stats
// metrics are fetched by the prometheus HTTP handler of the registerer.
func NewPrometheusMetricsExporter(opts ...prometheus.Option) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] new prometheus metrics exporter")
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp, nil
}
