package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	defaultServiceName = "cricket-scoreboard-service"
	meterName          = "cricket-scoreboard-service"
	otlpExportInterval = 15 * time.Second
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(otlpExportInterval)), nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	gatewayAttempts  metric.Int64Counter
	gatewayErrors    metric.Int64Counter
	gatewayLatencyMs metric.Float64Histogram
	rateLimitHits    metric.Int64Counter
	retryAfterMs     metric.Float64Histogram
	actions          metric.Int64Counter
	sweeps           metric.Int64Counter
	sweepErrors      metric.Int64Counter
	sweepLatencyMs   metric.Float64Histogram
	evictions        metric.Int64Counter
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(meterName)
	inst := &otelInstruments{ctx: context.Background()}

	counters := []struct {
		name string
		dst  *metric.Int64Counter
	}{
		{"http_requests_total", &inst.requests},
		{"gateway_attempts_total", &inst.gatewayAttempts},
		{"gateway_errors_total", &inst.gatewayErrors},
		{"gateway_rate_limit_hits_total", &inst.rateLimitHits},
		{"scoring_actions_total", &inst.actions},
		{"sweeper_cycles_total", &inst.sweeps},
		{"sweeper_errors_total", &inst.sweepErrors},
		{"sweeper_evictions_total", &inst.evictions},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	histograms := []struct {
		name string
		dst  *metric.Float64Histogram
	}{
		{"http_request_duration_ms", &inst.requestLatencyMs},
		{"gateway_duration_ms", &inst.gatewayLatencyMs},
		{"gateway_retry_after_ms", &inst.retryAfterMs},
		{"sweeper_cycle_duration_ms", &inst.sweepLatencyMs},
	}
	for _, h := range histograms {
		hist, err := meter.Float64Histogram(h.name)
		if err != nil {
			return nil, err
		}
		*h.dst = hist
	}

	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordGatewayAttempt(gateway, operation string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrGateway, gateway),
		attribute.String(AttrOperation, operation),
	}
	o.recordCounter(o.gatewayAttempts, 1, attrs...)
	o.recordHistogram(o.gatewayLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.gatewayErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordRateLimit(gateway string, retryAfter time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrGateway, gateway)}
	o.recordCounter(o.rateLimitHits, 1, attrs...)
	if retryAfter > 0 {
		o.recordHistogram(o.retryAfterMs, float64(retryAfter.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordAction(action, outcome string) {
	if o == nil {
		return
	}
	o.recordCounter(o.actions, 1,
		attribute.String(AttrAction, action),
		attribute.String(AttrOutcome, outcome),
	)
}

func (o *otelInstruments) recordSweep(duration time.Duration, evicted int, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.sweeps, 1)
	o.recordHistogram(o.sweepLatencyMs, float64(duration.Milliseconds()))
	if evicted > 0 {
		o.recordCounter(o.evictions, int64(evicted))
	}
	if err != nil {
		o.recordCounter(o.sweepErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil || counter == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil || hist == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
