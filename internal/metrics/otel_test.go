package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestSetupDisabledReturnsNoHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder")
	}
	if handler != nil {
		t.Fatalf("expected nil handler when disabled")
	}
	if shutdown == nil {
		t.Fatalf("expected shutdown function")
	}
}

func TestSetupEnabledExposesPrometheusMetrics(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	if handler == nil {
		t.Fatalf("expected handler when enabled")
	}

	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordGatewayAttempt("rest", "get_match", time.Millisecond, errors.New("boom"))
	rec.RecordRateLimit("rest", time.Second)
	rec.RecordAction("score_runs", OutcomeOK)
	rec.RecordSweep(time.Millisecond, 2, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, name := range []string{"gateway_attempts_total", "scoring_actions_total", "sweeper_evictions_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in prometheus output", name)
		}
	}
	if got := rec.GatewayErrors("rest"); got != 1 {
		t.Fatalf("expected in-memory stats alongside otel, got %d", got)
	}
}

func TestSetupPropagatesReaderErrors(t *testing.T) {
	orig := promReaderFactory
	defer func() { promReaderFactory = orig }()
	promReaderFactory = func() (sdkmetric.Reader, http.Handler, error) {
		return nil, nil, errors.New("reader boom")
	}

	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true}); err == nil {
		t.Fatalf("expected reader error")
	}
}

func TestSetupPropagatesInstrumentErrors(t *testing.T) {
	orig := instrumentFactory
	defer func() { instrumentFactory = orig }()
	instrumentFactory = func(metric.MeterProvider) (*otelInstruments, error) {
		return nil, errors.New("instrument boom")
	}

	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true}); err == nil {
		t.Fatalf("expected instrument error")
	}
}

func TestNilInstrumentsAreSafe(t *testing.T) {
	var o *otelInstruments
	o.recordHTTPRequest("GET", "/", 200, time.Millisecond)
	o.recordGatewayAttempt("rest", "op", time.Millisecond, nil)
	o.recordRateLimit("rest", time.Second)
	o.recordAction("a", OutcomeOK)
	o.recordSweep(time.Millisecond, 1, nil)
}
