package metrics

import (
	"sync"
	"time"
)

type gatewayStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type actionKey struct {
	action  string
	outcome string
}

// Recorder keeps in-memory counters for gateway calls and scoring actions and,
// when telemetry is enabled, mirrors them to OpenTelemetry instruments.
type Recorder struct {
	mu       sync.Mutex
	gateways map[string]*gatewayStats
	actions  map[actionKey]int
	evicted  int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		gateways: make(map[string]*gatewayStats),
		actions:  make(map[actionKey]int),
		otel:     otel,
	}
}

// RecordGatewayAttempt counts one backend call and stores its latency.
func (r *Recorder) RecordGatewayAttempt(gateway, operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(gateway)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordGatewayAttempt(gateway, operation, duration, err)
	}
}

// RecordRateLimit tracks a 429 from the backend and the last Retry-After it carried.
func (r *Recorder) RecordRateLimit(gateway string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(gateway)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(gateway, retryAfter)
	}
}

// RecordAction counts a scoring board action by outcome.
func (r *Recorder) RecordAction(action, outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.actions[actionKey{action: action, outcome: outcome}]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordAction(action, outcome)
	}
}

// ActionCount returns how many times action finished with outcome.
func (r *Recorder) ActionCount(action, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[actionKey{action: action, outcome: outcome}]
}

// RecordSweep tracks one sweeper cycle and how many boards/sessions it evicted.
func (r *Recorder) RecordSweep(duration time.Duration, evicted int, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.evicted += evicted
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSweep(duration, evicted, err)
	}
}

// Evicted returns the total number of evictions recorded by the sweeper.
func (r *Recorder) Evicted() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evicted
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the stats for one gateway.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(gateway string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.gateways[gateway]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// GatewayCalls returns the total attempts recorded for a gateway.
func (r *Recorder) GatewayCalls(gateway string) int {
	return r.Snapshot(gateway).Calls
}

// GatewayErrors returns the failed attempts recorded for a gateway.
func (r *Recorder) GatewayErrors(gateway string) int {
	return r.Snapshot(gateway).Errors
}

// caller holds r.mu.
func (r *Recorder) ensureStats(gateway string) *gatewayStats {
	stats, ok := r.gateways[gateway]
	if !ok {
		stats = &gatewayStats{}
		r.gateways[gateway] = stats
	}
	return stats
}
