package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksGatewayAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordGatewayAttempt("rest", "get_match", 10*time.Millisecond, nil)
	rec.RecordGatewayAttempt("rest", "score_runs", 15*time.Millisecond, errors.New("boom"))

	if got := rec.GatewayCalls("rest"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.GatewayErrors("rest"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	snap := rec.Snapshot("rest")
	if snap.LastCallLatency != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", snap.LastCallLatency)
	}
	if other := rec.Snapshot("fixture"); other.Calls != 0 {
		t.Fatalf("expected untouched gateway to be empty, got %+v", other)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("rest", 5*time.Second)
	rec.RecordRateLimit("rest", 0)

	snap := rec.Snapshot("rest")
	if snap.RateLimitHits != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", snap.RateLimitHits)
	}
	if snap.LastRetryAfter != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", snap.LastRetryAfter)
	}
}

func TestRecorderTracksActionsAndSweeps(t *testing.T) {
	rec := NewRecorder()
	rec.RecordAction("score_runs", OutcomeOK)
	rec.RecordAction("score_runs", OutcomeOK)
	rec.RecordAction("score_runs", OutcomeRejected)
	rec.RecordSweep(time.Millisecond, 3, nil)
	rec.RecordSweep(time.Millisecond, 2, nil)

	if got := rec.ActionCount("score_runs", OutcomeOK); got != 2 {
		t.Fatalf("expected 2 ok actions, got %d", got)
	}
	if got := rec.ActionCount("score_runs", OutcomeRejected); got != 1 {
		t.Fatalf("expected 1 rejected action, got %d", got)
	}
	if got := rec.Evicted(); got != 5 {
		t.Fatalf("expected 5 evictions, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordGatewayAttempt("rest", "op", time.Millisecond, nil)
	rec.RecordRateLimit("rest", time.Second)
	rec.RecordAction("a", OutcomeOK)
	rec.RecordSweep(time.Millisecond, 1, nil)
	rec.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	if rec.ActionCount("a", OutcomeOK) != 0 || rec.Evicted() != 0 || rec.Snapshot("rest").Calls != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}
