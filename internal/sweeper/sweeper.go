package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
)

const (
	defaultInterval = time.Minute
	defaultIdleTTL  = 30 * time.Minute
)

// BoardEvictor drops boards that are idle or belong to ended sessions.
type BoardEvictor interface {
	EvictIdle(now time.Time, ttl time.Duration) int
	CloseSession(sessionID string) int
}

// SessionEvictor drops sessions that are closed or expired.
type SessionEvictor interface {
	EvictExpired(now time.Time) []string
}

// Sweeper evicts idle boards and dead sessions on an interval.
type Sweeper struct {
	boards   BoardEvictor
	sessions SessionEvictor
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	idleTTL  time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the sweep loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	LastEvicted         int       `json:"lastEvicted"`
}

// IsReady reports whether the sweeper has completed a cycle and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Sweeper; non-positive durations fall back to defaults.
func New(boards BoardEvictor, sessions SessionEvictor, logger *slog.Logger, recorder *metrics.Recorder, interval, idleTTL time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Sweeper{
		boards:   boards,
		sessions: sessions,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		idleTTL:  idleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start sweeps once immediately and then on every tick until ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.ticker = time.NewTicker(s.interval)
	s.startMu.Unlock()

	go func() {
		logging.Info(s.logger, "sweeper started", logging.FieldDurationMS, s.interval.Milliseconds())
		s.sweepOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				s.stopTicker()
				logging.Info(s.logger, "sweeper stopped")
				return
			case <-s.done:
				s.stopTicker()
				logging.Info(s.logger, "sweeper stopped")
				return
			case <-s.ticker.C:
				s.sweepOnce(ctx)
			}
		}
	}()
}

// Stop halts the sweep loop.
func (s *Sweeper) Stop(ctx context.Context) error {
	_ = ctx
	s.stopOnce.Do(func() {
		close(s.done)
		s.stopTicker()
	})
	return nil
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	start := time.Now()
	now := s.now()
	s.recordAttempt(now)

	evicted, err := s.sweep(ctx, now)
	s.metrics.RecordSweep(time.Since(start), evicted, err)
	if err != nil {
		logging.Error(s.logger, "sweep failed", err, logging.FieldDurationMS, time.Since(start).Milliseconds())
		s.recordFailure(err, now)
		return
	}
	s.recordSuccess(now, evicted)
	if evicted > 0 {
		logging.Info(s.logger, "sweep evicted stale state",
			logging.FieldCount, evicted,
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
}

func (s *Sweeper) sweep(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	evicted := 0
	if s.sessions != nil {
		for _, id := range s.sessions.EvictExpired(now) {
			evicted++
			if s.boards != nil {
				evicted += s.boards.CloseSession(id)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return evicted, err
	}
	if s.boards != nil {
		evicted += s.boards.EvictIdle(now, s.idleTTL)
	}
	return evicted, nil
}

func (s *Sweeper) stopTicker() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func (s *Sweeper) recordAttempt(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastAttempt = at
}

func (s *Sweeper) recordSuccess(at time.Time, evicted int) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastSuccess = at
	s.status.LastEvicted = evicted
}

func (s *Sweeper) recordFailure(err error, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures++
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.LastAttempt = at
}

// Status returns a snapshot of the sweeper's recent health.
func (s *Sweeper) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}
