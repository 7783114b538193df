package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxBackoff           = 5 * time.Second
)

// Operation names used in logs and metrics.
const (
	OpGetMatch      = "get_match"
	OpGetRoster     = "get_roster"
	OpSelectPlayer  = "select_player"
	OpScoreRuns     = "score_runs"
	OpScoreExtra    = "score_extra"
	OpDismissPlayer = "dismiss_player"
	OpEndInnings    = "end_innings"
)

// retryingGateway retries reads with exponential backoff and records every backend
// attempt. Writes go through exactly once.
type retryingGateway struct {
	inner       MatchGateway
	logger      *slog.Logger
	metrics     *metrics.Recorder
	name        string
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingGateway wraps inner with retries for reads. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingGateway(inner MatchGateway, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, initial time.Duration) MatchGateway {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	if name == "" {
		name = "gateway"
	}
	return &retryingGateway{
		inner:       inner,
		logger:      logger,
		metrics:     recorder,
		name:        name,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = maxBackoff
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (g *retryingGateway) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	var match matches.Match
	err := g.retry(ctx, OpGetMatch, func() error {
		var err error
		match, err = g.inner.GetMatch(ctx, sess, matchID)
		return err
	})
	return match, err
}

func (g *retryingGateway) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	var roster []players.Player
	err := g.retry(ctx, OpGetRoster, func() error {
		var err error
		roster, err = g.inner.GetRoster(ctx, sess, teamID)
		return err
	})
	return roster, err
}

func (g *retryingGateway) SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (SelectResult, error) {
	var res SelectResult
	err := g.once(ctx, OpSelectPlayer, func() error {
		var err error
		res, err = g.inner.SelectPlayer(ctx, sess, matchID, playerID)
		return err
	})
	return res, err
}

func (g *retryingGateway) ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (ScoreResult, error) {
	var res ScoreResult
	err := g.once(ctx, OpScoreRuns, func() error {
		var err error
		res, err = g.inner.ScoreRuns(ctx, sess, matchID, runs)
		return err
	})
	return res, err
}

func (g *retryingGateway) ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra ExtraRequest) (ScoreResult, error) {
	var res ScoreResult
	err := g.once(ctx, OpScoreExtra, func() error {
		var err error
		res, err = g.inner.ScoreExtra(ctx, sess, matchID, extra)
		return err
	})
	return res, err
}

func (g *retryingGateway) DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (DismissResult, error) {
	var res DismissResult
	err := g.once(ctx, OpDismissPlayer, func() error {
		var err error
		res, err = g.inner.DismissPlayer(ctx, sess, matchID)
		return err
	})
	return res, err
}

func (g *retryingGateway) EndInnings(ctx context.Context, sess *session.Session, matchID string) (EndInningsResult, error) {
	var res EndInningsResult
	err := g.once(ctx, OpEndInnings, func() error {
		var err error
		res, err = g.inner.EndInnings(ctx, sess, matchID)
		return err
	})
	return res, err
}

func (g *retryingGateway) once(ctx context.Context, op string, call func() error) error {
	if g.inner == nil {
		return ErrUnavailable
	}
	return g.attempt(ctx, op, call)
}

func (g *retryingGateway) retry(ctx context.Context, op string, call func() error) error {
	if g.inner == nil {
		return ErrUnavailable
	}

	hint := &retryAfterBackOff{BackOff: g.newBackOff()}
	policy := backoff.WithContext(backoff.WithMaxRetries(hint, uint64(g.maxAttempts-1)), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := g.attempt(ctx, op, call)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		if rl, ok := AsRateLimitError(err); ok {
			hint.next = rl.RetryAfter
		}
		return err
	}, policy, func(err error, delay time.Duration) {
		logWithGateway(ctx, g.logger, slog.LevelWarn, g.name, "gateway retry",
			"operation", op,
			"attempt", attempt,
			"max_attempts", g.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
	})
	if err != nil {
		logWithGateway(ctx, g.logger, slog.LevelWarn, g.name, "gateway call failed",
			"operation", op,
			"attempts", attempt,
			"error", err,
		)
	}
	return err
}

func (g *retryingGateway) attempt(ctx context.Context, op string, call func() error) error {
	start := time.Now()
	err := call()
	g.metrics.RecordGatewayAttempt(g.name, op, time.Since(start), err)
	if rl, ok := AsRateLimitError(err); ok {
		g.metrics.RecordRateLimit(g.name, rl.RetryAfter)
	}
	if err != nil && !Retryable(err) {
		logWithGateway(ctx, g.logger, slog.LevelDebug, g.name, "gateway call rejected", "operation", op, "error", err)
	}
	return err
}

// retryAfterBackOff lets a Retry-After hint from the backend replace the next computed delay.
type retryAfterBackOff struct {
	backoff.BackOff
	next time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	delay := b.BackOff.NextBackOff()
	if delay == backoff.Stop {
		return delay
	}
	if b.next > 0 {
		delay = b.next
		b.next = 0
	}
	return delay
}
