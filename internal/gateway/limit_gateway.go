package gateway

import (
	"context"
	"log/slog"
	"math"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// rateLimitedGateway paces backend calls with separate read and write budgets.
type rateLimitedGateway struct {
	next   MatchGateway
	read   *rate.Limiter
	write  *rate.Limiter
	logger *slog.Logger
}

// NewRateLimitedGateway returns a MatchGateway that waits for a token before every call.
// Non-positive rates disable limiting for that side.
func NewRateLimitedGateway(next MatchGateway, readRPS, writeRPS float64, logger *slog.Logger) MatchGateway {
	return &rateLimitedGateway{
		next:   next,
		read:   newLimiter(readRPS),
		write:  newLimiter(writeRPS),
		logger: logger,
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(math.Ceil(rps))
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (g *rateLimitedGateway) wait(ctx context.Context, lim *rate.Limiter, op string) error {
	if g == nil || g.next == nil {
		return ErrUnavailable
	}
	if err := lim.Wait(ctx); err != nil {
		logWithGateway(ctx, g.logger, slog.LevelWarn, "rate-limited", "rate-limited call canceled", "operation", op, "error", err)
		return err
	}
	return nil
}

func (g *rateLimitedGateway) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	if err := g.wait(ctx, g.read, OpGetMatch); err != nil {
		return matches.Match{}, err
	}
	return g.next.GetMatch(ctx, sess, matchID)
}

func (g *rateLimitedGateway) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	if err := g.wait(ctx, g.read, OpGetRoster); err != nil {
		return nil, err
	}
	return g.next.GetRoster(ctx, sess, teamID)
}

func (g *rateLimitedGateway) SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (SelectResult, error) {
	if err := g.wait(ctx, g.write, OpSelectPlayer); err != nil {
		return SelectResult{}, err
	}
	return g.next.SelectPlayer(ctx, sess, matchID, playerID)
}

func (g *rateLimitedGateway) ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (ScoreResult, error) {
	if err := g.wait(ctx, g.write, OpScoreRuns); err != nil {
		return ScoreResult{}, err
	}
	return g.next.ScoreRuns(ctx, sess, matchID, runs)
}

func (g *rateLimitedGateway) ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra ExtraRequest) (ScoreResult, error) {
	if err := g.wait(ctx, g.write, OpScoreExtra); err != nil {
		return ScoreResult{}, err
	}
	return g.next.ScoreExtra(ctx, sess, matchID, extra)
}

func (g *rateLimitedGateway) DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (DismissResult, error) {
	if err := g.wait(ctx, g.write, OpDismissPlayer); err != nil {
		return DismissResult{}, err
	}
	return g.next.DismissPlayer(ctx, sess, matchID)
}

func (g *rateLimitedGateway) EndInnings(ctx context.Context, sess *session.Session, matchID string) (EndInningsResult, error) {
	if err := g.wait(ctx, g.write, OpEndInnings); err != nil {
		return EndInningsResult{}, err
	}
	return g.next.EndInnings(ctx, sess, matchID)
}
