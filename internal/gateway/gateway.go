package gateway

import (
	"context"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// Reader fetches match and roster state from the backend. Safe to retry.
type Reader interface {
	GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error)
	GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error)
}

// Scorer mutates match state on the backend. Each call records one event, so
// implementations and decorators must never repeat a call on their own.
type Scorer interface {
	SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (SelectResult, error)
	ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (ScoreResult, error)
	ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra ExtraRequest) (ScoreResult, error)
	DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (DismissResult, error)
	EndInnings(ctx context.Context, sess *session.Session, matchID string) (EndInningsResult, error)
}

// MatchGateway combines all backend capabilities the scoring board needs.
type MatchGateway interface {
	Reader
	Scorer
}

// SelectResult is the batter the backend put on strike. Stats is nil unless the backend sent initial figures.
type SelectResult struct {
	Player players.Player
	Stats  *players.Stats
}

// ScoreResult carries the authoritative team snapshot after a delivery.
// PlayerStats is set only when the backend chose to include it.
type ScoreResult struct {
	TeamStats   matches.InningsScore
	PlayerStats *players.Stats
}

// ExtraRequest describes an extra. ByeRuns applies to byes only.
type ExtraRequest struct {
	Type    matches.ExtraType
	ByeRuns int
}

// DismissResult is the backend's verdict after a wicket.
type DismissResult struct {
	TeamStats        matches.InningsScore
	ShouldEndInnings bool
	EndReason        string
	RemainingPlayers int
}

// EndInningsResult reports the outcome of closing the current innings.
type EndInningsResult struct {
	Message       string
	MatchComplete bool
}
