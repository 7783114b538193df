package gateway

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// fakeGateway scripts results per call; nil funcs return zero values.
type fakeGateway struct {
	getMatch  func(call int) (matches.Match, error)
	getRoster func(call int) ([]players.Player, error)
	writeErr  error
	// matchCtx, when set, replaces getMatch and sees the call's context.
	matchCtx func(ctx context.Context) (matches.Match, error)

	matchCalls  atomic.Int32
	rosterCalls atomic.Int32
	writeCalls  atomic.Int32
}

func (f *fakeGateway) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	n := int(f.matchCalls.Add(1))
	if f.matchCtx != nil {
		return f.matchCtx(ctx)
	}
	if f.getMatch == nil {
		return matches.Match{ID: matchID}, nil
	}
	return f.getMatch(n)
}

func (f *fakeGateway) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	n := int(f.rosterCalls.Add(1))
	if f.getRoster == nil {
		return []players.Player{{ID: "p1", TeamID: teamID}}, nil
	}
	return f.getRoster(n)
}

func (f *fakeGateway) SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (SelectResult, error) {
	f.writeCalls.Add(1)
	return SelectResult{Player: players.Player{ID: playerID}}, f.writeErr
}

func (f *fakeGateway) ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (ScoreResult, error) {
	f.writeCalls.Add(1)
	return ScoreResult{TeamStats: matches.InningsScore{Runs: runs, Balls: 1}}, f.writeErr
}

func (f *fakeGateway) ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra ExtraRequest) (ScoreResult, error) {
	f.writeCalls.Add(1)
	return ScoreResult{}, f.writeErr
}

func (f *fakeGateway) DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (DismissResult, error) {
	f.writeCalls.Add(1)
	return DismissResult{RemainingPlayers: 9}, f.writeErr
}

func (f *fakeGateway) EndInnings(ctx context.Context, sess *session.Session, matchID string) (EndInningsResult, error) {
	f.writeCalls.Add(1)
	return EndInningsResult{Message: "Innings ended"}, f.writeErr
}
