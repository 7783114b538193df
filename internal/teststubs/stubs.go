package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scorecards"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// StubGateway is a scripted gateway.MatchGateway. Each operation returns its
// configured result unless the matching func field is set.
type StubGateway struct {
	Match     matches.Match
	MatchErr  error
	Roster    []players.Player
	RosterErr error

	Select     gateway.SelectResult
	SelectErr  error
	Score      gateway.ScoreResult
	ScoreErr   error
	Dismiss    gateway.DismissResult
	DismissErr error
	EndResult  gateway.EndInningsResult
	EndErr     error

	GetMatchFn   func(call int) (matches.Match, error)
	ScoreRunsFn  func(runs int) (gateway.ScoreResult, error)
	ScoreExtraFn func(req gateway.ExtraRequest) (gateway.ScoreResult, error)

	// Block, when set, holds SelectPlayer until it is closed.
	Block chan struct{}
	// Entered is closed the first time SelectPlayer is entered.
	Entered chan struct{}

	MatchCalls   atomic.Int32
	RosterCalls  atomic.Int32
	SelectCalls  atomic.Int32
	RunsCalls    atomic.Int32
	ExtraCalls   atomic.Int32
	DismissCalls atomic.Int32
	EndCalls     atomic.Int32

	mu         sync.Mutex
	once       sync.Once
	LastTeamID string
	LastPlayer string
	LastRuns   int
	LastExtra  gateway.ExtraRequest
}

var _ gateway.MatchGateway = (*StubGateway)(nil)

// WriteCalls is the total number of mutating calls made so far.
func (s *StubGateway) WriteCalls() int {
	return int(s.SelectCalls.Load() + s.RunsCalls.Load() + s.ExtraCalls.Load() + s.DismissCalls.Load() + s.EndCalls.Load())
}

func (s *StubGateway) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	call := int(s.MatchCalls.Add(1))
	if s.GetMatchFn != nil {
		return s.GetMatchFn(call)
	}
	if s.MatchErr != nil {
		return matches.Match{}, s.MatchErr
	}
	m := s.Match
	if m.ID == "" {
		m.ID = matchID
	}
	return m, nil
}

func (s *StubGateway) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	s.RosterCalls.Add(1)
	s.mu.Lock()
	s.LastTeamID = teamID
	s.mu.Unlock()
	if s.RosterErr != nil {
		return nil, s.RosterErr
	}
	return append([]players.Player{}, s.Roster...), nil
}

func (s *StubGateway) SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (gateway.SelectResult, error) {
	s.SelectCalls.Add(1)
	if s.Entered != nil {
		s.once.Do(func() { close(s.Entered) })
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return gateway.SelectResult{}, ctx.Err()
		}
	}
	s.mu.Lock()
	s.LastPlayer = playerID
	s.mu.Unlock()
	if s.SelectErr != nil {
		return gateway.SelectResult{}, s.SelectErr
	}
	res := s.Select
	if res.Player.ID == "" {
		res.Player = s.rosterPlayer(playerID)
	}
	return res, nil
}

func (s *StubGateway) ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (gateway.ScoreResult, error) {
	s.RunsCalls.Add(1)
	s.mu.Lock()
	s.LastRuns = runs
	s.mu.Unlock()
	if s.ScoreRunsFn != nil {
		return s.ScoreRunsFn(runs)
	}
	return s.Score, s.ScoreErr
}

func (s *StubGateway) ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra gateway.ExtraRequest) (gateway.ScoreResult, error) {
	s.ExtraCalls.Add(1)
	s.mu.Lock()
	s.LastExtra = extra
	s.mu.Unlock()
	if s.ScoreExtraFn != nil {
		return s.ScoreExtraFn(extra)
	}
	return s.Score, s.ScoreErr
}

func (s *StubGateway) DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (gateway.DismissResult, error) {
	s.DismissCalls.Add(1)
	return s.Dismiss, s.DismissErr
}

func (s *StubGateway) EndInnings(ctx context.Context, sess *session.Session, matchID string) (gateway.EndInningsResult, error) {
	s.EndCalls.Add(1)
	return s.EndResult, s.EndErr
}

func (s *StubGateway) rosterPlayer(id string) players.Player {
	for _, p := range s.Roster {
		if p.ID == id {
			return p
		}
	}
	return players.Player{ID: id}
}

// StubEventSink records journal events in memory.
type StubEventSink struct {
	mu     sync.Mutex
	Events []journal.Event
	Err    error
}

func (s *StubEventSink) Record(ctx context.Context, e journal.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Events = append(s.Events, e)
	return nil
}

// Kinds returns the recorded event kinds in order.
func (s *StubEventSink) Kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.Kind)
	}
	return out
}

// StubArchive is a test double for scoring.Archive and scorecards.Store.
type StubArchive struct {
	mu      sync.Mutex
	Written []scorecards.Scorecard
	Err     error
}

func (a *StubArchive) WriteScorecard(sc scorecards.Scorecard) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Written = append(a.Written, sc)
	return nil
}

func (a *StubArchive) LoadScorecard(matchID string) (scorecards.Scorecard, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.Written) - 1; i >= 0; i-- {
		if a.Written[i].MatchID == matchID {
			return a.Written[i], nil
		}
	}
	return scorecards.Scorecard{}, scorecards.ErrNotFound
}

// Count returns how many scorecards were written.
func (a *StubArchive) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Written)
}

// ErrStub is a generic failure for tests.
var ErrStub = errors.New("stub failure")
