package fixture

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/teams"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// Name identifies this gateway in logs and metrics.
const Name = "fixture"

// Seeded identifiers.
const (
	MatchID         = "fixture-1"
	BattingFirstID  = "team-falcons"
	FieldingFirstID = "team-hawks"
	maxWickets      = 10
)

// Backend is an in-process match backend. It keeps match state in memory and
// applies the same scoring rules the remote backend enforces.
type Backend struct {
	mu      sync.Mutex
	now     func() time.Time
	teams   map[string]teams.Team
	rosters map[string][]players.Player
	matches map[string]*matchState
}

type matchState struct {
	match  matches.Match
	batter *players.Player
	stats  players.Stats
}

var _ gateway.MatchGateway = (*Backend)(nil)

// New creates a fixture backend seeded with two teams of eleven and one match in setup.
func New() *Backend {
	b := &Backend{
		now:     time.Now,
		teams:   make(map[string]teams.Team),
		rosters: make(map[string][]players.Player),
		matches: make(map[string]*matchState),
	}
	falcons := teams.Team{ID: BattingFirstID, Name: "Falcons"}
	hawks := teams.Team{ID: FieldingFirstID, Name: "Hawks"}
	b.AddTeam(falcons, seedRoster(falcons.ID, "falcon", []string{
		"Aarav Mehta", "Ben Carter", "Chirag Rao", "Dev Patel", "Ethan Moore",
		"Farhan Ali", "George Lin", "Harsh Vora", "Ishan Kapoor", "Jack Reid", "Kabir Sen",
	}))
	b.AddTeam(hawks, seedRoster(hawks.ID, "hawk", []string{
		"Liam Shaw", "Manav Joshi", "Nikhil Das", "Oliver Grant", "Pranav Iyer",
		"Quinn Hale", "Rohan Bose", "Sam Turner", "Tanay Shah", "Uday Nair", "Victor Lane",
	}))
	b.AddMatch(matches.Match{
		ID:            MatchID,
		Status:        matches.StatusSetup,
		BattingFirst:  &falcons,
		FieldingFirst: &hawks,
		Toss: matches.Toss{
			CoinResult: "heads",
			Choice:     "batting",
			Winner:     &falcons,
		},
	})
	return b
}

func seedRoster(teamID, prefix string, names []string) []players.Player {
	positions := []string{"Opener", "Opener", "Batsman", "Batsman", "Batsman", "All-rounder", "All-rounder", "Wicket-keeper", "Bowler", "Bowler", "Bowler"}
	out := make([]players.Player, len(names))
	for i, name := range names {
		out[i] = players.Player{
			ID:       fmt.Sprintf("%s-%d", prefix, i+1),
			Name:     name,
			Position: positions[i%len(positions)],
			TeamID:   teamID,
		}
	}
	return out
}

// AddTeam registers a team and its roster, replacing any previous entry.
func (b *Backend) AddTeam(team teams.Team, roster []players.Player) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teams[team.ID] = team
	b.rosters[team.ID] = append([]players.Player(nil), roster...)
}

// AddMatch registers a match, replacing any previous entry with the same id.
func (b *Backend) AddMatch(m matches.Match) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matches[m.ID] = &matchState{match: cloneMatch(m)}
}

func (b *Backend) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, err := b.lookup(matchID)
	if err != nil {
		return matches.Match{}, err
	}
	return cloneMatch(st.match), nil
}

func (b *Backend) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	roster, ok := b.rosters[teamID]
	if !ok {
		return nil, &gateway.BackendError{StatusCode: http.StatusNotFound, Message: "Team not found", Kind: gateway.ErrNotFound}
	}
	return append([]players.Player(nil), roster...), nil
}

func (b *Backend) SelectPlayer(ctx context.Context, sess *session.Session, matchID, playerID string) (gateway.SelectResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, err := b.active(matchID)
	if err != nil {
		return gateway.SelectResult{}, err
	}
	if st.batter != nil {
		return gateway.SelectResult{}, badRequest("A batsman is already at the crease")
	}
	innings := inningsOf(st.match)
	team := st.match.BattingTeam(innings)
	if team == nil {
		return gateway.SelectResult{}, badRequest("Batting team not set")
	}
	var picked *players.Player
	for _, p := range b.rosters[team.ID] {
		if p.ID == playerID {
			p := p
			picked = &p
			break
		}
	}
	if picked == nil {
		return gateway.SelectResult{}, badRequest("Player is not in the batting team")
	}
	if _, done := score(&st.match, innings).CompletedIDs()[playerID]; done {
		return gateway.SelectResult{}, badRequest("Player has already batted")
	}
	st.batter = picked
	st.stats = players.Stats{}
	return gateway.SelectResult{Player: *picked}, nil
}

func (b *Backend) ScoreRuns(ctx context.Context, sess *session.Session, matchID string, runs int) (gateway.ScoreResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, err := b.active(matchID)
	if err != nil {
		return gateway.ScoreResult{}, err
	}
	if st.batter == nil {
		return gateway.ScoreResult{}, badRequest("No batsman selected")
	}
	switch runs {
	case 0, 1, 2, 3, 4, 6:
	default:
		return gateway.ScoreResult{}, badRequest("Invalid runs value")
	}
	sc := score(&st.match, inningsOf(st.match))
	sc.Runs += runs
	sc.Balls++
	if runs == 4 {
		sc.Fours++
	}
	if runs == 6 {
		sc.Sixes++
	}
	st.stats = st.stats.AddDelivery(runs)
	stats := st.stats
	return gateway.ScoreResult{TeamStats: sc.Clone(), PlayerStats: &stats}, nil
}

func (b *Backend) ScoreExtra(ctx context.Context, sess *session.Session, matchID string, extra gateway.ExtraRequest) (gateway.ScoreResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, err := b.active(matchID)
	if err != nil {
		return gateway.ScoreResult{}, err
	}
	sc := score(&st.match, inningsOf(st.match))
	switch extra.Type {
	case matches.ExtraWide, matches.ExtraNoBall:
		sc.Runs++
	case matches.ExtraBye:
		if extra.ByeRuns < 1 || extra.ByeRuns > 6 {
			return gateway.ScoreResult{}, badRequest("Bye runs must be between 1 and 6")
		}
		sc.Runs += extra.ByeRuns
		sc.Balls++
	default:
		return gateway.ScoreResult{}, badRequest("Invalid extra type")
	}
	return gateway.ScoreResult{TeamStats: sc.Clone()}, nil
}

func (b *Backend) DismissPlayer(ctx context.Context, sess *session.Session, matchID string) (gateway.DismissResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, err := b.active(matchID)
	if err != nil {
		return gateway.DismissResult{}, err
	}
	if st.batter == nil {
		return gateway.DismissResult{}, badRequest("No batsman selected")
	}
	innings := inningsOf(st.match)
	sc := score(&st.match, innings)
	if sc.Wickets < maxWickets {
		sc.Wickets++
	}
	sc.CompletedPlayers = append(sc.CompletedPlayers, matches.CompletedPlayer{
		PlayerID: st.batter.ID,
		Name:     st.batter.Name,
		Stats:    st.stats,
	})
	st.batter = nil
	st.stats = players.Stats{}

	remaining := 0
	if team := st.match.BattingTeam(innings); team != nil {
		remaining = len(b.rosters[team.ID]) - len(sc.CompletedPlayers)
		if remaining < 0 {
			remaining = 0
		}
	}
	res := gateway.DismissResult{TeamStats: sc.Clone(), RemainingPlayers: remaining}
	switch {
	case sc.Wickets >= maxWickets:
		res.ShouldEndInnings = true
		res.EndReason = "All out"
	case remaining == 0:
		res.ShouldEndInnings = true
		res.EndReason = "No more batsmen available"
	}
	return res, nil
}

func (b *Backend) EndInnings(ctx context.Context, sess *session.Session, matchID string) (gateway.EndInningsResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, err := b.active(matchID)
	if err != nil {
		return gateway.EndInningsResult{}, err
	}
	st.batter = nil
	st.stats = players.Stats{}

	m := &st.match
	if m.Status == matches.StatusSetup {
		score(m, 1)
		m.Status = matches.StatusLive
		m.Innings2Score = &matches.InningsScore{CompletedPlayers: []matches.CompletedPlayer{}}
		return gateway.EndInningsResult{Message: "First innings completed"}, nil
	}

	first, second := score(m, 1), score(m, 2)
	switch {
	case second.Runs > first.Runs:
		m.Winner = cloneTeam(m.FieldingFirst)
		m.ResultText = fmt.Sprintf("%s won by %d wickets", teamName(m.FieldingFirst), maxWickets-second.Wickets)
	case first.Runs > second.Runs:
		m.Winner = cloneTeam(m.BattingFirst)
		m.ResultText = fmt.Sprintf("%s won by %d runs", teamName(m.BattingFirst), first.Runs-second.Runs)
	default:
		m.Winner = nil
		m.ResultText = "Match tied"
	}
	completedAt := b.now().UTC()
	m.Status = matches.StatusCompleted
	m.CompletedAt = &completedAt
	return gateway.EndInningsResult{Message: "Match completed! " + m.ResultText, MatchComplete: true}, nil
}

// caller holds b.mu.
func (b *Backend) lookup(matchID string) (*matchState, error) {
	st, ok := b.matches[matchID]
	if !ok {
		return nil, &gateway.BackendError{StatusCode: http.StatusNotFound, Message: "Match not found", Kind: gateway.ErrNotFound}
	}
	return st, nil
}

// caller holds b.mu.
func (b *Backend) active(matchID string) (*matchState, error) {
	st, err := b.lookup(matchID)
	if err != nil {
		return nil, err
	}
	if st.match.IsCompleted() {
		return nil, badRequest("Match already completed")
	}
	return st, nil
}

func inningsOf(m matches.Match) int {
	if m.Status == matches.StatusLive {
		return 2
	}
	return 1
}

// score returns the mutable innings record, creating it when missing.
func score(m *matches.Match, innings int) *matches.InningsScore {
	target := &m.Innings1Score
	if innings == 2 {
		target = &m.Innings2Score
	}
	if *target == nil {
		*target = &matches.InningsScore{CompletedPlayers: []matches.CompletedPlayer{}}
	}
	return *target
}

func badRequest(msg string) error {
	return &gateway.BackendError{StatusCode: http.StatusBadRequest, Message: msg}
}

func teamName(t *teams.Team) string {
	if t == nil || t.Name == "" {
		return "Team"
	}
	return t.Name
}

func cloneTeam(t *teams.Team) *teams.Team {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInnings(s *matches.InningsScore) *matches.InningsScore {
	if s == nil {
		return nil
	}
	c := s.Clone()
	return &c
}

func cloneMatch(m matches.Match) matches.Match {
	out := m
	out.BattingFirst = cloneTeam(m.BattingFirst)
	out.FieldingFirst = cloneTeam(m.FieldingFirst)
	out.Toss.Winner = cloneTeam(m.Toss.Winner)
	out.Winner = cloneTeam(m.Winner)
	out.Innings1Score = cloneInnings(m.Innings1Score)
	out.Innings2Score = cloneInnings(m.Innings2Score)
	if m.CompletedAt != nil {
		at := *m.CompletedAt
		out.CompletedAt = &at
	}
	return out
}
