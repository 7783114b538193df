package scoring

import (
	"strings"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
)

// LiveScore holds both innings and which one is being played.
type LiveScore struct {
	CurrentInnings int
	Innings1       matches.InningsScore
	Innings2       matches.InningsScore
}

// InitializeLiveScore derives the starting live score from a match record.
// An explicit innings from the backend wins; otherwise a live match is taken to be
// in its second innings. Missing snapshots start at zero.
func InitializeLiveScore(m matches.Match) LiveScore {
	innings := 1
	switch {
	case m.CurrentInnings == 1 || m.CurrentInnings == 2:
		innings = m.CurrentInnings
	case m.Status == matches.StatusLive:
		innings = 2
	}
	return LiveScore{
		CurrentInnings: innings,
		Innings1:       snapshotOrZero(m.Innings1Score),
		Innings2:       snapshotOrZero(m.Innings2Score),
	}
}

func snapshotOrZero(s *matches.InningsScore) matches.InningsScore {
	if s == nil {
		return matches.InningsScore{CompletedPlayers: []matches.CompletedPlayer{}}
	}
	return s.Clone()
}

// Score returns the record for the given innings.
func (l LiveScore) Score(innings int) matches.InningsScore {
	if innings == 2 {
		return l.Innings2
	}
	return l.Innings1
}

// Active returns the record for the innings being played.
func (l LiveScore) Active() matches.InningsScore {
	return l.Score(l.CurrentInnings)
}

func (l *LiveScore) replaceActive(s matches.InningsScore) {
	s = s.Clone()
	if l.CurrentInnings == 2 {
		l.Innings2 = s
		return
	}
	l.Innings1 = s
}

// CurrentPlayer is the batter on strike.
type CurrentPlayer struct {
	players.Player
	Stats players.Stats
}

// availableFrom filters a roster down to batters who have not yet been dismissed this innings.
func availableFrom(roster []players.Player, innings matches.InningsScore) []players.Player {
	done := innings.CompletedIDs()
	out := make([]players.Player, 0, len(roster))
	for _, p := range roster {
		if _, gone := done[p.ID]; gone {
			continue
		}
		out = append(out, p)
	}
	return out
}

func withoutPlayer(list []players.Player, id string) []players.Player {
	out := make([]players.Player, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// ValidMatchID reports whether id can be loaded. Blank ids and the literal
// placeholders "undefined" and "null" are rejected.
func ValidMatchID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != "undefined" && id != "null"
}
