package scorecards

import (
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/teams"
)

// Scorecard is the archived summary of a completed match.
type Scorecard struct {
	MatchID       string        `json:"matchId"`
	BattingFirst  *teams.Team   `json:"battingFirst,omitempty"`
	FieldingFirst *teams.Team   `json:"fieldingFirst,omitempty"`
	Toss          matches.Toss  `json:"toss"`
	Innings       []InningsCard `json:"innings"`
	ResultText    string        `json:"resultText,omitempty"`
	Winner        *teams.Team   `json:"winner,omitempty"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	ArchivedAt    time.Time     `json:"archivedAt"`
}

// InningsCard is one innings with its derived figures.
type InningsCard struct {
	Number  int          `json:"number"`
	Team    *teams.Team  `json:"team,omitempty"`
	Runs    int          `json:"runs"`
	Wickets int          `json:"wickets"`
	Balls   int          `json:"balls"`
	Fours   int          `json:"fours"`
	Sixes   int          `json:"sixes"`
	Overs   string       `json:"overs"`
	RunRate string       `json:"runRate"`
	Batters []BatterCard `json:"batters"`
}

// BatterCard is a dismissed batter's line.
type BatterCard struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name,omitempty"`
	Runs       int    `json:"runs"`
	Balls      int    `json:"balls"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	StrikeRate string `json:"strikeRate"`
}

// archiveDate picks the partition date: completion time when known, otherwise archive time.
func (s Scorecard) archiveDate() time.Time {
	if s.CompletedAt != nil && !s.CompletedAt.IsZero() {
		return s.CompletedAt.UTC()
	}
	return s.ArchivedAt.UTC()
}
