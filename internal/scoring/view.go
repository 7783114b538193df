package scoring

import (
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/teams"
)

// View is an immutable snapshot of a board for presentation.
type View struct {
	MatchID          string           `json:"matchId"`
	State            State            `json:"state"`
	Status           matches.Status   `json:"status"`
	CurrentInnings   int              `json:"currentInnings"`
	BattingFirst     *teams.Team      `json:"battingFirst,omitempty"`
	FieldingFirst    *teams.Team      `json:"fieldingFirst,omitempty"`
	BattingTeam      *teams.Team      `json:"battingTeam,omitempty"`
	Toss             matches.Toss     `json:"toss"`
	Innings1         InningsView      `json:"innings1"`
	Innings2         InningsView      `json:"innings2"`
	CurrentPlayer    *PlayerView      `json:"currentPlayer,omitempty"`
	AvailablePlayers []players.Player `json:"availablePlayers"`
	ResultText       string           `json:"resultText,omitempty"`
	Winner           *teams.Team      `json:"winner,omitempty"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	Processing       bool             `json:"processing"`
	Notice           *Notice          `json:"notice,omitempty"`
}

// InningsView is an innings with derived overs and run rate.
type InningsView struct {
	Runs             int          `json:"runs"`
	Wickets          int          `json:"wickets"`
	Balls            int          `json:"balls"`
	Fours            int          `json:"fours"`
	Sixes            int          `json:"sixes"`
	Overs            string       `json:"overs"`
	RunRate          string       `json:"runRate"`
	CompletedPlayers []BatterView `json:"completedPlayers"`
}

// BatterView is a dismissed batter's line.
type BatterView struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name,omitempty"`
	Runs       int    `json:"runs"`
	Balls      int    `json:"balls"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	StrikeRate string `json:"strikeRate"`
}

// PlayerView is the current batter with strike rate.
type PlayerView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	Photo      string `json:"photo,omitempty"`
	Runs       int    `json:"runs"`
	Balls      int    `json:"balls"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	StrikeRate string `json:"strikeRate"`
}

func inningsView(s matches.InningsScore) InningsView {
	v := InningsView{
		Runs:             s.Runs,
		Wickets:          s.Wickets,
		Balls:            s.Balls,
		Fours:            s.Fours,
		Sixes:            s.Sixes,
		Overs:            Overs(s.Balls),
		RunRate:          RunRate(s.Runs, s.Balls),
		CompletedPlayers: make([]BatterView, 0, len(s.CompletedPlayers)),
	}
	for _, cp := range s.CompletedPlayers {
		v.CompletedPlayers = append(v.CompletedPlayers, BatterView{
			PlayerID:   cp.PlayerID,
			Name:       cp.Name,
			Runs:       cp.Stats.Runs,
			Balls:      cp.Stats.Balls,
			Fours:      cp.Stats.Fours,
			Sixes:      cp.Stats.Sixes,
			StrikeRate: StrikeRate(cp.Stats.Runs, cp.Stats.Balls),
		})
	}
	return v
}

func playerView(p *CurrentPlayer) *PlayerView {
	if p == nil {
		return nil
	}
	return &PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Position:   p.Position,
		Photo:      p.Photo,
		Runs:       p.Stats.Runs,
		Balls:      p.Stats.Balls,
		Fours:      p.Stats.Fours,
		Sixes:      p.Stats.Sixes,
		StrikeRate: StrikeRate(p.Stats.Runs, p.Stats.Balls),
	}
}

func copyTeam(t *teams.Team) *teams.Team {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
