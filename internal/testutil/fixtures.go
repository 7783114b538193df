package testutil

import (
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/teams"
)

// SampleMatch returns a match in setup with two teams and no innings scores.
func SampleMatch(id string) matches.Match {
	return matches.Match{
		ID:            id,
		Status:        matches.StatusSetup,
		BattingFirst:  &teams.Team{ID: "bat", Name: "Batting XI"},
		FieldingFirst: &teams.Team{ID: "field", Name: "Fielding XI"},
		Toss: matches.Toss{
			CoinResult: "heads",
			Choice:     "bat",
		},
	}
}

// SampleRoster returns three players on the given team.
func SampleRoster(teamID string) []players.Player {
	return []players.Player{
		{ID: "p1", Name: "Asha", TeamID: teamID},
		{ID: "p2", Name: "Bilal", TeamID: teamID},
		{ID: "p3", Name: "Chen", TeamID: teamID},
	}
}
