package rest

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/teams"
)

func firstID(ids ...flexID) string {
	for _, id := range ids {
		if s := strings.TrimSpace(string(id)); s != "" {
			return s
		}
	}
	return ""
}

func firstName(names ...string) string {
	for _, n := range names {
		if s := strings.TrimSpace(n); s != "" {
			return norm.NFC.String(s)
		}
	}
	return ""
}

func mapTeam(t *teamPayload) *teams.Team {
	if t == nil {
		return nil
	}
	id := firstID(t.ID, t.MongoID)
	if id == "" {
		return nil
	}
	return &teams.Team{
		ID:   id,
		Name: firstName(t.TeamName, t.Name),
		Logo: t.Logo,
	}
}

func mapStats(s *statsPayload) players.Stats {
	if s == nil {
		return players.Stats{}
	}
	return players.Stats{Runs: s.Runs, Balls: s.Balls, Fours: s.Fours, Sixes: s.Sixes}
}

func mapOptionalStats(s *statsPayload) *players.Stats {
	if s == nil {
		return nil
	}
	stats := mapStats(s)
	return &stats
}

func mapPlayer(p playerPayload, teamID string) players.Player {
	if p.Team != nil {
		if id := firstID(p.Team.ID, p.Team.MongoID); id != "" {
			teamID = id
		}
	}
	return players.Player{
		ID:       firstID(p.ID, p.MongoID),
		Name:     firstName(p.PlayerName, p.SnakeName, p.Name),
		Position: strings.TrimSpace(p.Position),
		Photo:    p.Photo,
		TeamID:   teamID,
	}
}

func mapRoster(list []playerPayload, teamID string) []players.Player {
	out := make([]players.Player, 0, len(list))
	for _, p := range list {
		player := mapPlayer(p, teamID)
		if player.ID == "" {
			continue
		}
		out = append(out, player)
	}
	return out
}

// completedPlayerID resolves the dismissed batter's id: player.id, then player._id
// (which also covers an unpopulated string reference), then playerId.
func completedPlayerID(cp completedPayload) string {
	if cp.Player != nil {
		if id := firstID(cp.Player.ID, cp.Player.MongoID); id != "" {
			return id
		}
	}
	return firstID(cp.PlayerID)
}

func mapInnings(in *inningsPayload) matches.InningsScore {
	if in == nil {
		return matches.InningsScore{CompletedPlayers: []matches.CompletedPlayer{}}
	}
	out := matches.InningsScore{
		Runs:             in.Runs,
		Wickets:          in.Wickets,
		Balls:            in.Balls,
		Fours:            in.Fours,
		Sixes:            in.Sixes,
		CompletedPlayers: make([]matches.CompletedPlayer, 0, len(in.CompletedPlayers)),
	}
	for _, cp := range in.CompletedPlayers {
		name := ""
		if cp.Player != nil {
			name = firstName(cp.Player.PlayerName, cp.Player.SnakeName, cp.Player.Name)
		}
		out.CompletedPlayers = append(out.CompletedPlayers, matches.CompletedPlayer{
			PlayerID: completedPlayerID(cp),
			Name:     name,
			Stats:    mapStats(cp.Stats),
		})
	}
	return out
}

func mapOptionalInnings(in *inningsPayload) *matches.InningsScore {
	if in == nil {
		return nil
	}
	score := mapInnings(in)
	return &score
}

func mapStatus(status string) matches.Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "live", "in_progress", "in-progress":
		return matches.StatusLive
	case "completed", "complete", "finished":
		return matches.StatusCompleted
	default:
		return matches.StatusSetup
	}
}

func mapMatch(m matchPayload) matches.Match {
	innings := m.CurrentInnings
	if innings != 1 && innings != 2 {
		innings = 0
	}
	return matches.Match{
		ID:            firstID(m.ID, m.MongoID),
		Status:        mapStatus(m.Status),
		BattingFirst:  mapTeam(m.BattingFirst),
		FieldingFirst: mapTeam(m.FieldingFirst),
		Toss: matches.Toss{
			CoinResult: strings.ToLower(strings.TrimSpace(m.CoinResult)),
			Choice:     strings.TrimSpace(m.TossChoice),
			Winner:     mapTeam(m.TossWinner),
		},
		Innings1Score:  mapOptionalInnings(m.Innings1Score),
		Innings2Score:  mapOptionalInnings(m.Innings2Score),
		CurrentInnings: innings,
		ResultText:     strings.TrimSpace(m.ResultText),
		Winner:         mapTeam(m.Winner),
		CompletedAt:    m.CompletedAt,
	}
}
