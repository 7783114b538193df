package matches

import (
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/teams"
)

// Status is the backend's lifecycle state for a match.
type Status string

const (
	StatusSetup     Status = "setup"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

// ExtraType is a delivery that adds to the team total without being credited to the batter.
type ExtraType string

const (
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "noball"
	ExtraBye    ExtraType = "bye"
)

// Valid reports whether t is one of the supported extra types.
func (t ExtraType) Valid() bool {
	switch t {
	case ExtraWide, ExtraNoBall, ExtraBye:
		return true
	}
	return false
}

// Toss records the pre-match coin flip as resolved by the backend.
type Toss struct {
	CoinResult string      `json:"coinResult,omitempty"`
	Choice     string      `json:"choice,omitempty"`
	Winner     *teams.Team `json:"winner,omitempty"`
}

// CompletedPlayer is a dismissed batter with their final figures. PlayerID is already
// resolved from whichever id field the backend sent.
type CompletedPlayer struct {
	PlayerID string        `json:"playerId"`
	Name     string        `json:"name,omitempty"`
	Stats    players.Stats `json:"stats"`
}

// InningsScore is one team's running totals. Balls counts legal deliveries only.
type InningsScore struct {
	Runs             int               `json:"runs"`
	Wickets          int               `json:"wickets"`
	Balls            int               `json:"balls"`
	Fours            int               `json:"fours"`
	Sixes            int               `json:"sixes"`
	CompletedPlayers []CompletedPlayer `json:"completedPlayers"`
}

// Clone returns a copy that shares no slice storage with s.
func (s InningsScore) Clone() InningsScore {
	out := s
	out.CompletedPlayers = make([]CompletedPlayer, len(s.CompletedPlayers))
	copy(out.CompletedPlayers, s.CompletedPlayers)
	return out
}

// CompletedIDs returns the ids of batters already dismissed this innings.
func (s InningsScore) CompletedIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.CompletedPlayers))
	for _, cp := range s.CompletedPlayers {
		if cp.PlayerID != "" {
			ids[cp.PlayerID] = struct{}{}
		}
	}
	return ids
}

// Match is the cached copy of the backend match record.
type Match struct {
	ID            string        `json:"id"`
	Status        Status        `json:"status"`
	BattingFirst  *teams.Team   `json:"battingFirst,omitempty"`
	FieldingFirst *teams.Team   `json:"fieldingFirst,omitempty"`
	Toss          Toss          `json:"toss"`
	Innings1Score *InningsScore `json:"innings1Score,omitempty"`
	Innings2Score *InningsScore `json:"innings2Score,omitempty"`
	// CurrentInnings is set only when the backend reports it explicitly; 0 means unknown.
	CurrentInnings int         `json:"currentInnings,omitempty"`
	ResultText     string      `json:"resultText,omitempty"`
	Winner         *teams.Team `json:"winner,omitempty"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
}

// BattingTeam returns the team batting in the given innings, or nil when unknown.
func (m Match) BattingTeam(innings int) *teams.Team {
	if innings == 2 {
		return m.FieldingFirst
	}
	return m.BattingFirst
}

// IsCompleted reports whether the backend considers the match finished.
func (m Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}
