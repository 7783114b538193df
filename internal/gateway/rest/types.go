package rest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// flexID decodes ids the backend sends as either strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}

// stringRef reports whether b is a bare JSON string, which the backend uses for unpopulated references.
func stringRef(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}
	return s, true
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

type teamPayload struct {
	ID       flexID `json:"id"`
	MongoID  flexID `json:"_id"`
	Name     string `json:"name"`
	TeamName string `json:"teamName"`
	Logo     string `json:"logo"`
}

func (t *teamPayload) UnmarshalJSON(b []byte) error {
	if id, ok := stringRef(b); ok {
		*t = teamPayload{ID: flexID(id)}
		return nil
	}
	type alias teamPayload
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*t = teamPayload(a)
	return nil
}

type statsPayload struct {
	Runs  int `json:"runs"`
	Balls int `json:"balls"`
	Fours int `json:"fours"`
	Sixes int `json:"sixes"`
}

type playerPayload struct {
	ID         flexID       `json:"id"`
	MongoID    flexID       `json:"_id"`
	PlayerName string       `json:"playerName"`
	SnakeName  string       `json:"player_name"`
	Name       string       `json:"name"`
	Position   string       `json:"position"`
	Photo      string       `json:"photo"`
	Team       *teamPayload `json:"team"`
}

func (p *playerPayload) UnmarshalJSON(b []byte) error {
	if id, ok := stringRef(b); ok {
		*p = playerPayload{ID: flexID(id)}
		return nil
	}
	type alias playerPayload
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = playerPayload(a)
	return nil
}

type completedPayload struct {
	Player   *playerPayload `json:"player"`
	PlayerID flexID         `json:"playerId"`
	Stats    *statsPayload  `json:"stats"`
}

type inningsPayload struct {
	Runs             int                `json:"runs"`
	Wickets          int                `json:"wickets"`
	Balls            int                `json:"balls"`
	Fours            int                `json:"fours"`
	Sixes            int                `json:"sixes"`
	CompletedPlayers []completedPayload `json:"completedPlayers"`
}

type matchPayload struct {
	ID             flexID          `json:"id"`
	MongoID        flexID          `json:"_id"`
	Status         string          `json:"status"`
	BattingFirst   *teamPayload    `json:"battingFirst"`
	FieldingFirst  *teamPayload    `json:"fieldingFirst"`
	TossWinner     *teamPayload    `json:"tossWinner"`
	TossChoice     string          `json:"tossChoice"`
	CoinResult     string          `json:"coinResult"`
	Innings1Score  *inningsPayload `json:"innings1Score"`
	Innings2Score  *inningsPayload `json:"innings2Score"`
	CurrentInnings int             `json:"currentInnings"`
	ResultText     string          `json:"resultText"`
	Winner         *teamPayload    `json:"winner"`
	CompletedAt    *time.Time      `json:"completedAt"`
}

type matchResponse struct {
	envelope
	Match *matchPayload `json:"match"`
}

type rosterResponse struct {
	envelope
	Players []playerPayload `json:"players"`
}

type selectResponse struct {
	envelope
	Player *playerPayload `json:"player"`
	Stats  *statsPayload  `json:"stats"`
}

type scoreResponse struct {
	envelope
	TeamStats   *inningsPayload `json:"teamStats"`
	PlayerStats *statsPayload   `json:"playerStats"`
}

type dismissResponse struct {
	envelope
	TeamStats        *inningsPayload `json:"teamStats"`
	ShouldEndInnings bool            `json:"shouldEndInnings"`
	EndReason        string          `json:"endReason"`
	RemainingPlayers int             `json:"remainingPlayers"`
}

type endInningsResponse struct {
	envelope
	MatchComplete bool `json:"matchComplete"`
}

type selectRequest struct {
	PlayerID string `json:"playerId"`
}

type runsRequest struct {
	Runs int `json:"runs"`
}

type extraRequest struct {
	Type    string `json:"type"`
	ByeRuns int    `json:"byeRuns,omitempty"`
}
