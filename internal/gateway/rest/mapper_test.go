package rest

import (
	"encoding/json"
	"testing"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
)

func TestFlexIDAcceptsStringsAndNumbers(t *testing.T) {
	var payload struct {
		A flexID `json:"a"`
		B flexID `json:"b"`
		C flexID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"x1","b":42,"c":null}`), &payload); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if payload.A != "x1" || payload.B != "42" || payload.C != "" {
		t.Fatalf("unexpected ids %+v", payload)
	}
}

func TestMapStatus(t *testing.T) {
	tests := map[string]matches.Status{
		"setup":     matches.StatusSetup,
		"LIVE":      matches.StatusLive,
		"completed": matches.StatusCompleted,
		"":          matches.StatusSetup,
	}
	for in, want := range tests {
		if got := mapStatus(in); got != want {
			t.Fatalf("mapStatus(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestMapInningsNilIsZeroValue(t *testing.T) {
	got := mapInnings(nil)
	if got.Runs != 0 || got.CompletedPlayers == nil || len(got.CompletedPlayers) != 0 {
		t.Fatalf("expected empty innings, got %+v", got)
	}
}

func TestMapTeamRequiresID(t *testing.T) {
	if mapTeam(&teamPayload{Name: "nameless"}) != nil {
		t.Fatal("expected nil team without id")
	}
	team := mapTeam(&teamPayload{MongoID: "t1", Name: "Hawks", TeamName: "Hawks XI"})
	if team.ID != "t1" || team.Name != "Hawks XI" {
		t.Fatalf("unexpected team %+v", team)
	}
}

func TestMapMatchIgnoresUnknownInningsHint(t *testing.T) {
	m := mapMatch(matchPayload{ID: "m1", CurrentInnings: 3})
	if m.CurrentInnings != 0 {
		t.Fatalf("expected unknown innings to be dropped, got %d", m.CurrentInnings)
	}
}
