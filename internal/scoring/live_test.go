package scoring

import (
	"testing"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
)

func TestInitializeLiveScore(t *testing.T) {
	cases := []struct {
		name  string
		match matches.Match
		want  int
	}{
		{"setup starts first innings", matches.Match{Status: matches.StatusSetup}, 1},
		{"live defaults to second innings", matches.Match{Status: matches.StatusLive}, 2},
		{"explicit innings wins", matches.Match{Status: matches.StatusLive, CurrentInnings: 1}, 1},
		{"completed stays first", matches.Match{Status: matches.StatusCompleted}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			live := InitializeLiveScore(tc.match)
			if live.CurrentInnings != tc.want {
				t.Fatalf("expected innings %d, got %d", tc.want, live.CurrentInnings)
			}
			if live.Innings1.CompletedPlayers == nil || live.Innings2.CompletedPlayers == nil {
				t.Fatalf("expected empty completed lists, got nil")
			}
		})
	}
}

func TestInitializeLiveScoreCopiesSnapshots(t *testing.T) {
	src := &matches.InningsScore{Runs: 40, Wickets: 2, CompletedPlayers: []matches.CompletedPlayer{{PlayerID: "p1"}}}
	live := InitializeLiveScore(matches.Match{Innings1Score: src})
	src.CompletedPlayers[0].PlayerID = "changed"
	if live.Innings1.Runs != 40 || live.Innings1.CompletedPlayers[0].PlayerID != "p1" {
		t.Fatalf("expected independent copy, got %+v", live.Innings1)
	}
}

func TestReplaceActiveTargetsCurrentInnings(t *testing.T) {
	live := LiveScore{CurrentInnings: 2}
	live.replaceActive(matches.InningsScore{Runs: 9})
	if live.Innings2.Runs != 9 || live.Innings1.Runs != 0 {
		t.Fatalf("expected second innings updated, got %+v", live)
	}
	if live.Active().Runs != 9 {
		t.Fatalf("expected active innings runs 9, got %d", live.Active().Runs)
	}
}

func TestAvailableFromExcludesCompleted(t *testing.T) {
	roster := []players.Player{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	innings := matches.InningsScore{CompletedPlayers: []matches.CompletedPlayer{{PlayerID: "p2"}}}
	got := availableFrom(roster, innings)
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p3" {
		t.Fatalf("unexpected available %+v", got)
	}
	if left := withoutPlayer(got, "p1"); len(left) != 1 || left[0].ID != "p3" {
		t.Fatalf("unexpected list after removal %+v", left)
	}
}

func TestValidMatchID(t *testing.T) {
	for _, id := range []string{"", "  ", "undefined", "null"} {
		if ValidMatchID(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
	if !ValidMatchID("m-1") {
		t.Fatalf("expected m-1 to be valid")
	}
}
