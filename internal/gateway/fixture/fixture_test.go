package fixture

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
)

func TestNewSeedsMatchAndRosters(t *testing.T) {
	b := New()
	m, err := b.GetMatch(context.Background(), nil, MatchID)
	if err != nil {
		t.Fatalf("expected seeded match, got %v", err)
	}
	if m.Status != matches.StatusSetup || m.BattingFirst.ID != BattingFirstID || m.FieldingFirst.ID != FieldingFirstID {
		t.Fatalf("unexpected match %+v", m)
	}
	for _, id := range []string{BattingFirstID, FieldingFirstID} {
		roster, err := b.GetRoster(context.Background(), nil, id)
		if err != nil || len(roster) != 11 {
			t.Fatalf("expected 11 players for %s, got %d (%v)", id, len(roster), err)
		}
	}
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	b := New()
	if _, err := b.GetMatch(context.Background(), nil, "nope"); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := b.GetRoster(context.Background(), nil, "nope"); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestScoringUpdatesTeamAndBatter(t *testing.T) {
	ctx := context.Background()
	b := New()

	if _, err := b.ScoreRuns(ctx, nil, MatchID, 1); err == nil {
		t.Fatal("expected error without batter")
	}
	if _, err := b.SelectPlayer(ctx, nil, MatchID, "hawk-1"); err == nil {
		t.Fatal("expected error selecting fielding player")
	}
	if _, err := b.SelectPlayer(ctx, nil, MatchID, "falcon-1"); err != nil {
		t.Fatalf("unexpected select error %v", err)
	}
	if _, err := b.SelectPlayer(ctx, nil, MatchID, "falcon-2"); err == nil {
		t.Fatal("expected error selecting a second batter")
	}

	var res gateway.ScoreResult
	for _, r := range []int{1, 4, 0, 6, 2} {
		var err error
		if res, err = b.ScoreRuns(ctx, nil, MatchID, r); err != nil {
			t.Fatalf("unexpected score error %v", err)
		}
	}
	if res.TeamStats.Runs != 13 || res.TeamStats.Balls != 5 || res.TeamStats.Fours != 1 || res.TeamStats.Sixes != 1 {
		t.Fatalf("unexpected team stats %+v", res.TeamStats)
	}
	if res.PlayerStats == nil || res.PlayerStats.Runs != 13 || res.PlayerStats.Balls != 5 {
		t.Fatalf("unexpected player stats %+v", res.PlayerStats)
	}
	if _, err := b.ScoreRuns(ctx, nil, MatchID, 5); err == nil {
		t.Fatal("expected five runs to be rejected")
	}
}

func TestExtras(t *testing.T) {
	ctx := context.Background()
	b := New()

	res, err := b.ScoreExtra(ctx, nil, MatchID, gateway.ExtraRequest{Type: matches.ExtraWide})
	if err != nil || res.TeamStats.Runs != 1 || res.TeamStats.Balls != 0 {
		t.Fatalf("unexpected wide result %+v (%v)", res.TeamStats, err)
	}
	res, _ = b.ScoreExtra(ctx, nil, MatchID, gateway.ExtraRequest{Type: matches.ExtraNoBall})
	if res.TeamStats.Runs != 2 || res.TeamStats.Balls != 0 {
		t.Fatalf("unexpected noball result %+v", res.TeamStats)
	}
	res, _ = b.ScoreExtra(ctx, nil, MatchID, gateway.ExtraRequest{Type: matches.ExtraBye, ByeRuns: 3})
	if res.TeamStats.Runs != 5 || res.TeamStats.Balls != 1 {
		t.Fatalf("unexpected bye result %+v", res.TeamStats)
	}
	if _, err := b.ScoreExtra(ctx, nil, MatchID, gateway.ExtraRequest{Type: matches.ExtraBye, ByeRuns: 7}); err == nil {
		t.Fatal("expected out-of-range byes to be rejected")
	}
	if _, err := b.ScoreExtra(ctx, nil, MatchID, gateway.ExtraRequest{Type: "legbye"}); err == nil {
		t.Fatal("expected unknown extra to be rejected")
	}
}

func TestAllOutEndsInningsAndCompletesMatch(t *testing.T) {
	ctx := context.Background()
	b := New()
	fixed := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	var out gateway.DismissResult
	for i := 1; i <= 10; i++ {
		if _, err := b.SelectPlayer(ctx, nil, MatchID, "falcon-"+strconv.Itoa(i)); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if _, err := b.ScoreRuns(ctx, nil, MatchID, 2); err != nil {
			t.Fatalf("score %d: %v", i, err)
		}
		var err error
		if out, err = b.DismissPlayer(ctx, nil, MatchID); err != nil {
			t.Fatalf("dismiss %d: %v", i, err)
		}
		if i < 10 && (out.ShouldEndInnings || out.RemainingPlayers != 11-i) {
			t.Fatalf("unexpected dismissal %d: %+v", i, out)
		}
	}
	if !out.ShouldEndInnings || out.EndReason != "All out" || out.TeamStats.Wickets != 10 {
		t.Fatalf("expected all out, got %+v", out)
	}
	if _, err := b.SelectPlayer(ctx, nil, MatchID, "falcon-1"); err == nil {
		t.Fatal("expected dismissed batter to be rejected")
	}

	end, err := b.EndInnings(ctx, nil, MatchID)
	if err != nil || end.MatchComplete {
		t.Fatalf("unexpected first end %+v (%v)", end, err)
	}
	m, _ := b.GetMatch(ctx, nil, MatchID)
	if m.Status != matches.StatusLive || m.Innings2Score == nil {
		t.Fatalf("expected live match with innings 2, got %+v", m)
	}

	if _, err := b.SelectPlayer(ctx, nil, MatchID, "hawk-1"); err != nil {
		t.Fatalf("unexpected innings 2 select error %v", err)
	}
	for i := 0; i < 4; i++ {
		_, _ = b.ScoreRuns(ctx, nil, MatchID, 6)
	}
	end, err = b.EndInnings(ctx, nil, MatchID)
	if err != nil || !end.MatchComplete {
		t.Fatalf("expected match completion, got %+v (%v)", end, err)
	}
	m, _ = b.GetMatch(ctx, nil, MatchID)
	if m.Status != matches.StatusCompleted || m.ResultText != "Hawks won by 10 wickets" {
		t.Fatalf("unexpected completed match %+v", m)
	}
	if m.Winner == nil || m.Winner.ID != FieldingFirstID || m.CompletedAt == nil || !m.CompletedAt.Equal(fixed) {
		t.Fatalf("unexpected winner/completion %+v %v", m.Winner, m.CompletedAt)
	}
	if _, err := b.ScoreRuns(ctx, nil, MatchID, 1); err == nil {
		t.Fatal("expected completed match to reject scoring")
	}
}

func TestRosterExhaustedEndsInnings(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.AddTeam(b.teams[BattingFirstID], b.rosters[BattingFirstID][:2])

	_, _ = b.SelectPlayer(ctx, nil, MatchID, "falcon-1")
	out, _ := b.DismissPlayer(ctx, nil, MatchID)
	if out.ShouldEndInnings || out.RemainingPlayers != 1 {
		t.Fatalf("unexpected first dismissal %+v", out)
	}
	_, _ = b.SelectPlayer(ctx, nil, MatchID, "falcon-2")
	out, _ = b.DismissPlayer(ctx, nil, MatchID)
	if !out.ShouldEndInnings || out.EndReason != "No more batsmen available" {
		t.Fatalf("expected roster exhaustion, got %+v", out)
	}
}

func TestResultTextByRuns(t *testing.T) {
	ctx := context.Background()
	b := New()
	_, _ = b.SelectPlayer(ctx, nil, MatchID, "falcon-1")
	_, _ = b.ScoreRuns(ctx, nil, MatchID, 4)
	_, _ = b.EndInnings(ctx, nil, MatchID)
	_, _ = b.EndInnings(ctx, nil, MatchID)

	m, _ := b.GetMatch(ctx, nil, MatchID)
	if m.ResultText != "Falcons won by 4 runs" {
		t.Fatalf("unexpected result %q", m.ResultText)
	}
}

func TestGetMatchReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := New()
	m, _ := b.GetMatch(ctx, nil, MatchID)
	m.BattingFirst.Name = "mutated"
	again, _ := b.GetMatch(ctx, nil, MatchID)
	if again.BattingFirst.Name != "Falcons" {
		t.Fatalf("expected stored match to be isolated, got %+v", again.BattingFirst)
	}
}
