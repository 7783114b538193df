package scoring

import (
	"context"
	"testing"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
)

func TestRunsNotice(t *testing.T) {
	cases := []struct {
		runs  int
		level Level
		msg   string
	}{
		{0, LevelInfo, "Dot ball"},
		{1, LevelInfo, "+1 run"},
		{3, LevelInfo, "+3 runs"},
		{4, LevelSuccess, "Boundary! +4 runs"},
		{6, LevelSuccess, "Six! +6 runs"},
	}
	for _, tc := range cases {
		n := runsNotice(tc.runs)
		if n.Level != tc.level || n.Message != tc.msg {
			t.Fatalf("runs %d: expected %s %q, got %+v", tc.runs, tc.level, tc.msg, n)
		}
	}
}

func TestExtraNotice(t *testing.T) {
	if n := extraNotice(matches.ExtraWide, 0); n.Message != "Wide! +1 run" || n.Level != LevelWarning {
		t.Fatalf("unexpected wide notice %+v", n)
	}
	if n := extraNotice(matches.ExtraNoBall, 0); n.Message != "Noball! +1 run" {
		t.Fatalf("unexpected noball notice %+v", n)
	}
	if n := extraNotice(matches.ExtraBye, 3); n.Message != "Bye! +3 runs" {
		t.Fatalf("unexpected bye notice %+v", n)
	}
}

func TestPrompts(t *testing.T) {
	if got := endInningsPrompt(1); got != "Are you sure you want to end the 1st innings?" {
		t.Fatalf("unexpected first innings prompt %q", got)
	}
	if got := endInningsPrompt(2); got != "Are you sure you want to end the 2nd innings and complete the match?" {
		t.Fatalf("unexpected second innings prompt %q", got)
	}
	if got := shouldEndPrompt("All out"); got != "All out. End innings now?" {
		t.Fatalf("unexpected prompt %q", got)
	}
	if got := shouldEndPrompt(""); got != "Innings over. End innings now?" {
		t.Fatalf("unexpected fallback prompt %q", got)
	}
	if got := remainingNotice(3); got.Message != "3 player(s) remaining" {
		t.Fatalf("unexpected remaining notice %+v", got)
	}
}

func TestConfirmersAndNotifierFunc(t *testing.T) {
	ctx := context.Background()
	if !Always(true)(ctx, "q") || Always(false)(ctx, "q") {
		t.Fatalf("expected Always to return its answer")
	}
	var got Notice
	NotifierFunc(func(_ context.Context, n Notice) { got = n }).Notify(ctx, Notice{Level: LevelInfo, Message: "hi"})
	if got.Message != "hi" {
		t.Fatalf("expected notifier func to receive notice, got %+v", got)
	}
}
