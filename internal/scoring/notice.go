package scoring

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
)

// Level classifies a notice for presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-facing message produced by a board action.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives every notice a board emits.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

// Confirmer answers a yes/no question put to the user.
type Confirmer func(ctx context.Context, prompt string) bool

// Always returns a Confirmer that gives the same answer to every prompt.
func Always(answer bool) Confirmer {
	return func(context.Context, string) bool { return answer }
}

func runsNotice(runs int) Notice {
	switch {
	case runs == 4:
		return Notice{Level: LevelSuccess, Message: "Boundary! +4 runs"}
	case runs == 6:
		return Notice{Level: LevelSuccess, Message: "Six! +6 runs"}
	case runs == 1:
		return Notice{Level: LevelInfo, Message: "+1 run"}
	case runs > 1:
		return Notice{Level: LevelInfo, Message: fmt.Sprintf("+%d runs", runs)}
	default:
		return Notice{Level: LevelInfo, Message: "Dot ball"}
	}
}

func extraNotice(extra matches.ExtraType, byeRuns int) Notice {
	label := cases.Title(language.English).String(string(extra))
	runs := 1
	if extra == matches.ExtraBye {
		runs = byeRuns
	}
	suffix := "runs"
	if runs == 1 {
		suffix = "run"
	}
	return Notice{Level: LevelWarning, Message: fmt.Sprintf("%s! +%d %s", label, runs, suffix)}
}

func remainingNotice(remaining int) Notice {
	return Notice{Level: LevelSuccess, Message: fmt.Sprintf("%d player(s) remaining", remaining)}
}

func endInningsPrompt(innings int) string {
	if innings == 1 {
		return "Are you sure you want to end the 1st innings?"
	}
	return "Are you sure you want to end the 2nd innings and complete the match?"
}

func shouldEndPrompt(reason string) string {
	if reason == "" {
		reason = "Innings over"
	}
	return reason + ". End innings now?"
}
