package server

import (
	"os"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
)

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o644)
}

func sampleEvent() journal.Event {
	return journal.Event{MatchID: "m1", Innings: 1, Kind: journal.KindScoreRuns, Runs: 1}
}
