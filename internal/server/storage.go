package server

import (
	"log/slog"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/config"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scorecards"
)

type storageComponents struct {
	journal *journal.Store
	writer  *scorecards.Writer
	cards   scorecards.Store
}

// buildStorage opens the delivery journal and scorecard archive when enabled.
// A journal that fails to open is logged and left disabled.
func buildStorage(cfg config.Config, logger *slog.Logger) storageComponents {
	var c storageComponents
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			if logger != nil {
				logger.Warn("journal unavailable, continuing without it", "path", cfg.Journal.Path, "error", err)
			}
		} else {
			c.journal = j
		}
	}
	if cfg.Scorecards.Enabled {
		c.writer = scorecards.NewWriter(cfg.Scorecards.Path, cfg.Scorecards.RetentionDays)
		c.cards = scorecards.NewFSStore(cfg.Scorecards.Path)
	}
	return c
}
