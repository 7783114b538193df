package config

import "time"

// JournalConfig controls the SQLite delivery journal.
type JournalConfig struct {
	Enabled bool
	Path    string
}

// ScorecardsConfig controls the on-disk archive of completed matches.
type ScorecardsConfig struct {
	Enabled       bool
	Path          string
	RetentionDays int
}

// SweeperConfig controls idle board and session eviction.
type SweeperConfig struct {
	Interval time.Duration
	IdleTTL  time.Duration
}

func loadJournal(file fileJournal) JournalConfig {
	return JournalConfig{
		Enabled: boolEnvOrDefault(envJournalEnabled, orBool(file.Enabled, defaultJournalEnabled)),
		Path:    envOrDefault(envJournalPath, orString(file.Path, defaultJournalPath)),
	}
}

func loadScorecards(file fileScorecards) ScorecardsConfig {
	return ScorecardsConfig{
		Enabled:       boolEnvOrDefault(envScorecardsEnabled, orBool(file.Enabled, defaultScorecardsEnabled)),
		Path:          envOrDefault(envScorecardsPath, orString(file.Path, defaultScorecardsPath)),
		RetentionDays: intEnvOrDefault(envScorecardsKeep, orInt(file.RetentionDays, defaultScorecardsKeep)),
	}
}

func loadSweeper(file fileSweeper) SweeperConfig {
	return SweeperConfig{
		Interval: durationEnvOrDefault(envSweepInterval, orDuration(file.Interval, defaultSweepInterval)),
		IdleTTL:  durationEnvOrDefault(envBoardIdleTTL, orDuration(file.IdleTTL, defaultBoardIdleTTL)),
	}
}
