package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port       string
	Gateway    string
	Backend    BackendConfig
	Journal    JournalConfig
	Scorecards ScorecardsConfig
	Sweeper    SweeperConfig
	Metrics    MetricsConfig
	// Warnings collects non-fatal problems found while loading (bad config file, etc).
	Warnings []string
}

// Load reads configuration with the precedence env > CONFIG_FILE (yaml) > defaults.
// A .env file in the working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	var warnings []string
	file, err := loadFile(os.Getenv(envConfigFile))
	if err != nil {
		warnings = append(warnings, err.Error())
	}

	return Config{
		Port:       envOrDefault(envPort, orString(file.Port, defaultPort)),
		Gateway:    envOrDefault(envGateway, orString(file.Gateway, defaultGateway)),
		Backend:    loadBackend(file.Backend),
		Journal:    loadJournal(file.Journal),
		Scorecards: loadScorecards(file.Scorecards),
		Sweeper:    loadSweeper(file.Sweeper),
		Metrics:    loadMetrics(file.Metrics),
		Warnings:   warnings,
	}
}
