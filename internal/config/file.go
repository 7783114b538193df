package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML config file. Zero values mean "not set".
type fileConfig struct {
	Port       string         `yaml:"port"`
	Gateway    string         `yaml:"gateway"`
	Backend    fileBackend    `yaml:"backend"`
	Journal    fileJournal    `yaml:"journal"`
	Scorecards fileScorecards `yaml:"scorecards"`
	Sweeper    fileSweeper    `yaml:"sweeper"`
	Metrics    fileMetrics    `yaml:"metrics"`
}

type fileBackend struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	ReadRPS       float64       `yaml:"read_rps"`
	WriteRPS      float64       `yaml:"write_rps"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
}

type fileJournal struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type fileScorecards struct {
	Enabled       *bool  `yaml:"enabled"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

type fileSweeper struct {
	Interval time.Duration `yaml:"interval"`
	IdleTTL  time.Duration `yaml:"idle_ttl"`
}

type fileMetrics struct {
	Enabled     *bool  `yaml:"enabled"`
	Port        string `yaml:"port"`
	ServiceName string `yaml:"service_name"`
}

func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orDuration(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func orFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func orBool(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
