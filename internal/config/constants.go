package config

import "time"

const (
	envConfigFile        = "CONFIG_FILE"
	envPort              = "PORT"
	envGateway           = "GATEWAY"
	envBackendBaseURL    = "BACKEND_BASE_URL"
	envBackendTimeout    = "BACKEND_TIMEOUT"
	envBackendReadRPS    = "BACKEND_READ_RPS"
	envBackendWriteRPS   = "BACKEND_WRITE_RPS"
	envBackendRetries    = "BACKEND_RETRY_ATTEMPTS"
	envBackendBackoff    = "BACKEND_RETRY_BACKOFF"
	envJournalEnabled    = "JOURNAL_ENABLED"
	envJournalPath       = "JOURNAL_PATH"
	envScorecardsEnabled = "SCORECARDS_ENABLED"
	envScorecardsPath    = "SCORECARDS_PATH"
	envScorecardsKeep    = "SCORECARDS_RETENTION_DAYS"
	envSweepInterval     = "SWEEP_INTERVAL"
	envBoardIdleTTL      = "BOARD_IDLE_TTL"
	envMetricsPort       = "METRICS_PORT"
	envMetricsOn         = "METRICS_ENABLED"
	envOtelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService       = "OTEL_SERVICE_NAME"
	envOtelInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort    = "4000"
	defaultGateway = "fixture"

	defaultBackendBaseURL = "http://localhost:3000/api"
	defaultBackendTimeout = 10 * time.Second
	// Reads (match + roster) happen on every load/refresh; writes are one per delivery.
	defaultBackendReadRPS  = 10.0
	defaultBackendWriteRPS = 5.0
	defaultBackendRetries  = 3
	defaultBackendBackoff  = 200 * time.Millisecond

	defaultJournalEnabled    = true
	defaultJournalPath       = "data/journal.db"
	defaultScorecardsEnabled = true
	defaultScorecardsPath    = "data/scorecards"
	defaultScorecardsKeep    = 30

	defaultSweepInterval = time.Minute
	defaultBoardIdleTTL  = 30 * time.Minute

	defaultMetricsPort    = "9090"
	defaultMetricsService = "cricket-scoreboard-service"
)
