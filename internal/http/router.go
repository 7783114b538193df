package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
)

// NewRouter wraps the API handler with request logging and metrics.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	return middleware.LoggingMiddleware(logger, recorder, handler)
}
