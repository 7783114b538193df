package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/requestutil"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeErrorBody(w, r, status, map[string]string{"error": message}, logger)
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body map[string]string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
