package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/requestutil"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
)

// LoggingMiddleware wraps the handler with request logging, request ID support, and metrics.
func LoggingMiddleware(baseLogger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := requestutil.SanitizeRequestID(r.Header.Get(requestutil.HeaderRequestID))
		w.Header().Set(requestutil.HeaderRequestID, reqID)

		attrs := []any{
			slog.String(logging.FieldRequestID, reqID),
			slog.String(logging.FieldMethod, r.Method),
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		}
		if sessID := requestutil.SessionID(r); sessID != "" {
			attrs = append(attrs, slog.String(logging.FieldSessionID, sessID))
		}
		logger := baseLogger.With(attrs...)

		ctx := logging.WithLogger(r.Context(), logger)
		ctx = withRequestID(ctx, reqID)
		r = r.WithContext(ctx)
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), ww.status, duration)

		logger.Info("request complete",
			slog.Int(logging.FieldStatusCode, ww.status),
			slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
		)
	})
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

// RequestIDFromContext extracts the request ID stored by the logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type requestIDKey struct{}

// normalizePath collapses ids out of request paths so metric labels stay bounded.
func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	path = strings.Split(path, "?")[0]
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "sessions":
		return "/sessions/:id"
	case len(parts) == 2 && parts[0] == "scorecards":
		return "/scorecards/:matchId"
	case len(parts) == 2 && parts[0] == "boards":
		return "/boards/:matchId"
	case len(parts) == 3 && parts[0] == "boards":
		return "/boards/:matchId/" + parts[2]
	default:
		return path
	}
}
