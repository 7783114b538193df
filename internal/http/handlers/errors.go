package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/app/sessions"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scorecards"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scoring"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

type errorMapping struct {
	status  int
	message string
	prompt  string
}

// mapError turns a service error into a status code and user-facing message.
func mapError(err error) errorMapping {
	var (
		badReq  *errBadRequest
		vErr    *scoring.ValidationError
		idErr   *scoring.InvalidMatchIDError
		confErr *scoring.ConfirmationError
		nbErr   *scoring.NoActiveBatterError
		ntErr   *scoring.NoBattingTeamError
	)
	switch {
	case errors.As(err, &badReq):
		return errorMapping{status: http.StatusBadRequest, message: badReq.msg}
	case errors.As(err, &vErr):
		return errorMapping{status: http.StatusBadRequest, message: vErr.Message}
	case errors.As(err, &idErr):
		return errorMapping{status: http.StatusBadRequest, message: "Invalid match ID"}
	case errors.Is(err, session.ErrInvalidToken):
		return errorMapping{status: http.StatusBadRequest, message: "invalid token"}
	case errors.As(err, &confErr):
		return errorMapping{status: http.StatusConflict, message: "confirmation required", prompt: confErr.Prompt}
	case errors.Is(err, scoring.ErrActionInProgress):
		return errorMapping{status: http.StatusConflict, message: "another action is in progress"}
	case errors.Is(err, scoring.ErrMatchComplete):
		return errorMapping{status: http.StatusConflict, message: "match is complete"}
	case errors.Is(err, scoring.ErrInningsComplete):
		return errorMapping{status: http.StatusConflict, message: "innings complete, reload required"}
	case errors.Is(err, scoring.ErrBatterAtCrease):
		return errorMapping{status: http.StatusConflict, message: "a batter is already at the crease"}
	case errors.Is(err, scoring.ErrNotLoaded):
		return errorMapping{status: http.StatusConflict, message: "board not loaded"}
	case errors.As(err, &nbErr):
		return errorMapping{status: http.StatusConflict, message: nbErr.Error()}
	case errors.As(err, &ntErr):
		return errorMapping{status: http.StatusConflict, message: ntErr.Error()}
	case errors.Is(err, scoring.ErrSessionClosed), errors.Is(err, sessions.ErrInactive):
		return errorMapping{status: http.StatusUnauthorized, message: "session closed"}
	case errors.Is(err, sessions.ErrNotFound):
		return errorMapping{status: http.StatusUnauthorized, message: "unknown session"}
	case errors.Is(err, gateway.ErrUnauthorized):
		return errorMapping{status: http.StatusUnauthorized, message: actionMessage(err, "unauthorized")}
	case errors.Is(err, gateway.ErrNotFound):
		return errorMapping{status: http.StatusNotFound, message: actionMessage(err, "not found")}
	case errors.Is(err, scorecards.ErrNotFound):
		return errorMapping{status: http.StatusNotFound, message: "scorecard not found"}
	}
	if _, ok := gateway.AsRateLimitError(err); ok {
		return errorMapping{status: http.StatusTooManyRequests, message: actionMessage(err, "rate limited")}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errorMapping{status: http.StatusGatewayTimeout, message: actionMessage(err, "backend timed out")}
	}
	return errorMapping{status: http.StatusBadGateway, message: actionMessage(err, "backend request failed")}
}

func actionMessage(err error, fallback string) string {
	if aErr, ok := scoring.AsActionError(err); ok && aErr.Message != "" {
		return aErr.Message
	}
	return gateway.MessageOf(err, fallback)
}

// writeServiceError maps err and writes it, adding Retry-After for rate limits
// and the declined prompt for confirmations.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	m := mapError(err)
	logger := loggerFromContext(r, h.logger)
	if m.status >= http.StatusInternalServerError {
		logging.Warn(logger, "request failed", slog.Int(logging.FieldStatusCode, m.status), slog.Any("err", err))
	}
	if rl, ok := gateway.AsRateLimitError(err); ok && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
	}
	if m.prompt != "" {
		writeErrorBody(w, r, m.status, map[string]string{"error": m.message, "prompt": m.prompt}, h.logger)
		return
	}
	writeError(w, r, m.status, m.message, h.logger)
}
