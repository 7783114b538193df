package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/app/sessions"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/requestutil"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

type sessionResponse struct {
	SessionID string       `json:"sessionId"`
	User      session.User `json:"user"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

// CreateSession starts a session for the backend token in the body.
func (h *Handler) CreateSession(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req createSessionRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	sess, err := h.sessions.Create(req.Token)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := sessionResponse{SessionID: sess.ID(), User: sess.User()}
	if exp := sess.ExpiresAt(); !exp.IsZero() {
		resp.ExpiresAt = &exp
	}
	logging.Info(loggerFromContext(r, h.logger), "session created",
		slog.String(logging.FieldSessionID, sess.ID()),
	)
	writeJSON(w, nethttp.StatusCreated, resp, h.logger)
}

// DeleteSession logs the session out and closes every board it opened.
func (h *Handler) DeleteSession(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := r.PathValue("id")
	if _, err := h.sessions.Delete(id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "session not found", h.logger)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}
	closed := h.boards.CloseSession(id)
	logging.Info(loggerFromContext(r, h.logger), "session closed",
		slog.String(logging.FieldSessionID, id),
		slog.Int(logging.FieldCount, closed),
	)
	w.WriteHeader(nethttp.StatusNoContent)
}

// requireSession resolves the X-Session-ID header, writing a 401 when it is
// missing, unknown or no longer active.
func (h *Handler) requireSession(w nethttp.ResponseWriter, r *nethttp.Request) (*session.Session, bool) {
	id := requestutil.SessionID(r)
	if id == "" {
		writeError(w, r, nethttp.StatusUnauthorized, "missing session", h.logger)
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return nil, false
	}
	return sess, true
}
