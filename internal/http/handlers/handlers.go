package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/app/boards"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/app/sessions"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scorecards"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/sweeper"
)

// EventLister reads the delivery journal for a match.
type EventLister interface {
	List(ctx context.Context, matchID string) ([]journal.Event, error)
}

// Handler wires HTTP routes to the board and session services.
type Handler struct {
	boards     *boards.Service
	sessions   *sessions.Service
	events     EventLister
	scorecards scorecards.Store
	logger     *slog.Logger
	statusFn   func() sweeper.Status
	validate   *validator.Validate
	mux        *nethttp.ServeMux
}

// NewHandler constructs a Handler and registers its routes. events and cards may be nil.
func NewHandler(
	boardSvc *boards.Service,
	sessionSvc *sessions.Service,
	events EventLister,
	cards scorecards.Store,
	logger *slog.Logger,
	statusFn func() sweeper.Status,
) *Handler {
	h := &Handler{
		boards:     boardSvc,
		sessions:   sessionSvc,
		events:     events,
		scorecards: cards,
		logger:     logger,
		statusFn:   statusFn,
		validate:   newValidator(),
	}
	h.mux = h.routes()
	return h
}

func (h *Handler) routes() *nethttp.ServeMux {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ready", h.Ready)

	mux.HandleFunc("POST /sessions", h.CreateSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.DeleteSession)

	mux.HandleFunc("GET /boards/{matchId}", h.GetBoard)
	mux.HandleFunc("DELETE /boards/{matchId}", h.CloseBoard)
	mux.HandleFunc("GET /boards/{matchId}/players", h.AvailablePlayers)
	mux.HandleFunc("GET /boards/{matchId}/events", h.Events)
	mux.HandleFunc("POST /boards/{matchId}/reload", h.Reload)
	mux.HandleFunc("POST /boards/{matchId}/select-player", h.SelectPlayer)
	mux.HandleFunc("POST /boards/{matchId}/score-runs", h.ScoreRuns)
	mux.HandleFunc("POST /boards/{matchId}/score-extra", h.ScoreExtra)
	mux.HandleFunc("POST /boards/{matchId}/player-out", h.PlayerOut)
	mux.HandleFunc("POST /boards/{matchId}/end-innings", h.EndInnings)

	mux.HandleFunc("GET /scorecards/{matchId}", h.Scorecard)

	mux.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	})
	return mux
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.mux.ServeHTTP(w, r)
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	resp := map[string]string{"status": "ok"}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
