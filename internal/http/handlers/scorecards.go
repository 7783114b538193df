package handlers

import (
	"errors"
	nethttp "net/http"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scorecards"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scoring"
)

// Scorecard returns the archived scorecard of a completed match.
func (h *Handler) Scorecard(w nethttp.ResponseWriter, r *nethttp.Request) {
	if _, ok := h.requireSession(w, r); !ok {
		return
	}
	matchID := r.PathValue("matchId")
	if !scoring.ValidMatchID(matchID) {
		writeError(w, r, nethttp.StatusBadRequest, "Invalid match ID", h.logger)
		return
	}
	if h.scorecards == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "scorecard archive disabled", h.logger)
		return
	}
	sc, err := h.scorecards.LoadScorecard(matchID)
	if err != nil {
		if errors.Is(err, scorecards.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "scorecard not found", h.logger)
			return
		}
		writeError(w, r, nethttp.StatusInternalServerError, "scorecard unavailable", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, sc, h.logger)
}
