package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scoring"
)

// actionResponse is the body of every successful board action.
type actionResponse struct {
	Board  scoring.View    `json:"board"`
	Notice *scoring.Notice `json:"notice,omitempty"`
	Prompt string          `json:"prompt,omitempty"`
}

type eventsResponse struct {
	MatchID string          `json:"matchId"`
	Events  []journal.Event `json:"events"`
}

type playersResponse struct {
	MatchID string           `json:"matchId"`
	Players []players.Player `json:"players"`
}

// GetBoard opens (loading on first use) and returns the board for the match.
func (h *Handler) GetBoard(w nethttp.ResponseWriter, r *nethttp.Request) {
	board, ok := h.openBoard(w, r)
	if !ok {
		return
	}
	writeJSON(w, nethttp.StatusOK, board.View(), h.logger)
}

// CloseBoard forgets the session's board for the match.
func (h *Handler) CloseBoard(w nethttp.ResponseWriter, r *nethttp.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if !h.boards.Close(sess.ID(), r.PathValue("matchId")) {
		writeError(w, r, nethttp.StatusNotFound, "board not open", h.logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

// AvailablePlayers recomputes and returns the batting pool.
func (h *Handler) AvailablePlayers(w nethttp.ResponseWriter, r *nethttp.Request) {
	board, ok := h.openBoard(w, r)
	if !ok {
		return
	}
	list, err := board.RefreshAvailablePlayers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, playersResponse{MatchID: board.MatchID(), Players: list}, h.logger)
}

// Events lists the journaled actions for the match in the order they were accepted.
func (h *Handler) Events(w nethttp.ResponseWriter, r *nethttp.Request) {
	if _, ok := h.requireSession(w, r); !ok {
		return
	}
	matchID := r.PathValue("matchId")
	if !scoring.ValidMatchID(matchID) {
		writeError(w, r, nethttp.StatusBadRequest, "Invalid match ID", h.logger)
		return
	}
	events := []journal.Event{}
	if h.events != nil {
		list, err := h.events.List(r.Context(), matchID)
		if err != nil {
			logging.Error(loggerFromContext(r, h.logger), "journal list failed", err,
				slog.String(logging.FieldMatchID, matchID),
			)
			writeError(w, r, nethttp.StatusInternalServerError, "journal unavailable", h.logger)
			return
		}
		if list != nil {
			events = list
		}
	}
	writeJSON(w, nethttp.StatusOK, eventsResponse{MatchID: matchID, Events: events}, h.logger)
}

// Reload refreshes the board from the backend.
func (h *Handler) Reload(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.boardAction(w, r, nil, func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error) {
		if err := b.Reload(ctx); err != nil {
			return scoring.Outcome{}, err
		}
		n, _ := b.Notice()
		return scoring.Outcome{Notice: n}, nil
	})
}

// SelectPlayer puts the requested player on strike.
func (h *Handler) SelectPlayer(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req selectPlayerRequest
	h.boardAction(w, r, &req, func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error) {
		return b.SelectPlayer(ctx, req.PlayerID)
	})
}

// ScoreRuns records runs off the bat for the current batter.
func (h *Handler) ScoreRuns(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req scoreRunsRequest
	h.boardAction(w, r, &req, func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error) {
		return b.ScoreRuns(ctx, *req.Runs)
	})
}

// ScoreExtra records a wide, no-ball or bye.
func (h *Handler) ScoreExtra(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req scoreExtraRequest
	h.boardAction(w, r, &req, func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error) {
		return b.ScoreExtra(ctx, matches.ExtraType(req.Type), req.ByeRuns)
	})
}

// PlayerOut dismisses the current batter. confirmEnd answers the end-of-innings
// prompt if the backend raises one.
func (h *Handler) PlayerOut(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req playerOutRequest
	h.boardAction(w, r, &req, func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error) {
		return b.PlayerOut(ctx, scoring.Always(req.ConfirmEnd))
	})
}

// EndInnings closes the current innings when confirm is true.
func (h *Handler) EndInnings(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req endInningsRequest
	h.boardAction(w, r, &req, func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error) {
		return b.EndInnings(ctx, scoring.Always(req.Confirm))
	})
}

// boardAction decodes body (when non-nil), opens the board and runs act,
// answering with the board view and the action's notice.
func (h *Handler) boardAction(
	w nethttp.ResponseWriter,
	r *nethttp.Request,
	body any,
	act func(ctx context.Context, b *scoring.Board) (scoring.Outcome, error),
) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if body != nil {
		if err := h.decodeBody(r, body); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}
	board, err := h.boards.Open(r.Context(), sess, r.PathValue("matchId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out, err := act(r.Context(), board)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp := actionResponse{Board: board.View(), Prompt: out.Prompt}
	if out.Notice.Message != "" {
		n := out.Notice
		resp.Notice = &n
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

func (h *Handler) openBoard(w nethttp.ResponseWriter, r *nethttp.Request) (*scoring.Board, bool) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return nil, false
	}
	board, err := h.boards.Open(r.Context(), sess, r.PathValue("matchId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return nil, false
	}
	return board, true
}
