package scoring

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// Options carries the optional collaborators of a board.
type Options struct {
	Notifier Notifier
	Journal  EventSink
	Archive  Archive
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Outcome describes what an action reported beyond the state change.
// Prompt is the last confirmation question asked during the action.
type Outcome struct {
	Notice Notice `json:"notice"`
	Prompt string `json:"prompt,omitempty"`
}

// Board is the live scoring state machine for one match in one session.
// Only one action runs at a time; a second concurrent action fails with
// ErrActionInProgress. Local state changes only after the backend accepts.
type Board struct {
	matchID  string
	sess     *session.Session
	gw       gateway.MatchGateway
	notifier Notifier
	journal  EventSink
	archive  Archive
	metrics  *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time

	processing atomic.Bool

	mu        sync.RWMutex
	loaded    bool
	archived  bool
	state     State
	match     matches.Match
	live      LiveScore
	current   *CurrentPlayer
	available []players.Player
	notice    *Notice
}

// NewBoard creates an unloaded board. Call Load before any other action.
func NewBoard(sess *session.Session, gw gateway.MatchGateway, matchID string, opts Options) *Board {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Board{
		matchID:   strings.TrimSpace(matchID),
		sess:      sess,
		gw:        gw,
		notifier:  opts.Notifier,
		journal:   opts.Journal,
		archive:   opts.Archive,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		now:       now,
		available: []players.Player{},
	}
}

func (b *Board) MatchID() string {
	return b.matchID
}

func (b *Board) Session() *session.Session {
	return b.sess
}

func (b *Board) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// LiveScore returns a copy of both innings and the current innings number.
func (b *Board) LiveScore() LiveScore {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return LiveScore{
		CurrentInnings: b.live.CurrentInnings,
		Innings1:       b.live.Innings1.Clone(),
		Innings2:       b.live.Innings2.Clone(),
	}
}

// CurrentPlayer returns a copy of the batter on strike, or nil.
func (b *Board) CurrentPlayer() *CurrentPlayer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return nil
	}
	c := *b.current
	return &c
}

// AvailablePlayers returns the batters eligible for selection.
func (b *Board) AvailablePlayers() []players.Player {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]players.Player{}, b.available...)
}

// Load fetches the match, derives the live score and computes the available batters.
// A roster failure does not fail the load; it leaves the pool empty and emits a warning.
func (b *Board) Load(ctx context.Context) error {
	if !ValidMatchID(b.matchID) {
		b.metrics.RecordAction(ActionLoad, metrics.OutcomeRejected)
		b.emit(ctx, Notice{Level: LevelError, Message: "Invalid match ID"})
		return &InvalidMatchIDError{ID: b.matchID}
	}
	return b.run(ctx, ActionLoad, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.sessionErr(); err != nil {
			return err
		}
		match, err := b.gw.GetMatch(ctx, b.sess, b.matchID)
		if err != nil {
			fallback := "Failed to load match data"
			if errors.Is(err, gateway.ErrNotFound) {
				fallback = "Match not found"
			}
			return b.gatewayFailure(ctx, ActionLoad, fallback, err)
		}

		live := InitializeLiveScore(match)
		completed := match.IsCompleted()
		available := []players.Player{}
		if !completed {
			available = b.availableOrWarn(ctx, logger, match, live)
		}

		b.mu.Lock()
		b.match = match
		b.live = live
		b.current = nil
		b.available = available
		b.loaded = true
		b.state = AwaitingPlayerSelection
		if completed {
			b.state = MatchComplete
		}
		b.mu.Unlock()

		logging.Info(logger, "board loaded",
			logging.FieldInnings, live.CurrentInnings,
			logging.FieldState, b.State().String(),
			logging.FieldCount, len(available),
		)
		if completed {
			b.archiveScorecard(ctx, logger)
		}
		return nil
	})
}

// Reload refreshes the match record and roster while keeping the board's innings.
func (b *Board) Reload(ctx context.Context) error {
	return b.run(ctx, ActionReload, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(true); err != nil {
			return err
		}
		return b.reload(ctx, logger)
	})
}

// RefreshAvailablePlayers recomputes the batting pool for the current innings.
func (b *Board) RefreshAvailablePlayers(ctx context.Context) ([]players.Player, error) {
	var list []players.Player
	err := b.run(ctx, ActionRefresh, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(false); err != nil {
			return err
		}
		b.mu.RLock()
		match, live := b.match, b.live
		b.mu.RUnlock()

		available, err := b.fetchAvailable(ctx, match, live)
		if err != nil {
			return b.rosterFailure(ctx, ActionRefresh, err)
		}
		b.mu.Lock()
		b.available = available
		b.mu.Unlock()
		list = append([]players.Player{}, available...)
		return nil
	})
	return list, err
}

// SelectPlayer puts playerID on strike.
func (b *Board) SelectPlayer(ctx context.Context, playerID string) (Outcome, error) {
	var out Outcome
	err := b.run(ctx, ActionSelectPlayer, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(false); err != nil {
			return err
		}
		playerID = strings.TrimSpace(playerID)
		if playerID == "" {
			return b.reject(ctx, &ValidationError{Field: "playerId", Message: "Please select a player"})
		}
		b.mu.RLock()
		active := b.current != nil
		innings := b.live.CurrentInnings
		b.mu.RUnlock()
		if active {
			return b.reject(ctx, ErrBatterAtCrease)
		}

		res, err := b.gw.SelectPlayer(ctx, b.sess, b.matchID, playerID)
		if err != nil {
			return b.gatewayFailure(ctx, ActionSelectPlayer, "Failed to select player", err)
		}
		player := CurrentPlayer{Player: res.Player}
		if player.ID == "" {
			player.ID = playerID
		}
		if res.Stats != nil {
			player.Stats = *res.Stats
		}

		b.mu.Lock()
		b.current = &player
		b.available = withoutPlayer(b.available, player.ID)
		b.state = ActiveAtBat
		team := b.live.Active()
		b.mu.Unlock()

		b.record(ctx, logger, journal.Event{Kind: journal.KindSelectPlayer, Innings: innings, PlayerID: player.ID}, team)
		out.Notice = b.emit(ctx, Notice{Level: LevelSuccess, Message: "Player selected successfully!"})
		return nil
	})
	return out, err
}

// ScoreRuns records a delivery off the bat. The team score is replaced by the
// backend snapshot; the batter's figures accumulate locally.
func (b *Board) ScoreRuns(ctx context.Context, runs int) (Outcome, error) {
	var out Outcome
	err := b.run(ctx, ActionScoreRuns, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(false); err != nil {
			return err
		}
		b.mu.RLock()
		batter := b.current
		innings := b.live.CurrentInnings
		b.mu.RUnlock()
		if batter == nil {
			return b.reject(ctx, &NoActiveBatterError{})
		}
		if !ValidRuns(runs) {
			return b.reject(ctx, &ValidationError{Field: "runs", Message: "runs must be one of 0, 1, 2, 3, 4, 6"})
		}

		res, err := b.gw.ScoreRuns(ctx, b.sess, b.matchID, runs)
		if err != nil {
			return b.gatewayFailure(ctx, ActionScoreRuns, "Failed to score runs", err)
		}

		b.mu.Lock()
		b.live.replaceActive(res.TeamStats)
		if b.current != nil {
			b.current.Stats = b.current.Stats.AddDelivery(runs)
		}
		team := b.live.Active()
		b.mu.Unlock()

		b.record(ctx, logger, journal.Event{Kind: journal.KindScoreRuns, Innings: innings, Runs: runs, PlayerID: batter.ID}, team)
		out.Notice = b.emit(ctx, runsNotice(runs))
		return nil
	})
	return out, err
}

// ScoreExtra records a wide, no-ball or bye. Only the team score changes.
func (b *Board) ScoreExtra(ctx context.Context, extra matches.ExtraType, byeRuns int) (Outcome, error) {
	var out Outcome
	err := b.run(ctx, ActionScoreExtra, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(false); err != nil {
			return err
		}
		if err := validateExtra(extra, byeRuns); err != nil {
			return b.reject(ctx, err)
		}
		b.mu.RLock()
		innings := b.live.CurrentInnings
		b.mu.RUnlock()

		res, err := b.gw.ScoreExtra(ctx, b.sess, b.matchID, gateway.ExtraRequest{Type: extra, ByeRuns: byeRuns})
		if err != nil {
			return b.gatewayFailure(ctx, ActionScoreExtra, "Failed to score extra", err)
		}

		b.mu.Lock()
		b.live.replaceActive(res.TeamStats)
		team := b.live.Active()
		b.mu.Unlock()

		runs := 1
		if extra == matches.ExtraBye {
			runs = byeRuns
		}
		b.record(ctx, logger, journal.Event{Kind: journal.KindScoreExtra, Innings: innings, Runs: runs, ExtraType: string(extra)}, team)
		out.Notice = b.emit(ctx, extraNotice(extra, byeRuns))
		return nil
	})
	return out, err
}

func validateExtra(extra matches.ExtraType, byeRuns int) error {
	if !extra.Valid() {
		return &ValidationError{Field: "type", Message: "type must be one of wide, noball, bye"}
	}
	if extra == matches.ExtraBye {
		if byeRuns < 1 || byeRuns > 6 {
			return &ValidationError{Field: "byeRuns", Message: "byeRuns must be between 1 and 6"}
		}
		return nil
	}
	if byeRuns != 0 {
		return &ValidationError{Field: "byeRuns", Message: "byeRuns applies to byes only"}
	}
	return nil
}

// PlayerOut dismisses the current batter. When the backend reports the innings
// is over, confirm is asked whether to end it now; a refusal leaves the board
// waiting for a selection.
func (b *Board) PlayerOut(ctx context.Context, confirm Confirmer) (Outcome, error) {
	var out Outcome
	err := b.run(ctx, ActionPlayerOut, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(false); err != nil {
			return err
		}
		b.mu.RLock()
		batter := b.current
		innings := b.live.CurrentInnings
		b.mu.RUnlock()
		if batter == nil {
			return b.reject(ctx, &NoActiveBatterError{})
		}

		res, err := b.gw.DismissPlayer(ctx, b.sess, b.matchID)
		if err != nil {
			return b.gatewayFailure(ctx, ActionPlayerOut, "Failed to mark player out", err)
		}

		b.mu.Lock()
		b.live.replaceActive(res.TeamStats)
		b.current = nil
		b.state = AwaitingPlayerSelection
		team := b.live.Active()
		b.mu.Unlock()

		b.record(ctx, logger, journal.Event{Kind: journal.KindPlayerOut, Innings: innings, PlayerID: batter.ID}, team)
		out.Notice = b.emit(ctx, Notice{Level: LevelInfo, Message: "Player is out!"})

		if res.ShouldEndInnings {
			prompt := shouldEndPrompt(res.EndReason)
			out.Prompt = prompt
			if !ask(ctx, confirm, prompt) {
				logging.Info(logger, "end of innings deferred", "reason", res.EndReason)
				return nil
			}
			err := b.endInnings(ctx, logger, confirm, &out)
			b.metrics.RecordAction(ActionEndInnings, outcomeOf(err))
			// The dismissal is already applied; a failed end leaves the board
			// awaiting a selection and EndInnings can be retried on its own.
			switch {
			case err == nil:
			case errors.Is(err, ErrNotConfirmed):
				logging.Info(logger, "end of innings deferred", "reason", res.EndReason)
			default:
				logging.Warn(logger, "end innings after dismissal failed", "error", err)
				msg := "Failed to end innings"
				if aErr, ok := AsActionError(err); ok {
					msg = aErr.Message
				}
				out.Notice = b.emit(ctx, Notice{Level: LevelWarning, Message: msg})
			}
			return nil
		}

		out.Notice = b.emit(ctx, remainingNotice(res.RemainingPlayers))
		if err := b.reload(ctx, logger); err != nil {
			logging.Warn(logger, "reload after dismissal failed", "error", err)
		}
		return nil
	})
	return out, err
}

// EndInnings closes the current innings after confirmation. Ending the second
// innings completes the match.
func (b *Board) EndInnings(ctx context.Context, confirm Confirmer) (Outcome, error) {
	var out Outcome
	err := b.run(ctx, ActionEndInnings, func(ctx context.Context, logger *slog.Logger) error {
		if err := b.precheck(false); err != nil {
			return err
		}
		return b.endInnings(ctx, logger, confirm, &out)
	})
	return out, err
}

func (b *Board) endInnings(ctx context.Context, logger *slog.Logger, confirm Confirmer, out *Outcome) error {
	b.mu.RLock()
	innings := b.live.CurrentInnings
	b.mu.RUnlock()

	prompt := endInningsPrompt(innings)
	out.Prompt = prompt
	if !ask(ctx, confirm, prompt) {
		return &ConfirmationError{Prompt: prompt}
	}

	res, err := b.gw.EndInnings(ctx, b.sess, b.matchID)
	if err != nil {
		return b.gatewayFailure(ctx, ActionEndInnings, "Failed to end innings", err)
	}

	b.mu.RLock()
	team := b.live.Active()
	b.mu.RUnlock()
	b.record(ctx, logger, journal.Event{Kind: journal.KindEndInnings, Innings: innings}, team)

	msg := strings.TrimSpace(res.Message)
	if msg == "" {
		msg = "Innings completed"
		if res.MatchComplete {
			msg = "Match completed"
		}
	}
	out.Notice = b.emit(ctx, Notice{Level: LevelSuccess, Message: msg})

	if res.MatchComplete {
		b.mu.Lock()
		b.state = MatchComplete
		b.current = nil
		b.available = []players.Player{}
		b.match.Status = matches.StatusCompleted
		b.mu.Unlock()
		b.refreshResult(ctx, logger)
		b.archiveScorecard(ctx, logger)
		logging.Info(logger, "match complete")
		return nil
	}

	b.mu.Lock()
	b.live.CurrentInnings = 2
	b.current = nil
	b.available = []players.Player{}
	b.state = InningsComplete
	b.mu.Unlock()

	if err := b.reload(ctx, logger); err != nil {
		logging.Warn(logger, "reload after innings end failed", "error", err)
	}
	return nil
}

// View returns a snapshot of the board for presentation.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v := View{
		MatchID:          b.matchID,
		State:            b.state,
		Status:           b.match.Status,
		CurrentInnings:   b.live.CurrentInnings,
		BattingFirst:     copyTeam(b.match.BattingFirst),
		FieldingFirst:    copyTeam(b.match.FieldingFirst),
		Toss:             b.match.Toss,
		Innings1:         inningsView(b.live.Innings1),
		Innings2:         inningsView(b.live.Innings2),
		CurrentPlayer:    playerView(b.current),
		AvailablePlayers: append([]players.Player{}, b.available...),
		ResultText:       b.match.ResultText,
		Winner:           copyTeam(b.match.Winner),
		Processing:       b.processing.Load(),
	}
	v.Toss.Winner = copyTeam(b.match.Toss.Winner)
	if b.live.CurrentInnings > 0 {
		v.BattingTeam = copyTeam(b.match.BattingTeam(b.live.CurrentInnings))
	}
	if b.match.CompletedAt != nil {
		at := *b.match.CompletedAt
		v.CompletedAt = &at
	}
	if b.notice != nil {
		n := *b.notice
		v.Notice = &n
	}
	return v
}

// Notice returns the last notice the board emitted.
func (b *Board) Notice() (Notice, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.notice == nil {
		return Notice{}, false
	}
	return *b.notice, true
}

func (b *Board) run(ctx context.Context, action string, fn func(ctx context.Context, logger *slog.Logger) error) error {
	if !b.processing.CompareAndSwap(false, true) {
		b.metrics.RecordAction(action, metrics.OutcomeRejected)
		return ErrActionInProgress
	}
	defer b.processing.Store(false)

	logger := logging.Scoped(ctx, b.logger,
		logging.FieldMatchID, b.matchID,
		logging.FieldSessionID, b.sess.ID(),
		logging.FieldAction, action,
	)
	if logger != nil {
		ctx = logging.WithLogger(ctx, logger)
	}

	err := fn(ctx, logger)
	b.metrics.RecordAction(action, outcomeOf(err))
	switch {
	case err == nil:
	case IsLocal(err):
		logging.Debug(logger, "board action rejected", "error", err)
	default:
		logging.Warn(logger, "board action failed", "error", err)
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case IsLocal(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

func (b *Board) sessionErr() error {
	if b.sess == nil {
		return nil
	}
	if !b.sess.Active(b.now()) {
		return ErrSessionClosed
	}
	return nil
}

// precheck validates the session and the board's lifecycle before an action.
func (b *Board) precheck(allowInningsComplete bool) error {
	if err := b.sessionErr(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	switch {
	case !b.loaded:
		return ErrNotLoaded
	case b.state == MatchComplete:
		return ErrMatchComplete
	case b.state == InningsComplete && !allowInningsComplete:
		return ErrInningsComplete
	}
	return nil
}

func (b *Board) reload(ctx context.Context, logger *slog.Logger) error {
	match, err := b.gw.GetMatch(ctx, b.sess, b.matchID)
	if err != nil {
		return b.gatewayFailure(ctx, ActionReload, "Failed to load match data", err)
	}

	b.mu.RLock()
	next := LiveScore{
		CurrentInnings: b.live.CurrentInnings,
		Innings1:       b.live.Innings1,
		Innings2:       b.live.Innings2,
	}
	b.mu.RUnlock()
	if match.Innings1Score != nil {
		next.Innings1 = match.Innings1Score.Clone()
	}
	if match.Innings2Score != nil {
		next.Innings2 = match.Innings2Score.Clone()
	}

	completed := match.IsCompleted()
	available := []players.Player{}
	if !completed {
		available, err = b.fetchAvailable(ctx, match, next)
		if err != nil {
			return b.rosterFailure(ctx, ActionReload, err)
		}
	}

	b.mu.Lock()
	b.match = match
	b.live = next
	b.available = available
	switch {
	case completed:
		b.state = MatchComplete
		b.current = nil
	case b.current != nil:
		b.state = ActiveAtBat
		b.available = withoutPlayer(available, b.current.ID)
	default:
		b.state = AwaitingPlayerSelection
	}
	b.mu.Unlock()

	logging.Debug(logger, "board reloaded", logging.FieldInnings, next.CurrentInnings, logging.FieldCount, len(available))
	if completed {
		b.archiveScorecard(ctx, logger)
	}
	return nil
}

func (b *Board) fetchAvailable(ctx context.Context, match matches.Match, live LiveScore) ([]players.Player, error) {
	team := match.BattingTeam(live.CurrentInnings)
	if team == nil || strings.TrimSpace(team.ID) == "" {
		return nil, &NoBattingTeamError{Innings: live.CurrentInnings}
	}
	roster, err := b.gw.GetRoster(ctx, b.sess, team.ID)
	if err != nil {
		return nil, err
	}
	return availableFrom(roster, live.Active()), nil
}

func (b *Board) availableOrWarn(ctx context.Context, logger *slog.Logger, match matches.Match, live LiveScore) []players.Player {
	available, err := b.fetchAvailable(ctx, match, live)
	if err == nil {
		return available
	}
	if errors.Is(err, gateway.ErrUnauthorized) {
		b.sess.Close()
	}
	logging.Warn(logger, "available players unavailable", "error", err)
	msg := err.Error()
	var nbt *NoBattingTeamError
	if !errors.As(err, &nbt) {
		msg = gateway.MessageOf(err, "Failed to load players")
	}
	b.emit(ctx, Notice{Level: LevelWarning, Message: msg})
	return []players.Player{}
}

func (b *Board) rosterFailure(ctx context.Context, action string, err error) error {
	var nbt *NoBattingTeamError
	if errors.As(err, &nbt) {
		return b.reject(ctx, err)
	}
	return b.gatewayFailure(ctx, action, "Failed to load players", err)
}

// refreshResult picks up the backend's result text after completion. Failures
// leave the board complete without it.
func (b *Board) refreshResult(ctx context.Context, logger *slog.Logger) {
	match, err := b.gw.GetMatch(ctx, b.sess, b.matchID)
	if err != nil {
		logging.Warn(logger, "final match fetch failed", "error", err)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.match = match
	b.match.Status = matches.StatusCompleted
	if match.Innings1Score != nil {
		b.live.Innings1 = match.Innings1Score.Clone()
	}
	if match.Innings2Score != nil {
		b.live.Innings2 = match.Innings2Score.Clone()
	}
}

func (b *Board) archiveScorecard(ctx context.Context, logger *slog.Logger) {
	if b.archive == nil {
		return
	}
	b.mu.RLock()
	done := b.archived
	b.mu.RUnlock()
	if done {
		return
	}

	sc := scorecardFromView(b.View(), b.now())
	if err := b.archive.WriteScorecard(sc); err != nil {
		logging.Error(logger, "scorecard archive failed", err)
		return
	}
	b.mu.Lock()
	b.archived = true
	b.mu.Unlock()
	logging.Info(logger, "scorecard archived")
}

func (b *Board) record(ctx context.Context, logger *slog.Logger, e journal.Event, team matches.InningsScore) {
	if b.journal == nil {
		return
	}
	e.MatchID = b.matchID
	e.TeamRuns = team.Runs
	e.TeamWickets = team.Wickets
	e.TeamBalls = team.Balls
	e.RecordedAt = b.now()
	if err := b.journal.Record(ctx, e); err != nil {
		logging.Error(logger, "journal record failed", err, "kind", e.Kind)
	}
}

func (b *Board) gatewayFailure(ctx context.Context, action, fallback string, err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		b.sess.Close()
	}
	msg := gateway.MessageOf(err, fallback)
	b.emit(ctx, Notice{Level: LevelError, Message: msg})
	return &ActionError{Action: action, Message: msg, Err: err}
}

func (b *Board) reject(ctx context.Context, err error) error {
	b.emit(ctx, Notice{Level: LevelWarning, Message: err.Error()})
	return err
}

func (b *Board) emit(ctx context.Context, n Notice) Notice {
	b.mu.Lock()
	b.notice = &n
	b.mu.Unlock()
	if b.notifier != nil {
		b.notifier.Notify(ctx, n)
	}
	return n
}

func ask(ctx context.Context, confirm Confirmer, prompt string) bool {
	if confirm == nil {
		return false
	}
	return confirm(ctx, prompt)
}
