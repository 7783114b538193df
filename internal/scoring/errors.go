package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrActionInProgress is returned when an action arrives while another is in flight.
	ErrActionInProgress = errors.New("scoring: another action is in progress")
	// ErrMatchComplete is returned for any action once the match has finished.
	ErrMatchComplete = errors.New("scoring: match is complete")
	// ErrNotConfirmed is returned when the confirmer declines an action that needs consent.
	ErrNotConfirmed = errors.New("scoring: action not confirmed")
	// ErrSessionClosed is returned once the board's session has been logged out or rejected.
	ErrSessionClosed = errors.New("scoring: session closed")
	// ErrNotLoaded is returned for actions on a board that has not completed a load.
	ErrNotLoaded = errors.New("scoring: board not loaded")
	// ErrBatterAtCrease is returned when selecting a batter while one is already active.
	ErrBatterAtCrease = errors.New("scoring: a batter is already at the crease")
	// ErrInningsComplete is returned while an ended innings is waiting for its reload.
	ErrInningsComplete = errors.New("scoring: innings complete, reload required")
)

// ValidationError is a local precondition failure; no backend call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NoActiveBatterError is returned when a delivery needs a batter and none is selected.
type NoActiveBatterError struct{}

func (e *NoActiveBatterError) Error() string {
	return "No player selected"
}

// NoBattingTeamError is returned when the batting team for an innings cannot be resolved.
type NoBattingTeamError struct {
	Innings int
}

func (e *NoBattingTeamError) Error() string {
	return fmt.Sprintf("no batting team found for innings %d", e.Innings)
}

// InvalidMatchIDError is returned for blank or placeholder match ids.
type InvalidMatchIDError struct {
	ID string
}

func (e *InvalidMatchIDError) Error() string {
	return fmt.Sprintf("invalid match id %q", e.ID)
}

// ConfirmationError carries the prompt that was declined.
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return "confirmation declined: " + e.Prompt
}

func (e *ConfirmationError) Is(target error) bool {
	return target == ErrNotConfirmed
}

// ActionError wraps a gateway failure for a board action. Message is the text to
// show the user: the backend's own message or the action's fallback.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Action, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Action, e.Message, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// AsActionError attempts to unwrap an error into an ActionError.
func AsActionError(err error) (*ActionError, bool) {
	var aErr *ActionError
	if errors.As(err, &aErr) {
		return aErr, true
	}
	return nil, false
}

// IsLocal reports whether err was raised before any backend call.
func IsLocal(err error) bool {
	var (
		vErr  *ValidationError
		nbErr *NoActiveBatterError
		ntErr *NoBattingTeamError
		idErr *InvalidMatchIDError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &nbErr), errors.As(err, &ntErr), errors.As(err, &idErr):
		return true
	case errors.Is(err, ErrNotConfirmed), errors.Is(err, ErrActionInProgress), errors.Is(err, ErrMatchComplete),
		errors.Is(err, ErrSessionClosed), errors.Is(err, ErrNotLoaded), errors.Is(err, ErrBatterAtCrease),
		errors.Is(err, ErrInningsComplete):
		return true
	}
	return false
}
