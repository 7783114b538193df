package scoring

// State is the board's position in the scoring lifecycle.
type State int

const (
	AwaitingPlayerSelection State = iota
	ActiveAtBat
	InningsComplete
	MatchComplete
)

func (s State) String() string {
	switch s {
	case AwaitingPlayerSelection:
		return "awaiting_player_selection"
	case ActiveAtBat:
		return "active_at_bat"
	case InningsComplete:
		return "innings_complete"
	case MatchComplete:
		return "match_complete"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action names used in logs, metrics and the journal.
const (
	ActionLoad         = "load"
	ActionReload       = "reload"
	ActionRefresh      = "refresh_players"
	ActionSelectPlayer = "select_player"
	ActionScoreRuns    = "score_runs"
	ActionScoreExtra   = "score_extra"
	ActionPlayerOut    = "player_out"
	ActionEndInnings   = "end_innings"
)
