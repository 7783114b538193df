package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Kinds of accepted scoring actions.
const (
	KindSelectPlayer = "select_player"
	KindScoreRuns    = "score_runs"
	KindScoreExtra   = "score_extra"
	KindPlayerOut    = "player_out"
	KindEndInnings   = "end_innings"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	match_id     TEXT NOT NULL,
	innings      INTEGER NOT NULL,
	kind         TEXT NOT NULL,
	runs         INTEGER NOT NULL DEFAULT 0,
	extra_type   TEXT NOT NULL DEFAULT '',
	player_id    TEXT NOT NULL DEFAULT '',
	team_runs    INTEGER NOT NULL DEFAULT 0,
	team_wickets INTEGER NOT NULL DEFAULT 0,
	team_balls   INTEGER NOT NULL DEFAULT 0,
	recorded_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_match ON events(match_id);
`

// Event is one accepted action with the team totals the backend returned for it.
type Event struct {
	ID          string    `json:"id"`
	MatchID     string    `json:"matchId"`
	Innings     int       `json:"innings"`
	Kind        string    `json:"kind"`
	Runs        int       `json:"runs,omitempty"`
	ExtraType   string    `json:"extraType,omitempty"`
	PlayerID    string    `json:"playerId,omitempty"`
	TeamRuns    int       `json:"teamRuns"`
	TeamWickets int       `json:"teamWickets"`
	TeamBalls   int       `json:"teamBalls"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// Store is an append-only SQLite log of scoring events. A nil *Store is a
// disabled journal: Record does nothing and List returns no events.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates (or reopens) the journal database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Record appends e, assigning an id and timestamp when missing.
func (s *Store) Record(ctx context.Context, e Event) error {
	if s == nil || s.db == nil {
		return nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO events
		(id, match_id, innings, kind, runs, extra_type, player_id, team_runs, team_wickets, team_balls, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.MatchID, e.Innings, e.Kind, e.Runs, e.ExtraType, e.PlayerID,
		e.TeamRuns, e.TeamWickets, e.TeamBalls, e.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", e.Kind, err)
	}
	return nil
}

// List returns the events for a match in insertion order.
func (s *Store) List(ctx context.Context, matchID string) ([]Event, error) {
	if s == nil || s.db == nil {
		return []Event{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, match_id, innings, kind, runs, extra_type, player_id,
		team_runs, team_wickets, team_balls, recorded_at
		FROM events WHERE match_id = ? ORDER BY rowid`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var (
			e  Event
			at string
		)
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Innings, &e.Kind, &e.Runs, &e.ExtraType, &e.PlayerID,
			&e.TeamRuns, &e.TeamWickets, &e.TeamBalls, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.RecordedAt = parsed
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
