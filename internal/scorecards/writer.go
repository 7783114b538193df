package scorecards

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/timeutil"
)

const defaultRetentionDays = 30

// Writer archives scorecards under date directories, keeps the manifest current
// and prunes dates that fall out of the retention window.
type Writer struct {
	basePath      string
	retentionDays int
	now           func() time.Time
	mu            sync.Mutex
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteScorecard stores sc atomically at {base}/{date}/{matchId}.json and updates the manifest.
func (w *Writer) WriteScorecard(sc Scorecard) error {
	if w == nil {
		return errors.New("scorecard writer not configured")
	}
	if strings.TrimSpace(sc.MatchID) == "" {
		return errors.New("match id required")
	}
	if sc.ArchivedAt.IsZero() {
		sc.ArchivedAt = w.now().UTC()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	date := timeutil.FormatDate(sc.archiveDate())
	target := ScorecardPath(w.basePath, date, sc.MatchID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(date, sc.MatchID)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}
	return w.updateManifest(date, sc.MatchID)
}

// caller holds w.mu.
func (w *Writer) updateManifest(date, matchID string) error {
	m, _ := readManifest(w.basePath, w.retentionDays)
	now := w.now().UTC()

	m.Scorecards.Dates[date] = addMatch(m.Scorecards.Dates[date], matchID)
	dates, err := w.listDates()
	if err != nil {
		return err
	}
	for _, d := range dates {
		if _, ok := m.Scorecards.Dates[d]; !ok {
			m.Scorecards.Dates[d] = w.listMatches(d)
		}
	}
	w.prune(&m, now)

	m.Scorecards.LastWritten = now
	m.Retention.Days = w.retentionDays
	return writeManifest(w.basePath, m, now)
}

func (w *Writer) listDates() ([]string, error) {
	entries, err := os.ReadDir(w.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() && timeutil.ValidDate(e.Name()) {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) listMatches(date string) []string {
	entries, err := os.ReadDir(filepath.Join(w.basePath, date))
	if err != nil {
		return []string{}
	}
	ids := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids
}

func (w *Writer) prune(m *Manifest, now time.Time) {
	cutoff := timeutil.RetentionCutoff(now, w.retentionDays)
	for d := range m.Scorecards.Dates {
		parsed, err := timeutil.ParseDate(d)
		if err != nil {
			continue
		}
		if parsed.Before(cutoff) {
			_ = os.RemoveAll(filepath.Join(w.basePath, d))
			delete(m.Scorecards.Dates, d)
		}
	}
}
