package scorecards

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no archived scorecard exists for a match.
var ErrNotFound = errors.New("scorecard not found")

// Store defines how archived scorecards are loaded.
type Store interface {
	LoadScorecard(matchID string) (Scorecard, error)
}

// FSStore loads scorecards from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed scorecard store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadScorecard finds the newest archived scorecard for matchID. The manifest is
// consulted first; date directories are scanned when it is missing or stale.
func (s *FSStore) LoadScorecard(matchID string) (Scorecard, error) {
	if s == nil {
		return Scorecard{}, errors.New("scorecard store not configured")
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" || strings.ContainsAny(matchID, `/\*?[`) {
		return Scorecard{}, ErrNotFound
	}

	if m, err := readManifest(s.basePath, 0); err == nil {
		for _, date := range m.datesNewestFirst() {
			for _, id := range m.Scorecards.Dates[date] {
				if id != matchID {
					continue
				}
				if sc, err := s.decode(ScorecardPath(s.basePath, date, matchID)); err == nil {
					return sc, nil
				}
			}
		}
	}

	matches, _ := filepath.Glob(filepath.Join(s.basePath, "*", matchID+".json"))
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, path := range matches {
		if sc, err := s.decode(path); err == nil {
			return sc, nil
		}
	}
	return Scorecard{}, ErrNotFound
}

func (s *FSStore) decode(path string) (Scorecard, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scorecard{}, err
	}
	defer f.Close()
	var sc Scorecard
	if err := json.NewDecoder(f).Decode(&sc); err != nil {
		return Scorecard{}, err
	}
	return sc, nil
}
