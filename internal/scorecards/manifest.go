package scorecards

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Manifest indexes archived scorecards by date.
type Manifest struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	Retention   Retention `json:"retention"`
	Scorecards  Index     `json:"scorecards"`
}

type Retention struct {
	Days int `json:"days"`
}

// Index maps YYYY-MM-DD to the match ids archived that day.
type Index struct {
	Dates       map[string][]string `json:"dates"`
	LastWritten time.Time           `json:"lastWritten"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Retention:   Retention{Days: retentionDays},
		Scorecards:  Index{Dates: map[string][]string{}},
	}
}

func readManifest(basePath string, retentionDays int) (Manifest, error) {
	f, err := os.Open(filepath.Join(basePath, manifestFile))
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionDays), err
	}
	if m.Scorecards.Dates == nil {
		m.Scorecards.Dates = map[string][]string{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	path := filepath.Join(basePath, manifestFile)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// datesNewestFirst returns the manifest dates in descending order.
func (m Manifest) datesNewestFirst() []string {
	dates := make([]string, 0, len(m.Scorecards.Dates))
	for d := range m.Scorecards.Dates {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

func addMatch(ids []string, matchID string) []string {
	for _, id := range ids {
		if id == matchID {
			return ids
		}
	}
	ids = append(ids, matchID)
	sort.Strings(ids)
	return ids
}
