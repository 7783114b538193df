package scorecards

import (
	"fmt"
	"path/filepath"
)

const manifestFile = "manifest.json"

// ScorecardPath builds the path to a match scorecard archived on the given date.
func ScorecardPath(basePath, date, matchID string) string {
	return filepath.Join(basePath, date, fmt.Sprintf("%s.json", matchID))
}
