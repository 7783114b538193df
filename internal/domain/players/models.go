package players

// Player is the normalized roster entry used by the scoring board.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Photo    string `json:"photo,omitempty"`
	TeamID   string `json:"teamId,omitempty"`
}

// Stats are a batter's personal figures for one innings.
type Stats struct {
	Runs  int `json:"runs"`
	Balls int `json:"balls"`
	Fours int `json:"fours"`
	Sixes int `json:"sixes"`
}

// AddDelivery returns the stats after the batter faced one ball scoring runs off the bat.
func (s Stats) AddDelivery(runs int) Stats {
	next := Stats{
		Runs:  s.Runs + runs,
		Balls: s.Balls + 1,
		Fours: s.Fours,
		Sixes: s.Sixes,
	}
	switch runs {
	case 4:
		next.Fours++
	case 6:
		next.Sixes++
	}
	return next
}
