package scoring

import "strconv"

// Overs renders legal balls as completed overs and balls, e.g. 7 -> "1.1".
func Overs(balls int) string {
	if balls <= 0 {
		return "0.0"
	}
	return strconv.Itoa(balls/6) + "." + strconv.Itoa(balls%6)
}

// StrikeRate is runs per hundred balls, formatted to two decimals.
func StrikeRate(runs, balls int) string {
	if balls <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(runs)/float64(balls)*100, 'f', 2, 64)
}

// RunRate is runs per over, formatted to two decimals.
func RunRate(runs, balls int) string {
	if balls <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(runs)/float64(balls)*6, 'f', 2, 64)
}

// ValidRuns reports whether runs is a value a single delivery can score.
func ValidRuns(runs int) bool {
	switch runs {
	case 0, 1, 2, 3, 4, 6:
		return true
	}
	return false
}
