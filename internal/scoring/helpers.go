package scoring

import (
	"math"
)

// Band maps a lower bound to a fixed score. Bands are checked in order;
// the first band whose Min is at or below the value wins.
type Band struct {
	Min   float64
	Score int
	Note  string
}

// ScoreBands returns the score and note of the first matching band, or the
// fallback when none match.
func ScoreBands(value float64, bands []Band, fallback Band) (int, string) {
	for _, b := range bands {
		if value >= b.Min {
			return b.Score, b.Note
		}
	}
	return fallback.Score, fallback.Note
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundScore rounds half away from zero.
func roundScore(v float64) int {
	return int(math.Round(v))
}
