// Package course turns a stream of puzzle records into per-theme course
// material: it filters, keeps a bounded best-of-L selection per theme, and
// bands each theme's final set by difficulty.
package course

import (
	"fmt"

	"github.com/Michael2109/chessable-courses/internal/puzzle"
)

// Criteria is the filter configuration applied to every decoded record.
// Zero values mean "unbounded" except MinRating/MaxRating which are both
// checked only when MaxRating > 0.
type Criteria struct {
	MinRating int
	MaxRating int // 0 = unbounded
	MinPlays  int

	// MinPopularityPct is enforced at finalization as a rank cut within each
	// theme's retained set, not during the streaming pass. See Finalize.
	MinPopularityPct int

	// IncludeThemes restricts which theme tags form collections. Empty means
	// every theme tag on a record is a candidate group key.
	IncludeThemes []string
}

// Validate rejects contradictory or out-of-range bounds before a run starts.
func (c Criteria) Validate() error {
	if c.MaxRating > 0 && c.MinRating > c.MaxRating {
		return fmt.Errorf("min rating %d exceeds max rating %d", c.MinRating, c.MaxRating)
	}
	if c.MinRating < 0 {
		return fmt.Errorf("min rating %d is negative", c.MinRating)
	}
	if c.MinPlays < 0 {
		return fmt.Errorf("min plays %d is negative", c.MinPlays)
	}
	if c.MinPopularityPct < 0 || c.MinPopularityPct > 100 {
		return fmt.Errorf("popularity percentile %d outside [0, 100]", c.MinPopularityPct)
	}
	return nil
}

// Matches reports whether a record passes the absolute-bound checks. It is
// pure and total; the popularity percentile is deliberately not evaluated
// here because percentile rank is unknowable mid-stream.
func (c Criteria) Matches(rec puzzle.Record) bool {
	if rec.Rating < c.MinRating {
		return false
	}
	if c.MaxRating > 0 && rec.Rating > c.MaxRating {
		return false
	}
	if rec.PlayCount < c.MinPlays {
		return false
	}
	return true
}

// themeIncluded reports whether a theme tag is a candidate group key.
func (c Criteria) themeIncluded(theme string) bool {
	if len(c.IncludeThemes) == 0 {
		return true
	}
	for _, t := range c.IncludeThemes {
		if t == theme {
			return true
		}
	}
	return false
}
