package course

import "sort"

// Band is a difficulty label derived from a record's rank position within
// its theme's rating-sorted collection.
type Band int

const (
	BandEasy Band = iota
	BandMedium
	BandHard
)

func (b Band) String() string {
	switch b {
	case BandEasy:
		return "Easy"
	case BandMedium:
		return "Medium"
	case BandHard:
		return "Hard"
	}
	return "Unknown"
}

// BandedPuzzle is a finalized selection: a retained record annotated with
// its theme, difficulty band and 1-based rank in the theme's sorted order.
// Never mutated after creation; one-to-one with a rendered artifact.
type BandedPuzzle struct {
	Scored
	Theme string
	Band  Band
	Rank  int
}

// Finalize consumes a theme's retained set and produces its banded output.
//
// Two stages, run only once the stream is exhausted:
//  1. Popularity percentile cut: with N retained, the floor(N*pct/100)
//     lowest-popularity records are dropped. This is the rank-based
//     reinterpretation of the percentile filter that a single bounded pass
//     cannot evaluate mid-stream.
//  2. Sort survivors ascending by rating (ties by id) and partition by
//     position: floor(30%) Easy, floor(30%) Hard, remainder Medium. Sizes
//     always sum to the survivor count; fewer than 3 records still yields
//     valid, possibly empty, bands.
func Finalize(theme string, retained []Scored, minPopularityPct int) []BandedPuzzle {
	if len(retained) == 0 {
		return nil
	}

	kept := retained
	if minPopularityPct > 0 {
		byPopularity := make([]Scored, len(retained))
		copy(byPopularity, retained)
		sort.Slice(byPopularity, func(i, j int) bool {
			if byPopularity[i].Rec.Popularity != byPopularity[j].Rec.Popularity {
				return byPopularity[i].Rec.Popularity < byPopularity[j].Rec.Popularity
			}
			return byPopularity[i].Rec.ID < byPopularity[j].Rec.ID
		})
		drop := len(byPopularity) * minPopularityPct / 100
		kept = byPopularity[drop:]
	}
	if len(kept) == 0 {
		return nil
	}

	sorted := make([]Scored, len(kept))
	copy(sorted, kept)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rec.Rating != sorted[j].Rec.Rating {
			return sorted[i].Rec.Rating < sorted[j].Rec.Rating
		}
		return sorted[i].Rec.ID < sorted[j].Rec.ID
	})

	n := len(sorted)
	easy := n * 30 / 100
	hard := n * 30 / 100

	out := make([]BandedPuzzle, n)
	for i, sc := range sorted {
		band := BandMedium
		switch {
		case i < easy:
			band = BandEasy
		case i >= n-hard:
			band = BandHard
		}
		out[i] = BandedPuzzle{
			Scored: sc,
			Theme:  theme,
			Band:   band,
			Rank:   i + 1,
		}
	}
	return out
}
