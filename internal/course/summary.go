package course

import "sort"

// ThemeSummary aggregates one theme's finalized output.
type ThemeSummary struct {
	Theme     string
	Count     int
	RatingMin int
	RatingMax int
	RatingAvg float64
	PopAvg    float64
}

// Summary reports what a run selected, for logging at the end of the run.
type Summary struct {
	Total         int
	ThemeCount    int
	RatingMin     int
	RatingMax     int
	RatingAvg     float64
	RatingMedian  float64
	PopularityAvg float64
	Themes        []ThemeSummary

	ratings []int
	popSum  int64
}

func newSummary() *Summary {
	return &Summary{}
}

func (s *Summary) addTheme(theme string, banded []BandedPuzzle) {
	ts := ThemeSummary{Theme: theme, Count: len(banded)}
	var ratingSum, popSum int
	for i, bp := range banded {
		r := bp.Rec.Rating
		if i == 0 || r < ts.RatingMin {
			ts.RatingMin = r
		}
		if r > ts.RatingMax {
			ts.RatingMax = r
		}
		ratingSum += r
		popSum += bp.Rec.Popularity
		s.ratings = append(s.ratings, r)
		s.popSum += int64(bp.Rec.Popularity)
	}
	if ts.Count > 0 {
		ts.RatingAvg = float64(ratingSum) / float64(ts.Count)
		ts.PopAvg = float64(popSum) / float64(ts.Count)
	}
	s.Themes = append(s.Themes, ts)
}

func (s *Summary) finish() {
	s.ThemeCount = len(s.Themes)
	s.Total = len(s.ratings)
	if s.Total == 0 {
		return
	}
	sort.Ints(s.ratings)
	s.RatingMin = s.ratings[0]
	s.RatingMax = s.ratings[s.Total-1]
	var sum int64
	for _, r := range s.ratings {
		sum += int64(r)
	}
	s.RatingAvg = float64(sum) / float64(s.Total)
	mid := s.Total / 2
	if s.Total%2 == 1 {
		s.RatingMedian = float64(s.ratings[mid])
	} else {
		s.RatingMedian = float64(s.ratings[mid-1]+s.ratings[mid]) / 2
	}
	s.PopularityAvg = float64(s.popSum) / float64(s.Total)

	// Largest themes first, then alphabetical.
	sort.Slice(s.Themes, func(i, j int) bool {
		if s.Themes[i].Count != s.Themes[j].Count {
			return s.Themes[i].Count > s.Themes[j].Count
		}
		return s.Themes[i].Theme < s.Themes[j].Theme
	})
}
