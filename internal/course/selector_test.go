package course_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/Michael2109/chessable-courses/internal/course"
	"github.com/Michael2109/chessable-courses/internal/puzzle"
)

func rec(id string, popularity, plays int) puzzle.Record {
	return puzzle.Record{
		ID:         id,
		FEN:        "8/8/8/8/8/8/8/8 w - - 0 1",
		Moves:      []string{"e2e4"},
		Rating:     1500,
		Popularity: popularity,
		PlayCount:  plays,
		Themes:     []string{"fork"},
	}
}

func retainedIDs(s *course.Selector, theme string) []string {
	var ids []string
	for _, sc := range s.Retained(theme) {
		ids = append(ids, sc.Rec.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestBoundedSelectionKeepsBest(t *testing.T) {
	s := course.NewSelector(2, 0)
	s.Offer("fork", rec("a", 10, 0))
	s.Offer("fork", rec("b", 90, 0))
	s.Offer("fork", rec("c", 50, 0))

	ids := retainedIDs(s, "fork")
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "c" {
		t.Errorf("retained = %v, want [b c] (popularity 90 and 50)", ids)
	}
}

func TestRetainedDominateDiscarded(t *testing.T) {
	const limit = 5
	s := course.NewSelector(limit, 0)

	var offered []float64
	for i := 0; i < 100; i++ {
		r := rec(fmt.Sprintf("p%03d", i), (i*37)%100, i)
		offered = append(offered, s.Score(r))
		s.Offer("fork", r)
	}

	retained := s.Retained("fork")
	if len(retained) != limit {
		t.Fatalf("retained %d records, want %d", len(retained), limit)
	}
	minKept := retained[0].Score
	for _, sc := range retained {
		if sc.Score < minKept {
			minKept = sc.Score
		}
	}
	sort.Float64s(offered)
	// Every retained score must be >= every discarded score: the limit
	// highest offered scores are exactly the retained ones.
	if worstDiscarded := offered[len(offered)-limit-1]; minKept < worstDiscarded {
		t.Errorf("retained score %f below discarded score %f", minKept, worstDiscarded)
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	s := course.NewSelector(3, 0)
	for i := 0; i < 50; i++ {
		s.Offer("fork", rec(fmt.Sprintf("p%02d", i), i, 0))
		if size := s.Size("fork"); size > 3 {
			t.Fatalf("collection size %d exceeds limit after %d offers", size, i+1)
		}
	}
}

func TestUnboundedKeepsEverything(t *testing.T) {
	s := course.NewSelector(0, 0)
	for i := 0; i < 20; i++ {
		s.Offer("fork", rec(fmt.Sprintf("p%02d", i), i, 0))
	}
	if size := s.Size("fork"); size != 20 {
		t.Errorf("size = %d, want 20", size)
	}
}

func TestFanOutIndependence(t *testing.T) {
	s := course.NewSelector(1, 0)

	shared := rec("shared", 50, 0)
	shared.Themes = []string{"fork", "pin"}
	s.Offer("fork", shared)
	s.Offer("pin", shared)

	// Evict from fork only.
	s.Offer("fork", rec("better", 99, 0))

	if ids := retainedIDs(s, "fork"); len(ids) != 1 || ids[0] != "better" {
		t.Errorf("fork retained = %v, want [better]", ids)
	}
	if ids := retainedIDs(s, "pin"); len(ids) != 1 || ids[0] != "shared" {
		t.Errorf("pin retained = %v, want [shared]; eviction leaked across themes", ids)
	}
}

func TestEqualScoreDoesNotEvict(t *testing.T) {
	s := course.NewSelector(1, 0)
	s.Offer("fork", rec("first", 50, 10))
	s.Offer("fork", rec("second", 50, 10))

	if ids := retainedIDs(s, "fork"); len(ids) != 1 || ids[0] != "first" {
		t.Errorf("retained = %v, want [first]: equal score must not evict", ids)
	}
}

func TestEqualScoreEvictionFavorsLowerID(t *testing.T) {
	s := course.NewSelector(2, 0)
	s.Offer("fork", rec("b", 50, 10))
	s.Offer("fork", rec("a", 50, 10))
	s.Offer("fork", rec("z", 60, 10))

	ids := retainedIDs(s, "fork")
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "z" {
		t.Errorf("retained = %v, want [a z]: the higher id is the eviction candidate on ties", ids)
	}
}

func TestPlayCountBreaksNearTies(t *testing.T) {
	s := course.NewSelector(1, 0)
	s.Offer("fork", rec("quiet", 50, 1))
	s.Offer("fork", rec("busy", 50, 100000))

	if ids := retainedIDs(s, "fork"); ids[0] != "busy" {
		t.Errorf("retained = %v, want [busy]: play count should break popularity ties", ids)
	}
}

func TestJitterIsDeterministic(t *testing.T) {
	a := course.NewSelector(1, 10)
	b := course.NewSelector(1, 10)
	r := rec("p1", 50, 10)
	if a.Score(r) != b.Score(r) {
		t.Error("jittered scores differ between selectors for the same record")
	}
	if a.Score(r) == course.NewSelector(1, 0).Score(r) {
		t.Error("jitter had no effect on the score")
	}
}

func TestThemesSorted(t *testing.T) {
	s := course.NewSelector(0, 0)
	for _, theme := range []string{"pin", "fork", "backRankMate"} {
		r := rec("p-"+theme, 10, 0)
		s.Offer(theme, r)
	}
	themes := s.Themes()
	want := []string{"backRankMate", "fork", "pin"}
	for i, th := range want {
		if themes[i] != th {
			t.Fatalf("Themes() = %v, want %v", themes, want)
		}
	}
}
