package course

import (
	"container/heap"
	"crypto/sha1"
	"encoding/binary"
	"math"
	"sort"

	"github.com/Michael2109/chessable-courses/internal/puzzle"
)

// playsWeight scales the log-play-count term of the quality score so that
// popularity dominates and play volume breaks near-ties.
const playsWeight = 0.5

// noiseSalt versions the deterministic selection jitter; changing it
// reshuffles which near-equal puzzles win a slot.
const noiseSalt = "sel_v1"

// Scored pairs a retained record with the quality score it was admitted
// under.
type Scored struct {
	Rec   puzzle.Record
	Score float64
}

// Selector maintains one bounded best-of-L collection per theme. Records are
// offered in stream order; each theme's collection is a min-heap on quality
// score so the current worst kept record is always at the root.
type Selector struct {
	limit  int // 0 = unbounded
	jitter float64
	themes map[string]*themeHeap
}

// NewSelector creates a selector keeping up to limit records per theme.
// limit 0 keeps everything offered. jitter > 0 adds a deterministic per-id
// perturbation to scores to spread selection beyond the most popular
// records; 0 disables it.
func NewSelector(limit int, jitter float64) *Selector {
	return &Selector{
		limit:  limit,
		jitter: jitter,
		themes: make(map[string]*themeHeap),
	}
}

// Score computes the quality score the selector orders by.
func (s *Selector) Score(rec puzzle.Record) float64 {
	score := float64(rec.Popularity) + playsWeight*math.Log10(math.Max(1, float64(rec.PlayCount)))
	if s.jitter > 0 {
		score += s.jitter * stableNoise(rec.ID)
	}
	return score
}

// Offer presents a record to one theme's collection. Collections are fully
// independent: eviction here never affects the record's presence elsewhere.
func (s *Selector) Offer(theme string, rec puzzle.Record) bool {
	h, ok := s.themes[theme]
	if !ok {
		h = &themeHeap{}
		s.themes[theme] = h
	}
	entry := Scored{Rec: rec, Score: s.Score(rec)}

	if s.limit == 0 || h.Len() < s.limit {
		heap.Push(h, entry)
		return true
	}
	// Full: replace the worst kept record only if strictly better.
	if entry.Score > (*h)[0].Score {
		(*h)[0] = entry
		heap.Fix(h, 0)
		return true
	}
	return false
}

// Themes returns the group keys with at least one retained record, sorted
// for reproducible finalization order.
func (s *Selector) Themes() []string {
	out := make([]string, 0, len(s.themes))
	for theme := range s.themes {
		out = append(out, theme)
	}
	sort.Strings(out)
	return out
}

// Retained consumes and returns a theme's collection. The heap is released;
// a second call for the same theme returns nil.
func (s *Selector) Retained(theme string) []Scored {
	h, ok := s.themes[theme]
	if !ok {
		return nil
	}
	delete(s.themes, theme)
	return *h
}

// Size returns the number of records currently retained for a theme.
func (s *Selector) Size(theme string) int {
	h, ok := s.themes[theme]
	if !ok {
		return 0
	}
	return h.Len()
}

// themeHeap is a min-heap on quality score. On equal scores the record with
// the higher id sorts first, making it the eviction candidate, so retention
// deterministically favors lower ids.
type themeHeap []Scored

func (h themeHeap) Len() int { return len(h) }

func (h themeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Rec.ID > h[j].Rec.ID
}

func (h themeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *themeHeap) Push(x any) {
	*h = append(*h, x.(Scored))
}

func (h *themeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// stableNoise returns a deterministic pseudo-random value in [-0.5, 0.5)
// derived from the puzzle id.
func stableNoise(id string) float64 {
	sum := sha1.Sum([]byte(noiseSalt + id))
	val := binary.BigEndian.Uint32(sum[:4])
	return float64(val)/float64(math.MaxUint32) - 0.5
}
