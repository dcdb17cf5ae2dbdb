// Package puzzle decodes Lichess puzzle database rows into typed records
// and streams them from plain or zstd-compressed CSV sources.
package puzzle

// Record is a single puzzle from the Lichess puzzle database.
// Columns documented at https://database.lichess.org/#puzzles
// A Record is immutable once decoded.
type Record struct {
	ID              string
	FEN             string
	Moves           []string // UCI coordinate moves, first is the opponent's reply
	Rating          int
	RatingDeviation int
	Popularity      int // percentage in [-100, 100]
	PlayCount       int
	Themes          []string
	GameURL         string
	OpeningTags     []string
}
