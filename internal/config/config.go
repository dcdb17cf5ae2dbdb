// Package config holds the course generator's configuration, layered from
// defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"

	"github.com/Michael2109/chessable-courses/internal/course"
)

// Config is the full configuration surface of a generation run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CSVPath points at the puzzle database, .csv or .csv.zst.
	CSVPath string `koanf:"csv_path"`

	// MinRating and MaxRating bound puzzle ratings, inclusive. MaxRating 0
	// means unbounded.
	MinRating int `koanf:"min_rating"`
	MaxRating int `koanf:"max_rating"`

	// PerTheme caps how many puzzles each theme keeps. 0 keeps everything.
	PerTheme int `koanf:"per_theme"`

	// MinPlays is the inclusive lower bound on play count.
	MinPlays int `koanf:"min_plays"`

	// MinPopularityPct drops the bottom N percent of each theme's retained
	// set by popularity rank before banding.
	MinPopularityPct int `koanf:"min_popularity_pct"`

	// IncludeThemes restricts output to these theme tags. Empty = all.
	IncludeThemes []string `koanf:"include_themes"`

	// OutDir receives one .pgn file per theme.
	OutDir string `koanf:"out_dir"`

	// OutPGN is an optional combined .pgn path.
	OutPGN string `koanf:"out_pgn"`

	// StartAfterFirstMove presents each puzzle after the opponent's first
	// move so the solver is the side to move.
	StartAfterFirstMove bool `koanf:"start_after_first_move"`

	// EventPrefix is prepended to every PGN Event header.
	EventPrefix string `koanf:"event_prefix"`

	// OpeningColorTag adds an OpeningColor header (white/black/both) when
	// set; some import platforms use it to orient the course.
	OpeningColorTag string `koanf:"opening_color_tag"`

	// SelectionJitter adds a deterministic per-puzzle perturbation to the
	// quality score to spread selection. 0 disables it.
	SelectionJitter float64 `koanf:"selection_jitter"`
}

// Default returns the built-in configuration: a beginner band, 50 puzzles
// per theme, per-theme files under ./themes_pgn.
func Default() *Config {
	return &Config{
		LogLevel:            "info",
		CSVPath:             "lichess_db_puzzle.csv",
		MinRating:           600,
		MaxRating:           800,
		PerTheme:            50,
		StartAfterFirstMove: true,
		OutDir:              "themes_pgn",
	}
}

// Validate rejects configurations that must stop the run before it starts.
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("csv_path must not be empty")
	}
	if c.PerTheme < 0 {
		return fmt.Errorf("per_theme %d is negative", c.PerTheme)
	}
	if c.OutDir == "" && c.OutPGN == "" {
		return fmt.Errorf("no output configured: set out_dir or out_pgn")
	}
	switch c.OpeningColorTag {
	case "", "white", "black", "both":
	default:
		return fmt.Errorf("opening_color_tag %q: want white, black or both", c.OpeningColorTag)
	}
	return c.Criteria().Validate()
}

// Criteria returns the filter settings as pipeline criteria.
func (c *Config) Criteria() course.Criteria {
	return course.Criteria{
		MinRating:        c.MinRating,
		MaxRating:        c.MaxRating,
		MinPlays:         c.MinPlays,
		MinPopularityPct: c.MinPopularityPct,
		IncludeThemes:    c.IncludeThemes,
	}
}
