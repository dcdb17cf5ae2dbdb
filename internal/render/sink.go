package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/Michael2109/chessable-courses/internal/course"
)

// Stats counts what a sink wrote across the run.
type Stats struct {
	Written     int
	Skipped     int
	WhiteToMove int
	BlackToMove int
}

// Sink writes rendered artifacts to one .pgn file per theme, and optionally
// to a combined .pgn. Theme files are written to a temp file and renamed
// into place, so an aborted theme leaves nothing behind.
type Sink struct {
	renderer *Renderer
	dir      string
	combined *os.File
	log      zerolog.Logger
	stats    Stats
}

// NewSink creates the output directory (if dir is non-empty) and opens the
// combined file (if combinedPath is non-empty).
func NewSink(renderer *Renderer, dir, combinedPath string, log zerolog.Logger) (*Sink, error) {
	s := &Sink{renderer: renderer, dir: dir, log: log}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	if combinedPath != "" {
		if parent := filepath.Dir(combinedPath); parent != "." {
			if err := os.MkdirAll(parent, 0755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		f, err := os.Create(combinedPath)
		if err != nil {
			return nil, fmt.Errorf("create combined pgn: %w", err)
		}
		s.combined = f
	}
	return s, nil
}

// WriteTheme renders one theme's finalized puzzles, in the order given, to
// the theme's file and the combined file. Render failures are logged,
// counted and skipped; only I/O failures are returned.
func (s *Sink) WriteTheme(theme string, puzzles []course.BandedPuzzle) (written, skipped int, err error) {
	artifacts := make([]Artifact, 0, len(puzzles))
	for _, bp := range puzzles {
		art, rerr := s.renderer.Render(bp)
		if rerr != nil {
			s.log.Warn().Err(rerr).Str("theme", theme).Msg("puzzle skipped")
			skipped++
			continue
		}
		artifacts = append(artifacts, art)
	}
	s.stats.Skipped += skipped
	if len(artifacts) == 0 {
		return 0, skipped, nil
	}

	if s.dir != "" {
		if err := s.writeThemeFile(theme, artifacts); err != nil {
			return 0, skipped, err
		}
	}
	if s.combined != nil {
		for _, art := range artifacts {
			if _, err := s.combined.WriteString(art.PGN + "\n\n"); err != nil {
				return 0, skipped, fmt.Errorf("write combined pgn: %w", err)
			}
		}
	}

	for _, art := range artifacts {
		if art.WhiteToMove {
			s.stats.WhiteToMove++
		} else {
			s.stats.BlackToMove++
		}
	}
	s.stats.Written += len(artifacts)
	return len(artifacts), skipped, nil
}

// writeThemeFile writes all artifacts to a temp file and renames it into
// place on success.
func (s *Sink) writeThemeFile(theme string, artifacts []Artifact) error {
	tmp, err := os.CreateTemp(s.dir, ".theme-*.pgn")
	if err != nil {
		return fmt.Errorf("create theme pgn: %w", err)
	}
	tmpName := tmp.Name()
	for _, art := range artifacts {
		if _, err := tmp.WriteString(art.PGN + "\n\n"); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("write theme pgn: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close theme pgn: %w", err)
	}

	final := filepath.Join(s.dir, themeFilename(theme))
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move theme pgn: %w", err)
	}
	return nil
}

// Stats returns the sink's counters.
func (s *Sink) Stats() Stats { return s.stats }

// Close flushes and closes the combined file, aggregating any failures.
func (s *Sink) Close() error {
	var err error
	if s.combined != nil {
		err = multierr.Append(err, s.combined.Sync())
		err = multierr.Append(err, s.combined.Close())
		s.combined = nil
	}
	return err
}
