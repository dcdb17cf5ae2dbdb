package course

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Michael2109/chessable-courses/internal/puzzle"
)

// Source is a stream of decoded puzzle records. *puzzle.Scanner satisfies it.
type Source interface {
	Scan() bool
	Record() puzzle.Record
	Err() error
	Malformed() int64
}

// ArtifactWriter receives one theme's finalized puzzles in output order.
// Implementations must treat per-record render failures as skips, returning
// an error only for fatal sink problems.
type ArtifactWriter interface {
	WriteTheme(theme string, puzzles []BandedPuzzle) (written, skipped int, err error)
}

// Counters aggregates the per-record outcomes of one run. Per-record errors
// never escape the pipeline; they end up here.
type Counters struct {
	Decoded       int64
	Malformed     int64
	FilteredOut   int64
	Offered       int64
	Selected      int64
	Rendered      int64
	RenderSkipped int64
}

// Pipeline is one run of the streaming selection and banding engine. All
// mutable state (the theme collections, the counters) is owned here; nothing
// persists between runs.
type Pipeline struct {
	criteria Criteria
	selector *Selector
	writer   ArtifactWriter
	log      zerolog.Logger

	counters Counters
}

// NewPipeline builds a run. criteria must already be validated.
func NewPipeline(criteria Criteria, selector *Selector, writer ArtifactWriter, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		criteria: criteria,
		selector: selector,
		writer:   writer,
		log:      log,
	}
}

// Counters returns the run's counters. Valid after Run returns.
func (p *Pipeline) Counters() Counters { return p.counters }

// Run consumes the source to exhaustion, then finalizes and writes each
// theme. Finalization happens only after a clean end of stream: a source
// read error or cancellation aborts before any theme is emitted, so partial
// state is never written as if complete.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Summary, error) {
	startTime := time.Now()
	lastLog := startTime

	for src.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec := src.Record()
		p.counters.Decoded++

		if !p.criteria.Matches(rec) {
			p.counters.FilteredOut++
			continue
		}
		// Fan-out: the record is offered to every matching theme
		// independently.
		for _, theme := range rec.Themes {
			if !p.criteria.themeIncluded(theme) {
				continue
			}
			p.counters.Offered++
			if p.selector.Offer(theme, rec) {
				p.counters.Selected++
			}
		}

		if time.Since(lastLog) > 10*time.Second {
			elapsed := time.Since(startTime)
			p.log.Info().
				Int64("records", p.counters.Decoded).
				Int64("skipped", src.Malformed()).
				Int64("offered", p.counters.Offered).
				Float64("records_per_sec", float64(p.counters.Decoded)/elapsed.Seconds()).
				Msg("selection progress")
			lastLog = time.Now()
		}
	}
	p.counters.Malformed = src.Malformed()
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("source stream: %w", err)
	}

	summary := newSummary()
	for _, theme := range p.selector.Themes() {
		banded := Finalize(theme, p.selector.Retained(theme), p.criteria.MinPopularityPct)
		if len(banded) == 0 {
			continue
		}
		written, skipped, err := p.writer.WriteTheme(theme, banded)
		p.counters.Rendered += int64(written)
		p.counters.RenderSkipped += int64(skipped)
		if err != nil {
			return nil, fmt.Errorf("write theme %s: %w", theme, err)
		}
		summary.addTheme(theme, banded)
		p.log.Debug().
			Str("theme", theme).
			Int("written", written).
			Int("skipped", skipped).
			Msg("theme finalized")
	}
	summary.finish()

	p.log.Info().
		Int64("records", p.counters.Decoded).
		Int64("malformed", p.counters.Malformed).
		Int64("filtered_out", p.counters.FilteredOut).
		Int64("rendered", p.counters.Rendered).
		Int64("render_skipped", p.counters.RenderSkipped).
		Dur("elapsed", time.Since(startTime)).
		Msg("run complete")

	return summary, nil
}
