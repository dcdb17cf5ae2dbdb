// Command generate streams a Lichess puzzle CSV, keeps the best puzzles per
// tactical theme inside a rating band, bands them by difficulty, and writes
// per-theme PGN course files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Michael2109/chessable-courses/internal/config"
	"github.com/Michael2109/chessable-courses/internal/course"
	"github.com/Michael2109/chessable-courses/internal/logx"
	"github.com/Michael2109/chessable-courses/internal/puzzle"
	"github.com/Michael2109/chessable-courses/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	var (
		csvPath     = flag.String("csv", cfg.CSVPath, "Path to lichess_db_puzzle.csv or .csv.zst")
		minRating   = flag.Int("min-rating", cfg.MinRating, "Minimum puzzle rating (inclusive)")
		maxRating   = flag.Int("max-rating", cfg.MaxRating, "Maximum puzzle rating (inclusive, 0 = unbounded)")
		perTheme    = flag.Int("per-theme", cfg.PerTheme, "Keep up to N puzzles per theme (0 = unbounded)")
		minPlays    = flag.Int("min-plays", cfg.MinPlays, "Minimum play count")
		minPopPct   = flag.Int("min-popularity-pct", cfg.MinPopularityPct, "Drop the bottom N percent of each theme by popularity rank")
		themes      = flag.String("themes", strings.Join(cfg.IncludeThemes, ","), "Comma-separated theme tags to include (empty = all)")
		outDir      = flag.String("out-dir", cfg.OutDir, "Directory for per-theme PGN files (empty = none)")
		outPGN      = flag.String("out-pgn", cfg.OutPGN, "Combined PGN path (empty = none)")
		eventPrefix = flag.String("event-prefix", cfg.EventPrefix, "Prefix for the PGN Event header")
		colorTag    = flag.String("opening-color", cfg.OpeningColorTag, "OpeningColor header: white, black or both")
		startAfter  = flag.Bool("start-after-first-move", cfg.StartAfterFirstMove, "Present positions after the opponent's first move")
		jitter      = flag.Float64("jitter", cfg.SelectionJitter, "Deterministic selection jitter (0 = off)")
		logLevel    = flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	)
	flag.Parse()

	cfg.CSVPath = *csvPath
	cfg.MinRating = *minRating
	cfg.MaxRating = *maxRating
	cfg.PerTheme = *perTheme
	cfg.MinPlays = *minPlays
	cfg.MinPopularityPct = *minPopPct
	cfg.IncludeThemes = splitThemes(*themes)
	cfg.OutDir = *outDir
	cfg.OutPGN = *outPGN
	cfg.EventPrefix = *eventPrefix
	cfg.OpeningColorTag = *colorTag
	cfg.StartAfterFirstMove = *startAfter
	cfg.SelectionJitter = *jitter
	cfg.LogLevel = *logLevel

	logger := logx.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Info().
		Str("csv", cfg.CSVPath).
		Int("min_rating", cfg.MinRating).
		Int("max_rating", cfg.MaxRating).
		Int("per_theme", cfg.PerTheme).
		Str("out_dir", cfg.OutDir).
		Str("out_pgn", cfg.OutPGN).
		Msg("starting course generation")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := puzzle.Open(cfg.CSVPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open puzzle source")
	}
	defer src.Close()

	renderer := &render.Renderer{
		StartAfterFirstMove: cfg.StartAfterFirstMove,
		EventPrefix:         cfg.EventPrefix,
		OpeningColorTag:     cfg.OpeningColorTag,
	}
	sink, err := render.NewSink(renderer, cfg.OutDir, cfg.OutPGN, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open output sink")
	}

	selector := course.NewSelector(cfg.PerTheme, cfg.SelectionJitter)
	pipeline := course.NewPipeline(cfg.Criteria(), selector, sink, logger)

	summary, err := pipeline.Run(ctx, src)
	if err != nil {
		sink.Close()
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("interrupted, partial output discarded")
			os.Exit(1)
		}
		logger.Fatal().Err(err).Msg("generation failed")
	}
	if err := sink.Close(); err != nil {
		logger.Fatal().Err(err).Msg("close output sink")
	}

	stats := sink.Stats()
	logger.Info().
		Int("total", summary.Total).
		Int("themes", summary.ThemeCount).
		Int("rating_min", summary.RatingMin).
		Int("rating_max", summary.RatingMax).
		Float64("rating_avg", summary.RatingAvg).
		Float64("rating_median", summary.RatingMedian).
		Float64("popularity_avg", summary.PopularityAvg).
		Int("white_to_move", stats.WhiteToMove).
		Int("black_to_move", stats.BlackToMove).
		Msg("selection summary")
	for _, ts := range summary.Themes {
		logger.Debug().
			Str("theme", ts.Theme).
			Int("count", ts.Count).
			Float64("rating_avg", ts.RatingAvg).
			Float64("pop_avg", ts.PopAvg).
			Msg("theme summary")
	}
	if cfg.OutDir != "" {
		logger.Info().Str("dir", cfg.OutDir).Msg("wrote per-theme PGNs")
	}
	if cfg.OutPGN != "" {
		logger.Info().Str("path", cfg.OutPGN).Int("games", stats.Written).Msg("wrote combined PGN")
	}
}

func splitThemes(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
