// Package render turns banded puzzles into portable PGN game artifacts.
// Move legality and algebraic notation are delegated to the notnil/chess
// rules engine; this package never inspects board state itself.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"github.com/Michael2109/chessable-courses/internal/course"
)

// RenderError reports a puzzle whose solution could not be replayed legally
// from its position. Per-record and recoverable: the record is skipped and
// counted, never fatal to the run.
type RenderError struct {
	PuzzleID string
	Move     string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Move != "" {
		return fmt.Sprintf("render puzzle %s: move %s: %v", e.PuzzleID, e.Move, e.Err)
	}
	return fmt.Sprintf("render puzzle %s: %v", e.PuzzleID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Artifact is one rendered game record.
type Artifact struct {
	Theme       string
	Label       string // "Theme Name (Band)"
	PGN         string
	WhiteToMove bool // side to move in the presented position
}

// Renderer converts finalized puzzles into PGN games.
type Renderer struct {
	// StartAfterFirstMove applies the first move of the solution (the
	// opponent's reply per the Lichess convention) before presenting, so the
	// solver is the side to move.
	StartAfterFirstMove bool

	// EventPrefix is prepended to the Event header, e.g. a course title.
	EventPrefix string

	// OpeningColorTag optionally adds an OpeningColor header
	// (white/black/both) hinting course orientation to import platforms.
	OpeningColorTag string
}

// Render replays the solution from the puzzle's position and produces one
// PGN artifact labeled with theme and band.
func (r *Renderer) Render(bp course.BandedPuzzle) (Artifact, error) {
	rec := bp.Rec

	fenOpt, err := chess.FEN(rec.FEN)
	if err != nil {
		return Artifact{}, &RenderError{PuzzleID: rec.ID, Err: fmt.Errorf("invalid position: %w", err)}
	}
	setup := chess.NewGame(fenOpt)

	moves := rec.Moves
	if r.StartAfterFirstMove && len(moves) > 0 {
		if err := applyUCI(setup, moves[0]); err != nil {
			return Artifact{}, &RenderError{PuzzleID: rec.ID, Move: moves[0], Err: err}
		}
		moves = moves[1:]
	}
	if len(moves) == 0 {
		return Artifact{}, &RenderError{PuzzleID: rec.ID, Err: fmt.Errorf("no moves to present")}
	}

	presentedFEN := setup.Position().String()
	presentedOpt, err := chess.FEN(presentedFEN)
	if err != nil {
		return Artifact{}, &RenderError{PuzzleID: rec.ID, Err: fmt.Errorf("invalid position: %w", err)}
	}
	game := chess.NewGame(presentedOpt)
	whiteToMove := game.Position().Turn() == chess.White

	for _, uci := range moves {
		if err := applyUCI(game, uci); err != nil {
			return Artifact{}, &RenderError{PuzzleID: rec.ID, Move: uci, Err: err}
		}
	}

	label := fmt.Sprintf("%s (%s)", displayName(bp.Theme), bp.Band)
	event := label
	if r.EventPrefix != "" {
		event = r.EventPrefix + " " + label
	}

	game.AddTagPair("Event", event)
	// Neutral site; URLs like .../black# would leak orientation hints.
	game.AddTagPair("Site", "https://lichess.org")
	game.AddTagPair("Round", strconv.Itoa(bp.Rank))
	// The solver is always "You", named by the side to move.
	if whiteToMove {
		game.AddTagPair("White", "You")
		game.AddTagPair("Black", "Opponent")
	} else {
		game.AddTagPair("White", "Opponent")
		game.AddTagPair("Black", "You")
	}
	game.AddTagPair("Result", game.Outcome().String())
	game.AddTagPair("SetUp", "1")
	game.AddTagPair("FEN", presentedFEN)
	game.AddTagPair("PuzzleId", rec.ID)
	game.AddTagPair("Themes", strings.Join(rec.Themes, " "))
	if rec.GameURL != "" {
		game.AddTagPair("LichessURL", rec.GameURL)
	}
	switch r.OpeningColorTag {
	case "white", "black", "both":
		game.AddTagPair("OpeningColor", r.OpeningColorTag)
	}

	return Artifact{
		Theme:       bp.Theme,
		Label:       label,
		PGN:         game.String(),
		WhiteToMove: whiteToMove,
	}, nil
}

// applyUCI decodes a coordinate move against the current position and plays
// it, surfacing the engine's legality verdict.
func applyUCI(game *chess.Game, uci string) error {
	move, err := chess.UCINotation{}.Decode(game.Position(), uci)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := game.Move(move); err != nil {
		return fmt.Errorf("illegal: %w", err)
	}
	return nil
}

func displayName(theme string) string {
	if friendly := HumanizeTheme(theme); friendly != "" {
		return friendly
	}
	return theme
}

