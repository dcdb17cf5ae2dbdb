package puzzle_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/Michael2109/chessable-courses/internal/puzzle"
)

const header = "PuzzleId,FEN,Moves,Rating,RatingDeviation,Popularity,NbPlays,Themes,GameUrl,OpeningTags\n"

const sampleRow = "00sHx,q3k1nr/1pp1nQpp/3p4/1P2p3/4P3/B1PP1b2/B5PP/5K2 b k - 0 17,e8d7 a2e6 d7d8 f7f8,1760,80,83,72,mate mateIn2 middlegame short,https://lichess.org/yyznGmXs/black#34,\n"

func TestScanDecodesRecord(t *testing.T) {
	s, err := puzzle.NewScanner(strings.NewReader(header + sampleRow))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	if !s.Scan() {
		t.Fatalf("Scan returned false, err: %v", s.Err())
	}
	rec := s.Record()
	if rec.ID != "00sHx" {
		t.Errorf("ID = %q, want 00sHx", rec.ID)
	}
	if rec.Rating != 1760 || rec.RatingDeviation != 80 {
		t.Errorf("rating = %d/%d, want 1760/80", rec.Rating, rec.RatingDeviation)
	}
	if rec.Popularity != 83 || rec.PlayCount != 72 {
		t.Errorf("popularity/plays = %d/%d, want 83/72", rec.Popularity, rec.PlayCount)
	}
	if len(rec.Moves) != 4 || rec.Moves[0] != "e8d7" {
		t.Errorf("moves = %v", rec.Moves)
	}
	if len(rec.Themes) != 4 || rec.Themes[1] != "mateIn2" {
		t.Errorf("themes = %v", rec.Themes)
	}
	if len(rec.OpeningTags) != 0 {
		t.Errorf("opening tags = %v, want none", rec.OpeningTags)
	}
	if s.Scan() {
		t.Error("expected end of stream")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err = %v", err)
	}
}

func TestScanSkipsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"non-numeric rating", "id1,8/8/8/8/8/8/8/8 w - - 0 1,e2e4,abc,80,50,10,fork,,\n"},
		{"non-numeric popularity", "id2,8/8/8/8/8/8/8/8 w - - 0 1,e2e4,1500,80,x,10,fork,,\n"},
		{"non-numeric plays", "id3,8/8/8/8/8/8/8/8 w - - 0 1,e2e4,1500,80,50,x,fork,,\n"},
		{"negative rating", "id4,8/8/8/8/8/8/8/8 w - - 0 1,e2e4,-5,80,50,10,fork,,\n"},
		{"empty moves", "id5,8/8/8/8/8/8/8/8 w - - 0 1,,1500,80,50,10,fork,,\n"},
		{"empty themes", "id6,8/8/8/8/8/8/8/8 w - - 0 1,e2e4,1500,80,50,10,,,\n"},
		{"missing id", ",8/8/8/8/8/8/8/8 w - - 0 1,e2e4,1500,80,50,10,fork,,\n"},
		{"short row", "id7,8/8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := puzzle.NewScanner(strings.NewReader(header + tt.row + sampleRow))
			if err != nil {
				t.Fatalf("NewScanner: %v", err)
			}
			if !s.Scan() {
				t.Fatalf("Scan returned false, err: %v", s.Err())
			}
			if got := s.Record().ID; got != "00sHx" {
				t.Errorf("decoded ID %q, want the valid row only", got)
			}
			if s.Malformed() != 1 {
				t.Errorf("Malformed = %d, want 1", s.Malformed())
			}
		})
	}
}

func TestScanNormalizesPromotions(t *testing.T) {
	row := "id1,8/8/8/8/8/8/8/8 w - - 0 1,e7e8=Q a1A2,1500,80,50,10,promotion,,\n"
	s, err := puzzle.NewScanner(strings.NewReader(header + row))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	if !s.Scan() {
		t.Fatalf("Scan returned false, err: %v", s.Err())
	}
	moves := s.Record().Moves
	if moves[0] != "e7e8q" {
		t.Errorf("promotion move = %q, want e7e8q", moves[0])
	}
	if moves[1] != "a1a2" {
		t.Errorf("move = %q, want a1a2", moves[1])
	}
}

func TestHeaderValidation(t *testing.T) {
	if _, err := puzzle.NewScanner(strings.NewReader("PuzzleId,FEN,Moves\nid,fen,e2e4\n")); err == nil {
		t.Fatal("expected error for missing columns")
	}
	if _, err := puzzle.NewScanner(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestHeaderColumnOrderIndependent(t *testing.T) {
	reordered := "FEN,PuzzleId,Moves,Rating,RatingDeviation,Popularity,NbPlays,Themes,GameUrl,OpeningTags\n" +
		"8/8/8/8/8/8/8/8 w - - 0 1,xyz,e2e4,1500,80,50,10,fork,,\n"
	s, err := puzzle.NewScanner(strings.NewReader(reordered))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	if !s.Scan() {
		t.Fatalf("Scan returned false, err: %v", s.Err())
	}
	if s.Record().ID != "xyz" {
		t.Errorf("ID = %q, want xyz", s.Record().ID)
	}
}

func TestOpenPlainAndZst(t *testing.T) {
	dir := t.TempDir()
	content := header + sampleRow

	plain := filepath.Join(dir, "puzzles.csv")
	if err := os.WriteFile(plain, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	compressed := filepath.Join(dir, "puzzles.csv.zst")
	f, err := os.Create(compressed)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		t.Fatalf("create zstd encoder: %v", err)
	}
	if _, err := enc.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, compressed} {
		s, err := puzzle.Open(path)
		if err != nil {
			t.Fatalf("Open(%s): %v", path, err)
		}
		if !s.Scan() {
			t.Fatalf("Scan(%s) returned false, err: %v", path, s.Err())
		}
		if s.Record().ID != "00sHx" {
			t.Errorf("ID = %q, want 00sHx", s.Record().ID)
		}
		if err := s.Close(); err != nil {
			t.Errorf("Close(%s): %v", path, err)
		}
	}
}
