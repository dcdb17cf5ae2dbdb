package puzzle

import (
	"fmt"
	"strconv"
	"strings"
)

// Required CSV columns, in the order published by Lichess. Extra columns are
// tolerated; order is not assumed beyond header lookup.
var requiredColumns = []string{
	"PuzzleId",
	"FEN",
	"Moves",
	"Rating",
	"RatingDeviation",
	"Popularity",
	"NbPlays",
	"Themes",
	"GameUrl",
	"OpeningTags",
}

// DecodeError reports a malformed row. It is per-record and recoverable:
// callers count it and continue the stream.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode puzzle: field %s: %s", e.Field, e.Reason)
}

// columnIndex maps required column names to their positions in the header.
type columnIndex map[string]int

// indexColumns validates the header and returns a column lookup.
func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}
	idx := make(columnIndex, len(requiredColumns))
	var missing []string
	for _, name := range requiredColumns {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// decodeRow turns one CSV row into a Record. It is a pure function of the
// row; any malformed field yields a *DecodeError.
func decodeRow(row []string, idx columnIndex) (Record, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[idx[name]])
	}
	for _, name := range requiredColumns {
		if idx[name] >= len(row) {
			return Record{}, &DecodeError{Field: name, Reason: "missing"}
		}
	}

	rating, err := strconv.Atoi(field("Rating"))
	if err != nil {
		return Record{}, &DecodeError{Field: "Rating", Reason: "not numeric"}
	}
	if rating < 0 {
		return Record{}, &DecodeError{Field: "Rating", Reason: "negative"}
	}
	deviation, err := strconv.Atoi(field("RatingDeviation"))
	if err != nil {
		return Record{}, &DecodeError{Field: "RatingDeviation", Reason: "not numeric"}
	}
	popularity, err := strconv.Atoi(field("Popularity"))
	if err != nil {
		return Record{}, &DecodeError{Field: "Popularity", Reason: "not numeric"}
	}
	plays, err := strconv.Atoi(field("NbPlays"))
	if err != nil {
		return Record{}, &DecodeError{Field: "NbPlays", Reason: "not numeric"}
	}
	if plays < 0 {
		return Record{}, &DecodeError{Field: "NbPlays", Reason: "negative"}
	}

	moves := splitTokens(field("Moves"))
	for i, m := range moves {
		moves[i] = normalizeUCI(m)
	}
	if len(moves) == 0 {
		return Record{}, &DecodeError{Field: "Moves", Reason: "empty move list"}
	}
	themes := splitTokens(field("Themes"))
	if len(themes) == 0 {
		return Record{}, &DecodeError{Field: "Themes", Reason: "empty theme set"}
	}
	id := field("PuzzleId")
	if id == "" {
		return Record{}, &DecodeError{Field: "PuzzleId", Reason: "missing"}
	}
	fen := field("FEN")
	if fen == "" {
		return Record{}, &DecodeError{Field: "FEN", Reason: "missing"}
	}

	return Record{
		ID:              id,
		FEN:             fen,
		Moves:           moves,
		Rating:          rating,
		RatingDeviation: deviation,
		Popularity:      popularity,
		PlayCount:       plays,
		Themes:          themes,
		GameURL:         field("GameUrl"),
		OpeningTags:     splitTokens(field("OpeningTags")),
	}, nil
}

// splitTokens splits a space-separated field, dropping empty tokens.
func splitTokens(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// normalizeUCI lowercases coordinate moves and folds promotion forms like
// e7e8=Q into e7e8q.
func normalizeUCI(token string) string {
	t := strings.TrimSpace(token)
	if t == "" {
		return t
	}
	if len(t) == 6 && t[4] == '=' {
		return strings.ToLower(t[:4] + t[5:])
	}
	return strings.ToLower(t)
}
