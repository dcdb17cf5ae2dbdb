package render

import (
	"regexp"
	"strings"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z0-9])`)
	unsafeChars   = regexp.MustCompile(`[^\w\- ]+`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// HumanizeTheme turns a theme tag like "backRankMate" or "mateIn2" into a
// display name like "Back Rank Mate" / "Mate In 2".
func HumanizeTheme(name string) string {
	if name == "" {
		return ""
	}
	spaced := camelBoundary.ReplaceAllString(name, "$1 $2")
	spaced = strings.ReplaceAll(spaced, "_", " ")
	words := strings.Fields(spaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// themeFilename derives a safe .pgn filename from a theme tag.
func themeFilename(theme string) string {
	friendly := HumanizeTheme(theme)
	if friendly == "" {
		friendly = theme
	}
	safe := unsafeChars.ReplaceAllString(friendly, "_")
	safe = multiSpace.ReplaceAllString(strings.TrimSpace(safe), " ")
	return safe + ".pgn"
}
