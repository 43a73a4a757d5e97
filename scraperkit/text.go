package scraperkit

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// CleanText collapses runs of whitespace into single spaces and trims the
// result. Scraped text nodes tend to carry the page's indentation.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text strips all markup from an HTML fragment and returns cleaned plain
// text with entities decoded.
func Text(fragment string) string {
	return CleanText(html.UnescapeString(strictPolicy.Sanitize(fragment)))
}

// Sanitize keeps user-generated-content safe markup and removes the rest.
// Use it when the stored body should remain HTML.
func Sanitize(fragment string) string {
	return ugcPolicy.Sanitize(fragment)
}

// Truncate hard-cuts a string to at most maxRunes runes.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}

// Summary shortens cleaned text to at most maxRunes runes, appending an
// ellipsis when anything was cut.
func Summary(s string, maxRunes int) string {
	s = CleanText(s)
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	cut := strings.TrimRight(string(runes[:maxRunes]), " ")
	return cut + "…"
}

// WordCount counts whitespace-separated words in cleaned text.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
