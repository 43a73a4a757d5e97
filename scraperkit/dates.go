// Package scraperkit carries the runtime helpers shared by generated
// scrapers: date parsing, text cleanup, content extraction, URL handling
// and polite fetching. Generated code links against this package so the
// templates stay small and fixes land in one place.
package scraperkit

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts are tried in order before falling back to permissive
// parsing. News sites mostly stick to a handful of formats, so the fast
// path covers the common cases without dateparse's ambiguity rules.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"01/02/2006",
}

// ParseDate interprets a published-date string scraped from a page. The
// bool reports whether the input was recognized.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseDateOr parses raw and falls back to the given time when the input
// is empty or unrecognizable.
func ParseDateOr(raw string, fallback time.Time) time.Time {
	if t, ok := ParseDate(raw); ok {
		return t
	}
	return fallback
}
