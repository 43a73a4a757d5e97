package scraperkit

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Extracted is the readability view of an article page.
type Extracted struct {
	Title   string
	Byline  string
	Text    string
	Excerpt string
}

// Content runs readability extraction over a full page. Generated
// scrapers fall back to it when their configured selectors come up empty,
// which keeps them useful after minor site redesigns.
func Content(pageHTML, pageURL string) (Extracted, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Extracted{}, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	article, err := readability.FromReader(strings.NewReader(pageHTML), u)
	if err != nil {
		return Extracted{}, fmt.Errorf("extracting %s: %w", pageURL, err)
	}

	return Extracted{
		Title:   CleanText(article.Title),
		Byline:  CleanText(article.Byline),
		Text:    CleanText(article.TextContent),
		Excerpt: CleanText(article.Excerpt),
	}, nil
}
