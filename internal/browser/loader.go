// Package browser loads rendered pages for structure analysis. The rod
// loader drives a headless Chrome with stealth patches; the HTTP loader is
// the no-JavaScript fallback used by tests and the --no-browser mode.
package browser

import "context"

// Page is a loaded document.
type Page struct {
	// URL is the address that was requested.
	URL string
	// FinalURL is the address after redirects.
	FinalURL string
	// HTML is the serialized document, post-render for browser loaders.
	HTML string
}

// Loader fetches fully rendered pages. Implementations must release any
// per-load resources on every path, including context cancellation.
type Loader interface {
	Load(ctx context.Context, pageURL string) (*Page, error)
	Close() error
}
