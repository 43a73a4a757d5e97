package scraperkit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultMaxBodyBytes caps how much of a page a generated scraper
	// reads. News articles fit comfortably under it.
	DefaultMaxBodyBytes = 4 * 1024 * 1024

	defaultFetchTimeout = 30 * time.Second
)

// NewClient returns the HTTP client generated scrapers use when the
// template does not configure its own.
func NewClient() *http.Client {
	return &http.Client{Timeout: defaultFetchTimeout}
}

// Fetch retrieves a page as UTF-8 text. Responses are decoded from the
// charset the server declares and truncated at maxBytes; pass 0 for the
// default cap. Non-2xx statuses are errors.
func Fetch(ctx context.Context, client *http.Client, pageURL, userAgent string, maxBytes int64) (string, error) {
	if client == nil {
		client = NewClient()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", pageURL, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageURL, err)
	}
	return string(body), nil
}
