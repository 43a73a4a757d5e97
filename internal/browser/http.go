package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// maxPageBodyBytes caps how much of a page the HTTP loader reads.
const maxPageBodyBytes = 4 * 1024 * 1024

// HTTPLoader fetches pages with a plain HTTP client. JavaScript never runs,
// so SPA-heavy sites come back structurally thin; the analyzer accounts for
// that with its conservative fallback.
type HTTPLoader struct {
	client    *http.Client
	userAgent string
}

// NewHTTPLoader creates the fallback loader. A nil client gets a 10s-timeout
// default.
func NewHTTPLoader(client *http.Client, userAgent string) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPLoader{client: client, userAgent: userAgent}
}

// Load fetches pageURL and decodes the body to UTF-8 based on the declared
// or sniffed charset.
func (l *HTTPLoader) Load(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("browser: create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browser: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < statusSuccessLow || resp.StatusCode >= statusSuccessHigh {
		return nil, fmt.Errorf("browser: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxPageBodyBytes)
	decoded, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("browser: charset detect %s: %w", pageURL, err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("browser: read body %s: %w", pageURL, err)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{URL: pageURL, FinalURL: finalURL, HTML: string(body)}, nil
}

// Close is a no-op; the loader holds no persistent resources.
func (l *HTTPLoader) Close() error {
	return nil
}

// Success status bounds shared by the loaders.
const (
	statusSuccessLow  = 200
	statusSuccessHigh = 300
)
