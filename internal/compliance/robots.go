// Package compliance decides whether a domain may be scraped and at what
// politeness level before any generation work runs. Checks fail closed on
// network errors; only a missing robots.txt is treated as permissive.
package compliance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// Robots cache and fetch bounds.
const (
	defaultRobotsTTL   = 24 * time.Hour
	robotsTxtPath      = "/robots.txt"
	maxRobotsBodyBytes = 512 * 1024
	statusSuccessLow   = 200
	statusSuccessHigh  = 300
)

// RobotsResult is the outcome of evaluating robots.txt for one URL.
type RobotsResult struct {
	// Allowed reports whether the checked path may be crawled.
	Allowed bool
	// Found is false when no robots.txt was served (non-2xx), which is
	// permissive by convention.
	Found bool
	// CrawlDelay is the declared Crawl-delay for our agent, 0 if unset.
	CrawlDelay time.Duration
}

// RobotsChecker fetches, parses and caches robots.txt per host.
// Successful lookups (including absence) are cached for the TTL; fetch
// errors are never cached so a transient failure retries next time.
type RobotsChecker struct {
	httpClient *http.Client
	userAgent  string
	cache      map[string]*robotsEntry
	mu         sync.RWMutex
	ttl        time.Duration
}

type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
	found     bool
}

// NewRobotsChecker creates a checker. A zero ttl selects the 24h default.
func NewRobotsChecker(httpClient *http.Client, userAgent string, ttl time.Duration) *RobotsChecker {
	if ttl <= 0 {
		ttl = defaultRobotsTTL
	}
	return &RobotsChecker{
		httpClient: httpClient,
		userAgent:  userAgent,
		cache:      make(map[string]*robotsEntry),
		ttl:        ttl,
	}
}

// Check evaluates whether rawURL's path is crawlable by our user agent
// under the host's robots.txt.
func (r *RobotsChecker) Check(ctx context.Context, rawURL string) (RobotsResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return RobotsResult{}, fmt.Errorf("robots: parse url: %w", err)
	}

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return RobotsResult{}, fmt.Errorf("robots: empty host in url %q", rawURL)
	}

	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}

	entry, err := r.getOrFetch(ctx, host, scheme)
	if err != nil {
		return RobotsResult{}, err
	}

	if !entry.found {
		return RobotsResult{Allowed: true}, nil
	}

	result := RobotsResult{
		Allowed: entry.data.TestAgent(parsed.Path, r.userAgent),
		Found:   true,
	}
	if group := entry.data.FindGroup(r.userAgent); group != nil {
		result.CrawlDelay = group.CrawlDelay
	}
	return result, nil
}

// ClearCache drops all cached robots entries.
func (r *RobotsChecker) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*robotsEntry)
}

func (r *RobotsChecker) getOrFetch(ctx context.Context, host, scheme string) (*robotsEntry, error) {
	r.mu.RLock()
	entry, ok := r.cache[host]
	r.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) <= r.ttl {
		return entry, nil
	}

	body, statusCode, err := r.fetch(ctx, host, scheme)
	if err != nil {
		return nil, err
	}

	entry = buildEntry(body, statusCode)
	r.mu.Lock()
	r.cache[host] = entry
	r.mu.Unlock()
	return entry, nil
}

func (r *RobotsChecker) fetch(ctx context.Context, host, scheme string) (body []byte, statusCode int, err error) {
	robotsURL := scheme + "://" + host + robotsTxtPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("robots: create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("robots: fetch %s: %w", robotsURL, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("robots: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// buildEntry parses a robots.txt response. Non-2xx means no robots.txt is
// in effect; an unparseable body is treated the same way.
func buildEntry(body []byte, statusCode int) *robotsEntry {
	if statusCode < statusSuccessLow || statusCode >= statusSuccessHigh {
		return &robotsEntry{fetchedAt: time.Now()}
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return &robotsEntry{fetchedAt: time.Now()}
	}
	return &robotsEntry{data: data, fetchedAt: time.Now(), found: true}
}
