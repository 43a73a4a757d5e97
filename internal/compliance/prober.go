package compliance

import (
	"context"
	"fmt"
	"time"

	colly "github.com/gocolly/colly/v2"
)

// Probe fetch bounds.
const (
	defaultProbeTimeout = 10 * time.Second
	maxProbeBodyBytes   = 1024 * 1024
)

// pageProber fetches single pages for the contact and terms checks. Each
// fetch uses a fresh synchronous collector so response state never leaks
// between probes.
type pageProber struct {
	userAgent string
	timeout   time.Duration
}

func newPageProber(userAgent string, timeout time.Duration) *pageProber {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &pageProber{userAgent: userAgent, timeout: timeout}
}

// fetch returns the status code and body for pageURL. Non-2xx responses are
// returned as data, not errors; only transport failures error.
func (p *pageProber) fetch(ctx context.Context, pageURL string) (int, string, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(p.userAgent),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(maxProbeBodyBytes),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(p.timeout)

	var (
		status int
		body   string
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = string(r.Body)
	})

	if err := c.Visit(pageURL); err != nil {
		return 0, "", fmt.Errorf("probe %s: %w", pageURL, err)
	}
	if status == 0 {
		return 0, "", fmt.Errorf("probe %s: no response", pageURL)
	}
	return status, body, nil
}
