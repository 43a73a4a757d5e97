package compliance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sourcegen/internal/compliance"
)

// newSite serves the given path->body fixtures and returns the assessor
// domain (host:port) for it. Missing paths return 404.
func newSite(t *testing.T, pages map[string]string) (string, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return strings.TrimPrefix(server.URL, "http://"), &hits
}

func newAssessor() *compliance.Assessor {
	return compliance.New(compliance.Config{
		UserAgent:    "sourcegen-test/1.0",
		ProbeTimeout: 2 * time.Second,
		Scheme:       "http",
	})
}

func TestAssess_CompliantSite(t *testing.T) {
	domain, _ := newSite(t, map[string]string{
		"/robots.txt": "User-agent: *\nAllow: /\nCrawl-delay: 3\n",
		"/contact":    "<html><body>Contact us at news@example.com</body></html>",
		"/terms":      "<html><body>Use of this site is subject to applicable law.</body></html>",
	})

	a := newAssessor()
	assessment, err := a.Assess(context.Background(), domain)
	require.NoError(t, err)
	require.NotNil(t, assessment)

	assert.True(t, assessment.IsCompliant)
	assert.Empty(t, assessment.Violations)
	assert.True(t, assessment.RobotsTxtCompliant)
	assert.True(t, assessment.HasLegalContact)
	assert.True(t, assessment.TermsAllowScraping)
	assert.True(t, assessment.FairUseCompliant)
	assert.True(t, assessment.DataMinimizationCompliant)
	assert.InDelta(t, 3.0, assessment.CrawlDelaySeconds, 0.001)
	assert.Equal(t, domain, assessment.Domain)
	assert.False(t, assessment.AssessedAt.IsZero())
}

func TestAssess_RobotsDisallowAndNoContact(t *testing.T) {
	domain, _ := newSite(t, map[string]string{
		"/robots.txt": "User-agent: *\nDisallow: /news\n",
	})

	a := newAssessor()
	assessment, err := a.Assess(context.Background(), domain)
	require.NoError(t, err)

	assert.False(t, assessment.IsCompliant)
	require.Len(t, assessment.Violations, 2)
	assert.Contains(t, assessment.Violations[0], "robots.txt disallows")
	assert.Contains(t, assessment.Violations[1], "no discoverable legal contact")
	assert.Len(t, assessment.Recommendations, 2)

	// The terms check still passed; only the two failing checks report.
	assert.True(t, assessment.TermsAllowScraping)
	assert.False(t, assessment.RobotsTxtCompliant)
	assert.False(t, assessment.HasLegalContact)
}

func TestAssess_MissingRobotsIsPermissive(t *testing.T) {
	domain, _ := newSite(t, map[string]string{
		"/contact": "email: desk@example.org",
	})

	a := newAssessor()
	assessment, err := a.Assess(context.Background(), domain)
	require.NoError(t, err)

	assert.True(t, assessment.RobotsTxtCompliant)
	assert.Zero(t, assessment.CrawlDelaySeconds)
	assert.True(t, assessment.IsCompliant)
}

func TestAssess_TermsProhibition(t *testing.T) {
	domain, _ := newSite(t, map[string]string{
		"/robots.txt": "User-agent: *\nAllow: /\n",
		"/contact":    "contact page",
		"/terms":      "<p>Scraping is prohibited without written consent.</p>",
	})

	a := newAssessor()
	assessment, err := a.Assess(context.Background(), domain)
	require.NoError(t, err)

	assert.False(t, assessment.IsCompliant)
	assert.False(t, assessment.TermsAllowScraping)
	require.Len(t, assessment.Violations, 1)
	assert.Contains(t, assessment.Violations[0], "terms of service prohibit automated access")
}

func TestAssess_UnreachableSiteFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	domain := strings.TrimPrefix(server.URL, "http://")
	server.Close()

	a := newAssessor()
	assessment, err := a.Assess(context.Background(), domain)
	require.NoError(t, err, "network failures must not error")
	require.NotNil(t, assessment)

	assert.False(t, assessment.IsCompliant)
	assert.False(t, assessment.RobotsTxtCompliant)
	assert.False(t, assessment.HasLegalContact)
	// Unreachable terms pages do not count as a prohibition.
	assert.True(t, assessment.TermsAllowScraping)
	assert.Len(t, assessment.Violations, 2)
}

func TestAssess_CachesPerDomain(t *testing.T) {
	domain, hits := newSite(t, map[string]string{
		"/robots.txt": "User-agent: *\nAllow: /\n",
		"/contact":    "contact@example.com",
	})

	a := newAssessor()
	first, err := a.Assess(context.Background(), domain)
	require.NoError(t, err)
	fetched := hits.Load()
	require.Greater(t, fetched, int64(0))

	second, err := a.Assess(context.Background(), domain)
	require.NoError(t, err)
	assert.Equal(t, fetched, hits.Load(), "second assessment should be served from cache")
	assert.Same(t, first, second)

	a.ClearCache()
	_, err = a.Assess(context.Background(), domain)
	require.NoError(t, err)
	assert.Greater(t, hits.Load(), fetched, "cleared cache should re-probe")
}

func TestAssess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	domain, _ := newSite(t, map[string]string{"/robots.txt": "User-agent: *\n"})

	a := newAssessor()
	_, err := a.Assess(ctx, domain)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
