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

func newRobotsServer(t *testing.T, robotsBody string, status int) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(robotsBody))
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func TestRobotsChecker_AgentSpecificRules(t *testing.T) {
	body := strings.Join([]string{
		"User-agent: *",
		"Allow: /",
		"",
		"User-agent: sourcegen-test",
		"Disallow: /news",
	}, "\n")
	server, _ := newRobotsServer(t, body, http.StatusOK)

	checker := compliance.NewRobotsChecker(server.Client(), "sourcegen-test/1.0", time.Hour)
	result, err := checker.Check(context.Background(), server.URL+"/news")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.False(t, result.Allowed, "agent-specific disallow should apply")

	result, err = checker.Check(context.Background(), server.URL+"/about")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRobotsChecker_CrawlDelay(t *testing.T) {
	server, _ := newRobotsServer(t, "User-agent: *\nCrawl-delay: 7\n", http.StatusOK)

	checker := compliance.NewRobotsChecker(server.Client(), "sourcegen-test/1.0", time.Hour)
	result, err := checker.Check(context.Background(), server.URL+"/news")
	require.NoError(t, err)

	assert.Equal(t, 7*time.Second, result.CrawlDelay)
}

func TestRobotsChecker_NotFoundIsPermissive(t *testing.T) {
	server, _ := newRobotsServer(t, "", http.StatusNotFound)

	checker := compliance.NewRobotsChecker(server.Client(), "sourcegen-test/1.0", time.Hour)
	result, err := checker.Check(context.Background(), server.URL+"/news")
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.True(t, result.Allowed)
	assert.Zero(t, result.CrawlDelay)
}

func TestRobotsChecker_CachesWithinTTL(t *testing.T) {
	server, hits := newRobotsServer(t, "User-agent: *\nAllow: /\n", http.StatusOK)

	checker := compliance.NewRobotsChecker(server.Client(), "sourcegen-test/1.0", time.Hour)
	_, err := checker.Check(context.Background(), server.URL+"/a")
	require.NoError(t, err)
	_, err = checker.Check(context.Background(), server.URL+"/b")
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load(), "second check should hit the cache")

	checker.ClearCache()
	_, err = checker.Check(context.Background(), server.URL+"/c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestRobotsChecker_FetchErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL + "/news"
	server.Close()

	checker := compliance.NewRobotsChecker(&http.Client{Timeout: time.Second}, "sourcegen-test/1.0", time.Hour)
	_, err := checker.Check(context.Background(), target)
	require.Error(t, err, "transport failures must surface, not degrade to allow")
}

func TestRobotsChecker_BadURL(t *testing.T) {
	checker := compliance.NewRobotsChecker(http.DefaultClient, "sourcegen-test/1.0", time.Hour)

	_, err := checker.Check(context.Background(), "not-a-url")
	require.Error(t, err, "URL without host should error")
}
