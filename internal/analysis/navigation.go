package analysis

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/sourcegen/internal/logger"
)

// Navigation and listing discovery bounds.
const (
	maxNavigationLinks = 25
	maxFeedBodyBytes   = 2 * 1024 * 1024
)

// listingPaths are probed in order for an article listing page.
var listingPaths = []string{"/news", "/articles", "/blog", "/stories"}

// articleHrefPatterns identify article links by href substring.
var articleHrefPatterns = []string{"/news/", "/article/", "/story/"}

// datePathPattern matches date-based article paths like /2025/03/.
var datePathPattern = regexp.MustCompile(`/20\d{2}/\d{1,2}/`)

// feedProbePaths are checked for syndication feeds after the document's own
// feed hints.
var feedProbePaths = []string{"/feed", "/rss", "/rss.xml", "/atom.xml"}

// maxFeeds bounds how many validated feeds are recorded.
const maxFeeds = 3

// collectNavigation gathers absolute navigation URLs from nav and header
// anchors, deduplicated and capped.
func collectNavigation(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := make(map[string]struct{})

	doc.Find("nav a[href], header a[href]").Each(func(_ int, s *goquery.Selection) {
		if len(links) >= maxNavigationLinks {
			return
		}
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		abs := absolutize(base, href)
		if abs == "" {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	return links
}

// findArticleListing probes the candidate listing paths and returns the
// first one carrying more than articleListLinkThreshold article links,
// together with the href patterns that matched there.
func (a *Analyzer) findArticleListing(ctx context.Context, domain string) (string, []string) {
	for _, path := range listingPaths {
		listURL := a.scheme + "://" + domain + path

		page, err := a.loader.Load(ctx, listURL)
		if err != nil {
			a.log.Debug("listing probe failed",
				logger.String("url", listURL),
				logger.Error(err),
			)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if err != nil {
			continue
		}

		count, patterns := matchArticleLinks(doc)
		if count > articleListLinkThreshold {
			return listURL, patterns
		}
	}
	return "", nil
}

// matchArticleLinks counts anchors that look like article links and returns
// the patterns that identified them, in table order.
func matchArticleLinks(doc *goquery.Document) (int, []string) {
	count := 0
	matchedPatterns := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		matched := false
		for _, pattern := range articleHrefPatterns {
			if strings.Contains(href, pattern) {
				matchedPatterns[pattern] = struct{}{}
				matched = true
			}
		}
		if datePathPattern.MatchString(href) {
			matchedPatterns[datePathPattern.String()] = struct{}{}
			matched = true
		}
		if matched {
			count++
		}
	})

	var patterns []string
	for _, pattern := range articleHrefPatterns {
		if _, ok := matchedPatterns[pattern]; ok {
			patterns = append(patterns, pattern)
		}
	}
	if _, ok := matchedPatterns[datePathPattern.String()]; ok {
		patterns = append(patterns, datePathPattern.String())
	}
	return count, patterns
}

// discoverFeeds validates syndication feeds: first the document's own
// alternate links, then the well-known probe paths.
func (a *Analyzer) discoverFeeds(ctx context.Context, doc *goquery.Document, base *url.URL, domain string) []string {
	var candidates []string

	doc.Find("link[rel='alternate']").Each(func(_ int, s *goquery.Selection) {
		feedType, _ := s.Attr("type")
		if !strings.Contains(feedType, "rss") && !strings.Contains(feedType, "atom") {
			return
		}
		if href, ok := s.Attr("href"); ok {
			if abs := absolutize(base, href); abs != "" {
				candidates = append(candidates, abs)
			}
		}
	})
	for _, path := range feedProbePaths {
		candidates = append(candidates, a.scheme+"://"+domain+path)
	}

	var feeds []string
	seen := make(map[string]struct{})
	for _, candidate := range candidates {
		if len(feeds) >= maxFeeds {
			break
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		if a.validFeed(ctx, candidate) {
			feeds = append(feeds, candidate)
		}
	}
	return feeds
}

// validFeed fetches a candidate URL and checks it parses as RSS or Atom.
func (a *Analyzer) validFeed(ctx context.Context, feedURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return false
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	_, err = a.feedParser.Parse(io.LimitReader(resp.Body, maxFeedBodyBytes))
	return err == nil
}

// absolutize resolves href against base and returns an absolute http(s)
// URL, or empty when href is unusable (fragments, javascript:, mailto:).
func absolutize(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	var abs *url.URL
	if base != nil {
		abs = base.ResolveReference(ref)
	} else {
		abs = ref
	}

	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}
