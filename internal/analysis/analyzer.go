// Package analysis classifies a site's platform, measures its rendering
// complexity and discovers the navigation, URL patterns and selectors that
// the template engine binds into generated scrapers.
package analysis

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/sourcegen/internal/browser"
	"github.com/jonesrussell/sourcegen/internal/cache"
	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
)

// Config holds the analyzer's dependencies and tunables.
type Config struct {
	// Loader supplies rendered pages. Required.
	Loader    browser.Loader
	UserAgent string
	CacheTTL  time.Duration
	CacheSize int
	Logger    logger.Logger
	// HTTPClient fetches feed candidates. Defaults to a 10s-timeout client.
	HTTPClient *http.Client
	// Scheme overrides the https default. Tests point it at plain-HTTP
	// fixture servers.
	Scheme string
}

// Analyzer derives a SiteStructure per domain. Analysis never fails the
// pipeline: any load or parse problem degrades to a conservative fallback
// structure that assumes a complex, JS-dependent site.
type Analyzer struct {
	loader     browser.Loader
	feedParser *gofeed.Parser
	httpClient *http.Client
	userAgent  string
	cache      *cache.TTL[*models.SiteStructure]
	log        logger.Logger
	scheme     string
}

// New creates an Analyzer from cfg, applying defaults for unset fields.
func New(cfg Config) *Analyzer {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Analyzer{
		loader:     cfg.Loader,
		feedParser: gofeed.NewParser(),
		httpClient: cfg.HTTPClient,
		userAgent:  cfg.UserAgent,
		cache:      cache.NewTTL[*models.SiteStructure](cfg.CacheTTL, cfg.CacheSize),
		log:        cfg.Logger,
		scheme:     cfg.Scheme,
	}
}

// Analyze loads the domain's homepage and derives its structure. The result
// is cached per domain. The returned structure is non-nil unless ctx was
// cancelled.
func (a *Analyzer) Analyze(ctx context.Context, domain string) (*models.SiteStructure, error) {
	domain = normalizeDomain(domain)

	if cached, ok := a.cache.Get(domain); ok {
		a.log.Debug("structure cache hit", logger.String("domain", domain))
		return cached, nil
	}

	structure := a.analyze(ctx, domain)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.cache.Set(domain, structure)
	a.log.Info("structure analyzed",
		logger.String("domain", domain),
		logger.String("cms", string(structure.CMSType)),
		logger.Float64("complexity", structure.ComplexityScore),
		logger.Bool("requires_headless", structure.RequiresHeadlessBrowser),
	)
	return structure, nil
}

// ClearCache drops cached structures.
func (a *Analyzer) ClearCache() {
	a.cache.Clear()
}

func (a *Analyzer) analyze(ctx context.Context, domain string) *models.SiteStructure {
	homeURL := a.scheme + "://" + domain + "/"

	page, err := a.loader.Load(ctx, homeURL)
	if err != nil {
		a.log.Warn("homepage load failed, using fallback structure",
			logger.String("domain", domain),
			logger.Error(err),
		)
		return fallbackStructure(domain)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		a.log.Warn("homepage parse failed, using fallback structure",
			logger.String("domain", domain),
			logger.Error(err),
		)
		return fallbackStructure(domain)
	}

	metrics := measureMetrics(doc)
	score := complexityScore(metrics)

	base, baseErr := url.Parse(page.FinalURL)
	if baseErr != nil {
		base, _ = url.Parse(homeURL)
	}

	listURL, patterns := a.findArticleListing(ctx, domain)

	return &models.SiteStructure{
		Domain:                  domain,
		CMSType:                 detectCMS(doc, page.HTML),
		ComplexityScore:         score,
		RequiresHeadlessBrowser: requiresHeadless(metrics, score),
		NavigationLinks:         collectNavigation(doc, base),
		ArticleListURL:          listURL,
		ArticlePatterns:         patterns,
		FeedURLs:                a.discoverFeeds(ctx, doc, base, domain),
		DetectedSelectors:       discoverSelectors(doc),
		Metrics:                 metrics,
		AnalyzedAt:              time.Now().UTC(),
	}
}

// fallbackStructure is the conservative answer when a site cannot be
// analyzed: unknown platform, middling complexity, headless required.
func fallbackStructure(domain string) *models.SiteStructure {
	return &models.SiteStructure{
		Domain:                  domain,
		CMSType:                 models.CMSUnknown,
		ComplexityScore:         fallbackComplexityScore,
		RequiresHeadlessBrowser: true,
		AnalyzedAt:              time.Now().UTC(),
	}
}

// normalizeDomain strips scheme, path and whitespace from a domain argument.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}
