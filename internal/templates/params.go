package templates

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// KitImport is the helper package every generated scraper links against.
const KitImport = "github.com/jonesrussell/sourcegen/scraperkit"

// contactURL identifies the scraper operator in generated user agents.
const contactURL = "https://github.com/jonesrussell/sourcegen"

const (
	// Listing path used when analysis found no article listing.
	defaultListPath = "/news"

	// Crawl delays below this are raised before binding; complex sites
	// get one extra second on top.
	minCrawlDelaySeconds   = 2
	complexityDelayCutoff  = 0.7
	complexityDelayPadding = 1
)

// defaultArticlePatterns filter candidate links when analysis detected no
// site-specific patterns.
var defaultArticlePatterns = []string{"/news/", "/article/", "/story/"}

// familyDefaults are the per-platform selector fallbacks bound when
// analysis did not detect a selector for a role.
type familyDefaults struct {
	link    string
	title   string
	content string
	date    string
	author  string
}

var selectorDefaults = map[models.CMSType]familyDefaults{
	models.CMSWordPress: {
		link:    "h2.entry-title a",
		title:   "h1.entry-title",
		content: ".entry-content",
		date:    "time[datetime]",
		author:  ".author-name",
	},
	models.CMSDrupal: {
		link:    ".node__title a",
		title:   "h1.page-title",
		content: ".node__content",
		date:    "time[datetime]",
		author:  ".field--name-uid",
	},
	models.CMSJoomla: {
		link:    ".item-title a",
		title:   ".page-header h1",
		content: ".item-page",
		date:    "time[datetime]",
		author:  ".created-by",
	},
	models.CMSGhost: {
		link:    ".post-card a.post-card-content-link",
		title:   "h1.article-title",
		content: ".gh-content",
		date:    "time[datetime]",
		author:  ".author-name",
	},
	models.CMSHubSpot: {
		link:    ".blog-post-card a",
		title:   "h1.blog-post__title",
		content: ".blog-post__body",
		date:    ".blog-post__timestamp",
		author:  ".blog-post__author",
	},
	models.CMSSquarespace: {
		link:    ".blog-item-title a",
		title:   "h1.entry-title",
		content: ".sqs-block-html",
		date:    "time.blog-date",
		author:  ".blog-author",
	},
	models.CMSWebflow: {
		link:    ".w-dyn-item a",
		title:   "h1.article-heading",
		content: ".w-richtext",
		date:    ".article-date",
		author:  ".article-author",
	},
	models.CMSCustomMedical: {
		link:    ".medical-news a",
		title:   "h1.article-title",
		content: ".article-body",
		date:    ".published-date",
		author:  ".reviewed-by",
	},
	models.CMSNewsSite: {
		link:    ".news-item a",
		title:   "h1.headline",
		content: ".story-body",
		date:    ".timestamp",
		author:  ".byline",
	},
	models.CMSGenericArticle: {
		link:    "article a",
		title:   "h1",
		content: "article",
		date:    "time[datetime]",
		author:  ".byline",
	},
	models.CMSGeneric: {
		link:    "a",
		title:   "h1",
		content: "main",
		date:    "time",
		author:  ".author",
	},
}

func defaultsFor(cms models.CMSType) familyDefaults {
	if d, ok := selectorDefaults[cms]; ok {
		return d
	}
	return selectorDefaults[models.CMSGeneric]
}

// bindParams resolves everything a template needs for one domain: detected
// selectors with family fallbacks, listing URL, link patterns and the
// politeness settings.
func bindParams(family models.CMSType, domain string, structure *models.SiteStructure, opts models.Options) models.TemplateParams {
	opts = opts.WithDefaults()
	defaults := defaultsFor(family)

	listURL := ""
	patterns := defaultArticlePatterns
	headless := false
	score := 0.0
	if structure != nil {
		listURL = structure.ArticleListURL
		if p := literalPatterns(structure.ArticlePatterns); len(p) > 0 {
			patterns = p
		}
		headless = structure.RequiresHeadlessBrowser
		score = structure.ComplexityScore
	}
	if listURL == "" {
		listURL = "https://" + domain + defaultListPath
	}

	pkg := packageName(domain)

	return models.TemplateParams{
		Domain:            domain,
		PackageName:       pkg,
		ListURL:           listURL,
		ArticlePatterns:   patterns,
		TitleSelector:     structure.PrimarySelector(models.RoleTitle, defaults.title),
		ContentSelector:   structure.PrimarySelector(models.RoleContent, defaults.content),
		DateSelector:      structure.PrimarySelector(models.RoleDate, defaults.date),
		AuthorSelector:    structure.PrimarySelector(models.RoleAuthor, defaults.author),
		LinkSelector:      structure.PrimarySelector(models.RoleArticleLink, defaults.link),
		CrawlDelaySeconds: crawlDelay(opts.CrawlDelaySeconds, score),
		MaxArticles:       opts.MaxArticles,
		Language:          opts.Language,
		Country:           opts.Country,
		UserAgent:         fmt.Sprintf("%s-scraper/1.0 (+%s; non-commercial research)", pkg, contactURL),
		RequiresHeadless:  headless,
		KitImport:         KitImport,
	}
}

// literalPatterns keeps only plain path fragments. Analysis also reports
// a regexp for dated paths; the templates compile their own copy of it,
// so regexp-shaped entries are not bound as substrings.
func literalPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if !strings.Contains(p, `\`) {
			out = append(out, p)
		}
	}
	return out
}

// crawlDelay enforces the politeness floor and pads the delay for sites
// complex enough to need a browser.
func crawlDelay(requested int, score float64) int {
	delay := requested
	if delay < minCrawlDelaySeconds {
		delay = minCrawlDelaySeconds
	}
	if score > complexityDelayCutoff {
		delay += complexityDelayPadding
	}
	return delay
}

// packageName turns a domain into a Go identifier usable as the generated
// command name.
func packageName(domain string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(domain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "scraper"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "site_" + name
	}
	return name
}
