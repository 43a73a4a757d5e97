package models

import "time"

// CMSType identifies the platform family a site was classified as.
type CMSType string

// Platform families, ordered roughly from most to least specific. Detection
// walks signature tables in this order and the first match wins.
const (
	CMSWordPress      CMSType = "wordpress"
	CMSDrupal         CMSType = "drupal"
	CMSJoomla         CMSType = "joomla"
	CMSGhost          CMSType = "ghost"
	CMSHubSpot        CMSType = "hubspot"
	CMSSquarespace    CMSType = "squarespace"
	CMSWebflow        CMSType = "webflow"
	CMSCustomMedical  CMSType = "custom_medical"
	CMSNewsSite       CMSType = "news_site"
	CMSGenericArticle CMSType = "generic_article"
	CMSGeneric        CMSType = "generic"
	CMSUnknown        CMSType = "unknown"
)

// TemplateFamilies lists every family that has a template, in detection
// order. CMSUnknown is absent: unknown sites render through a generic
// fallback.
var TemplateFamilies = []CMSType{
	CMSWordPress,
	CMSDrupal,
	CMSJoomla,
	CMSGhost,
	CMSHubSpot,
	CMSSquarespace,
	CMSWebflow,
	CMSCustomMedical,
	CMSNewsSite,
	CMSGenericArticle,
	CMSGeneric,
}

// Selector roles recorded by structure analysis. Each role maps to an
// ordered list of selector candidates that matched the live page.
const (
	RoleArticleLink = "article_link"
	RoleTitle       = "title"
	RoleContent     = "content"
	RoleDate        = "date"
	RoleAuthor      = "author"
)

// PageMetrics holds the raw counters measured on the rendered homepage.
type PageMetrics struct {
	ScriptTags          int `json:"script_tags"`
	DynamicIndicators   int `json:"dynamic_indicators"`
	MaxDOMDepth         int `json:"max_dom_depth"`
	TotalElements       int `json:"total_elements"`
	InteractiveElements int `json:"interactive_elements"`
	FrameworkMarkers    int `json:"framework_markers"`
	SPARoots            int `json:"spa_roots"`
}

// SiteStructure is the result of analyzing a domain's homepage and listing
// pages: platform classification, rendering complexity, and the navigation,
// pattern and selector hints the template engine binds into generated code.
type SiteStructure struct {
	Domain                  string              `json:"domain"`
	CMSType                 CMSType             `json:"cms_type"`
	ComplexityScore         float64             `json:"complexity_score"`
	RequiresHeadlessBrowser bool                `json:"requires_headless_browser"`
	NavigationLinks         []string            `json:"navigation_links,omitempty"`
	ArticleListURL          string              `json:"article_list_url,omitempty"`
	ArticlePatterns         []string            `json:"article_patterns,omitempty"`
	FeedURLs                []string            `json:"feed_urls,omitempty"`
	DetectedSelectors       map[string][]string `json:"detected_selectors,omitempty"`
	Metrics                 PageMetrics         `json:"metrics"`
	AnalyzedAt              time.Time           `json:"analyzed_at"`
}

// PrimarySelector returns the first detected selector for a role, or the
// given fallback when the role has no detected candidates.
func (s *SiteStructure) PrimarySelector(role, fallback string) string {
	if s == nil {
		return fallback
	}
	if candidates := s.DetectedSelectors[role]; len(candidates) > 0 {
		return candidates[0]
	}
	return fallback
}
