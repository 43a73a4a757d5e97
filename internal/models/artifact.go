package models

import "time"

// TemplateParams are the site-specific values bound into a scraper template.
// They are retained on the artifact for provenance.
type TemplateParams struct {
	Domain            string   `json:"domain"`
	PackageName       string   `json:"package_name"`
	ListURL           string   `json:"list_url"`
	ArticlePatterns   []string `json:"article_patterns,omitempty"`
	TitleSelector     string   `json:"title_selector"`
	ContentSelector   string   `json:"content_selector"`
	DateSelector      string   `json:"date_selector"`
	AuthorSelector    string   `json:"author_selector"`
	LinkSelector      string   `json:"link_selector"`
	CrawlDelaySeconds int      `json:"crawl_delay_seconds"`
	MaxArticles       int      `json:"max_articles"`
	Language          string   `json:"language"`
	Country           string   `json:"country"`
	UserAgent         string   `json:"user_agent"`
	RequiresHeadless  bool     `json:"requires_headless"`
	KitImport         string   `json:"kit_import"`
}

// Artifact is a generated scraper program for one domain.
type Artifact struct {
	ID           string         `json:"id"`
	Domain       string         `json:"domain"`
	SourceCode   string         `json:"source_code"`
	TemplateUsed CMSType        `json:"template_used"`
	Params       TemplateParams `json:"params"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// IsEmpty reports whether the artifact carries no generated code, which is
// the case for records that failed compliance before generation.
func (a Artifact) IsEmpty() bool {
	return a.SourceCode == ""
}
