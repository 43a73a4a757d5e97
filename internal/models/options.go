package models

// Generation option defaults.
const (
	DefaultLanguage          = "en"
	DefaultCountry           = "US"
	DefaultMaxArticles       = 30
	DefaultCrawlDelaySeconds = 2
)

// Options tune a generation run. The zero value is usable: WithDefaults
// fills every unset field.
type Options struct {
	Language          string `json:"language"`
	Country           string `json:"country"`
	MaxArticles       int    `json:"max_articles"`
	CrawlDelaySeconds int    `json:"crawl_delay_seconds"`
}

// WithDefaults returns a copy with unset fields replaced by the defaults.
func (o Options) WithDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Country == "" {
		o.Country = DefaultCountry
	}
	if o.MaxArticles <= 0 {
		o.MaxArticles = DefaultMaxArticles
	}
	if o.CrawlDelaySeconds <= 0 {
		o.CrawlDelaySeconds = DefaultCrawlDelaySeconds
	}
	return o
}
