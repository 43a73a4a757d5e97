package analysis

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// cmsSignature identifies one platform. markers are matched against the
// lowercased raw HTML, selectors against the DOM; either kind suffices.
type cmsSignature struct {
	cms       models.CMSType
	markers   []string
	selectors []string
}

// cmsSignatures is walked in order; the first matching platform wins.
var cmsSignatures = []cmsSignature{
	{
		cms:       models.CMSWordPress,
		markers:   []string{"wp-content", "wp-includes", "wp-json"},
		selectors: []string{"meta[name='generator'][content*='WordPress']"},
	},
	{
		cms:       models.CMSDrupal,
		markers:   []string{"drupal-settings-json", "/sites/default/files", "drupal.js"},
		selectors: []string{"meta[name='generator'][content*='Drupal']", "[data-drupal-selector]"},
	},
	{
		cms:       models.CMSJoomla,
		markers:   []string{"/media/jui/", "com_content", "joomla-script-options"},
		selectors: []string{"meta[name='generator'][content*='Joomla']"},
	},
	{
		cms:       models.CMSGhost,
		markers:   []string{"ghost-sdk", "/ghost/api/", "ghost-url"},
		selectors: []string{"meta[name='generator'][content*='Ghost']"},
	},
	{
		cms:       models.CMSHubSpot,
		markers:   []string{"hs-scripts.com", "hubspotusercontent", "hs-analytics"},
		selectors: []string{"[data-hs-cos-general-type]"},
	},
	{
		cms:       models.CMSSquarespace,
		markers:   []string{"static1.squarespace.com", "squarespace-cdn.com"},
		selectors: []string{"meta[name='generator'][content*='Squarespace']"},
	},
	{
		cms:       models.CMSWebflow,
		markers:   []string{"website-files.com", "webflow.js"},
		selectors: []string{"html[data-wf-page]", "[data-wf-site]"},
	},
}

// medicalClassTokens mark purpose-built medical news platforms.
var medicalClassTokens = []string{"medical-news", "health-article"}

// newsClassPattern matches class attributes that suggest editorial content.
var newsClassPattern = regexp.MustCompile(`(?i)\b(news|article|story|post)`)

// detectCMS classifies the platform behind a rendered page. Signature
// platforms are checked first, then the content-shape heuristics, so the
// result is deterministic for a fixed document.
func detectCMS(doc *goquery.Document, html string) models.CMSType {
	htmlLower := strings.ToLower(html)

	for _, sig := range cmsSignatures {
		if sig.matches(doc, htmlLower) {
			return sig.cms
		}
	}

	for _, token := range medicalClassTokens {
		if doc.Find("[class*='"+token+"']").Length() > 0 {
			return models.CMSCustomMedical
		}
	}

	if countNewsClasses(doc) > newsSiteClassThreshold {
		return models.CMSNewsSite
	}

	if doc.Find("article").Length() > 0 {
		return models.CMSGenericArticle
	}

	return models.CMSUnknown
}

func (s cmsSignature) matches(doc *goquery.Document, htmlLower string) bool {
	for _, marker := range s.markers {
		if strings.Contains(htmlLower, marker) {
			return true
		}
	}
	for _, sel := range s.selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// countNewsClasses counts elements whose class attribute carries an
// editorial token.
func countNewsClasses(doc *goquery.Document) int {
	count := 0
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		if class, ok := s.Attr("class"); ok && newsClassPattern.MatchString(class) {
			count++
		}
	})
	return count
}
