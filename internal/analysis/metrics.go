package analysis

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// interactiveSelector matches the elements counted as interactive.
const interactiveSelector = "a, button, input, select, textarea, [onclick]"

// dynamicContentSelectors mark lazy or incrementally loaded content. Every
// match counts toward the dynamic-indicator total.
var dynamicContentSelectors = []string{
	"[data-lazy]",
	"[data-src]",
	"[data-lazy-src]",
	"img[loading='lazy']",
	".lazyload",
	".lazy-load",
	"[data-infinite-scroll]",
	".infinite-scroll",
	"[data-load-more]",
	".skeleton",
	"[aria-busy='true']",
}

// frameworkSignature identifies one client-side framework. A framework
// counts once no matter how many of its markers appear.
type frameworkSignature struct {
	name      string
	selectors []string
	scriptSrc []string
}

var frameworkSignatures = []frameworkSignature{
	{
		name:      "react",
		selectors: []string{"[data-reactroot]", "[data-react-helmet]"},
		scriptSrc: []string{"react.", "react-dom"},
	},
	{
		name:      "next",
		selectors: []string{"#__next", "script#__NEXT_DATA__"},
		scriptSrc: []string{"/_next/"},
	},
	{
		name:      "vue",
		selectors: []string{"[data-v-app]", "[data-server-rendered]"},
		scriptSrc: []string{"vue.", "vue.runtime"},
	},
	{
		name:      "nuxt",
		selectors: []string{"#__nuxt"},
		scriptSrc: []string{"/_nuxt/"},
	},
	{
		name:      "angular",
		selectors: []string{"[ng-version]", "[ng-app]", "app-root"},
		scriptSrc: []string{"angular.", "main.angular"},
	},
	{
		name:      "gatsby",
		selectors: []string{"#___gatsby"},
		scriptSrc: []string{"gatsby"},
	},
	{
		name:      "svelte",
		selectors: []string{},
		scriptSrc: []string{"svelte"},
	},
}

// spaRootSelectors are mount points used by single-page applications.
// Each present selector counts once.
var spaRootSelectors = []string{
	"#root",
	"#app",
	"#__next",
	"#__nuxt",
	"#___gatsby",
	"[data-reactroot]",
	"[ng-app]",
}

// measureMetrics collects the raw counters for a rendered document.
func measureMetrics(doc *goquery.Document) models.PageMetrics {
	return models.PageMetrics{
		ScriptTags:          doc.Find("script").Length(),
		DynamicIndicators:   countMatches(doc, dynamicContentSelectors),
		MaxDOMDepth:         maxDepth(doc.Find("html"), 1),
		TotalElements:       doc.Find("*").Length(),
		InteractiveElements: doc.Find(interactiveSelector).Length(),
		FrameworkMarkers:    countFrameworks(doc),
		SPARoots:            countPresent(doc, spaRootSelectors),
	}
}

// countMatches sums matched elements over all selectors.
func countMatches(doc *goquery.Document, selectors []string) int {
	total := 0
	for _, sel := range selectors {
		total += doc.Find(sel).Length()
	}
	return total
}

// countPresent counts how many selectors match at least one element.
func countPresent(doc *goquery.Document, selectors []string) int {
	present := 0
	for _, sel := range selectors {
		if doc.Find(sel).Length() > 0 {
			present++
		}
	}
	return present
}

// countFrameworks returns the number of distinct frameworks with at least
// one marker on the page.
func countFrameworks(doc *goquery.Document) int {
	scriptSrcs := make([]string, 0, doc.Find("script[src]").Length())
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			scriptSrcs = append(scriptSrcs, strings.ToLower(src))
		}
	})

	detected := 0
	for _, sig := range frameworkSignatures {
		if frameworkPresent(doc, scriptSrcs, sig) {
			detected++
		}
	}
	return detected
}

func frameworkPresent(doc *goquery.Document, scriptSrcs []string, sig frameworkSignature) bool {
	for _, sel := range sig.selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	for _, src := range scriptSrcs {
		for _, marker := range sig.scriptSrc {
			if strings.Contains(src, marker) {
				return true
			}
		}
	}
	return false
}

// maxDepth walks the element tree and returns the deepest nesting level,
// counting the root as depth 1.
func maxDepth(s *goquery.Selection, depth int) int {
	deepest := depth
	s.Children().Each(func(_ int, child *goquery.Selection) {
		if d := maxDepth(child, depth+1); d > deepest {
			deepest = d
		}
	})
	return deepest
}
