package analysis

import "github.com/jonesrussell/sourcegen/internal/models"

// Complexity score weights. Each metric is normalized against its cap and
// clamped to 1 before weighting; the weights sum to 1.
const (
	scriptWeight      = 0.3
	dynamicWeight     = 0.2
	depthWeight       = 0.2
	elementWeight     = 0.1
	interactiveWeight = 0.2

	scriptCap      = 20
	dynamicCap     = 10
	depthCap       = 50
	elementCap     = 1000
	interactiveCap = 30
)

// JS-dependency thresholds: past any of these, static fetching is unlikely
// to see real content and generated scrapers get a headless browser.
const (
	headlessDynamicThreshold = 2
	headlessSPARootThreshold = 1
	headlessComplexityCutoff = 0.7
	fallbackComplexityScore  = 0.5
	articleListLinkThreshold = 5
	newsSiteClassThreshold   = 5
)

// complexityScore folds the raw metrics into a 0..1 rendering-complexity
// estimate.
func complexityScore(m models.PageMetrics) float64 {
	return scriptWeight*normalize(m.ScriptTags, scriptCap) +
		dynamicWeight*normalize(m.DynamicIndicators, dynamicCap) +
		depthWeight*normalize(m.MaxDOMDepth, depthCap) +
		elementWeight*normalize(m.TotalElements, elementCap) +
		interactiveWeight*normalize(m.InteractiveElements, interactiveCap)
}

// requiresHeadless decides whether generated scrapers need a real browser.
func requiresHeadless(m models.PageMetrics, score float64) bool {
	return m.FrameworkMarkers > 0 ||
		m.DynamicIndicators > headlessDynamicThreshold ||
		m.SPARoots > headlessSPARootThreshold ||
		score > headlessComplexityCutoff
}

func normalize(value, limit int) float64 {
	if value >= limit {
		return 1
	}
	if value <= 0 {
		return 0
	}
	return float64(value) / float64(limit)
}
