// Package harness grades generated scraper artifacts without executing
// them. Each of six quality categories runs a set of static checks over
// the source; the weighted pass rate is what the orchestrator turns into
// a deployment verdict.
package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
)

// ErrEmptyArtifact is returned when grading is asked for an artifact with
// no source code.
var ErrEmptyArtifact = errors.New("artifact has no source code")

// Config wires the grader; nil fields get production defaults.
type Config struct {
	Logger logger.Logger
	Clock  func() time.Time
}

// Grader runs the static rubric over artifacts.
type Grader struct {
	log logger.Logger
	now func() time.Time
}

func New(cfg Config) *Grader {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Grader{log: log, now: now}
}

// Grade runs every category over the artifact source and aggregates the
// weighted success rate. Categories are independent: one failing category
// never stops the others from being evaluated.
func (g *Grader) Grade(artifact models.Artifact) (*models.TestReport, error) {
	if artifact.IsEmpty() {
		return nil, fmt.Errorf("grading %s: %w", artifact.Domain, ErrEmptyArtifact)
	}

	in := inspect(artifact.SourceCode)

	report := &models.TestReport{
		Domain:     artifact.Domain,
		Categories: make(map[string]models.CategoryResult, len(gradingCategories)),
		GradedAt:   g.now().UTC(),
	}

	for _, spec := range gradingCategories {
		result := runCategory(spec, in)
		report.Categories[spec.name] = result
		for _, issue := range result.Issues {
			report.Issues = append(report.Issues, spec.name+": "+issue)
		}
	}
	report.SuccessRate = successRate(report.Categories)

	g.log.Info("artifact graded",
		logger.String("domain", artifact.Domain),
		logger.Float64("success_rate", report.SuccessRate),
		logger.Int("issues", len(report.Issues)),
	)
	return report, nil
}

func runCategory(spec categorySpec, in sourceInsight) models.CategoryResult {
	result := models.CategoryResult{Weight: spec.weight}
	for _, c := range spec.checks {
		if !c.passes(in) {
			result.Issues = append(result.Issues, c.issue)
		}
	}
	result.Passed = len(result.Issues) == 0
	return result
}

// successRate is the weighted fraction of passed categories. Skipped
// categories leave the denominator; failed ones do not.
func successRate(categories map[string]models.CategoryResult) float64 {
	var passed, graded float64
	for _, c := range categories {
		if c.Skipped {
			continue
		}
		graded += c.Weight
		if c.Passed {
			passed += c.Weight
		}
	}
	if graded == 0 {
		return 0
	}
	return passed / graded
}
