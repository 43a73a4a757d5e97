package models

import "time"

// CategoryResult is the outcome of one grading category.
type CategoryResult struct {
	Passed  bool     `json:"passed"`
	Weight  float64  `json:"weight"`
	Issues  []string `json:"issues,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
}

// TestReport is the static grading result for a generated artifact.
// SuccessRate is the weighted fraction of passed categories over the
// categories that were actually graded.
type TestReport struct {
	Domain      string                    `json:"domain"`
	Categories  map[string]CategoryResult `json:"categories"`
	SuccessRate float64                   `json:"success_rate"`
	Issues      []string                  `json:"issues,omitempty"`
	GradedAt    time.Time                 `json:"graded_at"`
}
