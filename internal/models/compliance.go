// Package models defines the entities shared across the generation pipeline:
// compliance assessments, site structures, generated artifacts, test reports
// and the generation records that tie them together.
package models

import "time"

// ComplianceAssessment captures the outcome of the pre-scrape compliance
// checks for a single domain.
type ComplianceAssessment struct {
	Domain                    string    `json:"domain"`
	RobotsTxtCompliant        bool      `json:"robots_txt_compliant"`
	HasLegalContact           bool      `json:"has_legal_contact"`
	TermsAllowScraping        bool      `json:"terms_allow_scraping"`
	FairUseCompliant          bool      `json:"fair_use_compliant"`
	DataMinimizationCompliant bool      `json:"data_minimization_compliant"`
	CrawlDelaySeconds         float64   `json:"crawl_delay_seconds"`
	Violations                []string  `json:"violations,omitempty"`
	Recommendations           []string  `json:"recommendations,omitempty"`
	IsCompliant               bool      `json:"is_compliant"`
	AssessedAt                time.Time `json:"assessed_at"`
}

// AddViolation records a failed check together with its remediation hint.
func (a *ComplianceAssessment) AddViolation(violation, recommendation string) {
	a.Violations = append(a.Violations, violation)
	a.Recommendations = append(a.Recommendations, recommendation)
}

// Finalize derives the aggregate verdict from the recorded violations.
func (a *ComplianceAssessment) Finalize() {
	a.IsCompliant = len(a.Violations) == 0
}
