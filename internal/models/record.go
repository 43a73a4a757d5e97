package models

import "time"

// DeploymentStatus is the state of a generation run. Pending is the only
// non-terminal state; the orchestrator always leaves records in one of the
// five terminal states.
type DeploymentStatus string

const (
	StatusPending            DeploymentStatus = "pending"
	StatusComplianceFailed   DeploymentStatus = "compliance_failed"
	StatusGenerationFailed   DeploymentStatus = "generation_failed"
	StatusTestingFailed      DeploymentStatus = "testing_failed"
	StatusNeedsManualReview  DeploymentStatus = "needs_manual_review"
	StatusReadyForDeployment DeploymentStatus = "ready_for_deployment"
)

// Terminal reports whether the status is an end state.
func (s DeploymentStatus) Terminal() bool {
	return s != StatusPending && s != ""
}

// Failed reports whether the status is one of the failure end states.
func (s DeploymentStatus) Failed() bool {
	switch s {
	case StatusComplianceFailed, StatusGenerationFailed, StatusTestingFailed:
		return true
	default:
		return false
	}
}

// GenerationRecord is the full account of one pipeline run for a domain.
//
// Invariants maintained by the orchestrator:
//   - Status == compliance_failed implies Artifact.IsEmpty() and Report == nil.
//   - Status == ready_for_deployment implies Report.SuccessRate >= 0.8 and
//     Assessment.IsCompliant.
type GenerationRecord struct {
	ID         string                `json:"id"`
	Domain     string                `json:"domain"`
	Status     DeploymentStatus      `json:"status"`
	Assessment *ComplianceAssessment `json:"assessment,omitempty"`
	Structure  *SiteStructure        `json:"structure,omitempty"`
	Artifact   Artifact              `json:"artifact"`
	Report     *TestReport           `json:"report,omitempty"`
	Error      string                `json:"error,omitempty"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Duration   time.Duration         `json:"duration"`
}

// Stats are derived on demand from the generation history.
type Stats struct {
	TotalGenerated      int                      `json:"total_generated"`
	CompliancePassRate  float64                  `json:"compliance_pass_rate"`
	DeploymentReadyRate float64                  `json:"deployment_ready_rate"`
	CountsByStatus      map[DeploymentStatus]int `json:"counts_by_status"`
	CountsByTemplate    map[CMSType]int          `json:"counts_by_template"`
	AverageDuration     time.Duration            `json:"average_duration"`
	LastRunAt           time.Time                `json:"last_run_at"`
}
