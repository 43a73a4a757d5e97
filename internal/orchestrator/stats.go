package orchestrator

import (
	"context"
	"time"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// History returns every recorded run in insertion order.
func (o *Orchestrator) History(ctx context.Context) ([]models.GenerationRecord, error) {
	return o.records.List(ctx)
}

// Stats derives aggregate statistics from the history. Nothing is stored
// redundantly; every call recomputes from the record list.
func (o *Orchestrator) Stats(ctx context.Context) (*models.Stats, error) {
	records, err := o.records.List(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveStats(records), nil
}

// ClearHistory drops all recorded runs.
func (o *Orchestrator) ClearHistory(ctx context.Context) error {
	return o.records.Clear(ctx)
}

// ClearCaches drops the compliance and structure caches, forcing fresh
// network work on the next run.
func (o *Orchestrator) ClearCaches() {
	o.assessor.ClearCache()
	o.analyzer.ClearCache()
}

// DeriveStats computes aggregate statistics for a record list. The CLI
// uses it directly when reading a persisted store.
func DeriveStats(records []models.GenerationRecord) *models.Stats {
	stats := &models.Stats{
		TotalGenerated:   len(records),
		CountsByStatus:   make(map[models.DeploymentStatus]int),
		CountsByTemplate: make(map[models.CMSType]int),
	}
	if len(records) == 0 {
		return stats
	}

	var compliant, ready int
	var total time.Duration
	for _, r := range records {
		stats.CountsByStatus[r.Status]++
		if !r.Artifact.IsEmpty() {
			stats.CountsByTemplate[r.Artifact.TemplateUsed]++
		}
		if r.Assessment != nil && r.Assessment.IsCompliant {
			compliant++
		}
		if r.Status == models.StatusReadyForDeployment {
			ready++
		}
		total += r.Duration
		if r.FinishedAt.After(stats.LastRunAt) {
			stats.LastRunAt = r.FinishedAt
		}
	}

	n := float64(len(records))
	stats.CompliancePassRate = float64(compliant) / n
	stats.DeploymentReadyRate = float64(ready) / n
	stats.AverageDuration = total / time.Duration(len(records))
	return stats
}
