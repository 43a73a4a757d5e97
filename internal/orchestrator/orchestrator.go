// Package orchestrator runs the full onboarding pipeline for a domain:
// compliance assessment, structure analysis, scraper generation and
// artifact grading, recorded as a GenerationRecord per run.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sourcegen/internal/events"
	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
	"github.com/jonesrussell/sourcegen/internal/store"
)

// Verdict thresholds on the graded success rate.
const (
	readyThreshold  = 0.8
	reviewThreshold = 0.6
)

// MaxBatchSize caps a single GenerateBatch call.
const MaxBatchSize = 10

// Worker pool bounds for batch runs.
const (
	DefaultPoolSize = 4
	minPoolSize     = 1
	maxPoolSize     = 8
)

// ErrBatchTooLarge is returned when GenerateBatch is called with more than
// MaxBatchSize domains.
var ErrBatchTooLarge = errors.New("batch too large")

// Assessor runs the pre-scrape compliance checks.
type Assessor interface {
	Assess(ctx context.Context, domain string) (*models.ComplianceAssessment, error)
	ClearCache()
}

// Analyzer derives a site structure for a domain.
type Analyzer interface {
	Analyze(ctx context.Context, domain string) (*models.SiteStructure, error)
	ClearCache()
}

// Generator renders a scraper artifact from a site structure.
type Generator interface {
	Generate(domain string, structure *models.SiteStructure, opts models.Options) (*models.Artifact, error)
}

// Grader produces a test report for an artifact.
type Grader interface {
	Grade(artifact models.Artifact) (*models.TestReport, error)
}

// Orchestrator wires the four stages together and keeps the run history.
type Orchestrator struct {
	assessor  Assessor
	analyzer  Analyzer
	engine    Generator
	grader    Grader
	records   store.RecordStore
	publisher *events.Publisher
	log       logger.Logger
	now       func() time.Time
	newID     func() string
	poolSize  int
}

// New builds an orchestrator over the four pipeline stages. By default it
// records history in memory, publishes no events and runs batches on
// DefaultPoolSize workers.
func New(assessor Assessor, analyzer Analyzer, engine Generator, grader Grader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		assessor: assessor,
		analyzer: analyzer,
		engine:   engine,
		grader:   grader,
		records:  store.NewMemory(),
		log:      logger.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
		poolSize: DefaultPoolSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs the pipeline for one domain and returns its terminal
// record. Domain failures of any kind end up as a failed status on the
// record, never as a returned error; the only error case is ctx
// cancellation, which aborts the run without recording it.
func (o *Orchestrator) Generate(ctx context.Context, domain string, opts models.Options) (*models.GenerationRecord, error) {
	opts = opts.WithDefaults()

	record := &models.GenerationRecord{
		ID:        o.newID(),
		Domain:    domain,
		Status:    models.StatusPending,
		StartedAt: o.now().UTC(),
	}

	if err := o.run(ctx, record, opts); err != nil {
		return nil, err
	}

	record.FinishedAt = o.now().UTC()
	record.Duration = record.FinishedAt.Sub(record.StartedAt)

	if err := o.records.Save(ctx, *record); err != nil {
		o.log.Error("failed to record generation run",
			logger.String("domain", domain),
			logger.Error(err),
		)
	}
	o.publisher.PublishAsync(events.FromRecord(*record))

	o.log.Info("generation finished",
		logger.String("domain", domain),
		logger.String("status", string(record.Status)),
		logger.Duration("duration", record.Duration),
	)
	return record, nil
}

// run advances the record through the pipeline stages until it reaches a
// terminal status. A panic in any stage degrades to generation_failed.
func (o *Orchestrator) run(ctx context.Context, record *models.GenerationRecord, opts models.Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			record.Status = models.StatusGenerationFailed
			record.Error = fmt.Sprintf("panic: %v", r)
			err = nil
			o.log.Error("pipeline panic recovered",
				logger.String("domain", record.Domain),
				logger.Any("panic", r),
			)
		}
	}()

	assessment, err := o.assessor.Assess(ctx, record.Domain)
	if err != nil {
		return err
	}
	record.Assessment = assessment
	if !assessment.IsCompliant {
		record.Status = models.StatusComplianceFailed
		record.Error = strings.Join(assessment.Violations, "; ")
		return nil
	}

	structure, err := o.analyzer.Analyze(ctx, record.Domain)
	if err != nil {
		return err
	}
	record.Structure = structure

	// robots.txt may demand a slower pace than the caller asked for.
	if assessment.CrawlDelaySeconds > float64(opts.CrawlDelaySeconds) {
		opts.CrawlDelaySeconds = int(math.Ceil(assessment.CrawlDelaySeconds))
	}

	artifact, err := o.engine.Generate(record.Domain, structure, opts)
	if err != nil {
		record.Status = models.StatusGenerationFailed
		record.Error = err.Error()
		return nil
	}
	record.Artifact = *artifact

	report, err := o.grader.Grade(*artifact)
	if err != nil {
		record.Status = models.StatusTestingFailed
		record.Error = err.Error()
		return nil
	}
	record.Report = report
	record.Status = verdict(report.SuccessRate)
	return nil
}

// verdict maps a graded success rate to a terminal deployment status.
func verdict(successRate float64) models.DeploymentStatus {
	switch {
	case successRate >= readyThreshold:
		return models.StatusReadyForDeployment
	case successRate >= reviewThreshold:
		return models.StatusNeedsManualReview
	default:
		return models.StatusTestingFailed
	}
}

// GenerateBatch runs the pipeline for up to MaxBatchSize domains on a
// bounded worker pool. Results keep input order. One domain failing, even
// by panic, never aborts the others; on ctx cancellation the completed
// subset is returned together with the ctx error.
func (o *Orchestrator) GenerateBatch(ctx context.Context, domains []string, opts models.Options) ([]*models.GenerationRecord, error) {
	if len(domains) == 0 {
		return nil, nil
	}
	if len(domains) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d domains, max %d", ErrBatchTooLarge, len(domains), MaxBatchSize)
	}

	o.log.Info("batch started",
		logger.Int("domains", len(domains)),
		logger.Int("workers", o.poolSize),
	)

	results := make([]*models.GenerationRecord, len(domains))
	sem := make(chan struct{}, o.poolSize)
	var wg sync.WaitGroup

	for i, domain := range domains {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			record, err := o.Generate(ctx, domain, opts)
			if err != nil {
				o.log.Warn("batch domain aborted",
					logger.String("domain", domain),
					logger.Error(err),
				)
				return
			}
			results[i] = record
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		completed := make([]*models.GenerationRecord, 0, len(results))
		for _, r := range results {
			if r != nil {
				completed = append(completed, r)
			}
		}
		return completed, err
	}
	return results, nil
}
