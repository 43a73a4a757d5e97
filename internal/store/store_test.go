package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
	"github.com/jonesrussell/sourcegen/internal/store"
)

func sampleRecord(id, domain string, status models.DeploymentStatus) models.GenerationRecord {
	started := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return models.GenerationRecord{
		ID:     id,
		Domain: domain,
		Status: status,
		Artifact: models.Artifact{
			ID:           id + "-artifact",
			Domain:       domain,
			SourceCode:   "package main\n",
			TemplateUsed: models.CMSWordPress,
			GeneratedAt:  started.Add(2 * time.Second),
		},
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Duration:   3 * time.Second,
	}
}

func fullRecord(id, domain string) models.GenerationRecord {
	rec := sampleRecord(id, domain, models.StatusReadyForDeployment)
	rec.Assessment = &models.ComplianceAssessment{
		Domain:             domain,
		RobotsTxtCompliant: true,
		HasLegalContact:    true,
		CrawlDelaySeconds:  5,
		IsCompliant:        true,
		AssessedAt:         rec.StartedAt,
	}
	rec.Structure = &models.SiteStructure{
		Domain:          domain,
		CMSType:         models.CMSWordPress,
		ComplexityScore: 0.42,
		ArticleListURL:  "https://" + domain + "/news",
		DetectedSelectors: map[string][]string{
			models.RoleTitle: {"h1.entry-title"},
		},
		AnalyzedAt: rec.StartedAt,
	}
	rec.Report = &models.TestReport{
		Domain: domain,
		Categories: map[string]models.CategoryResult{
			"compliance": {Passed: true, Weight: 0.25},
		},
		SuccessRate: 1,
		GradedAt:    rec.FinishedAt,
	}
	return rec
}

func TestMemoryStore_SaveListGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.Save(ctx, sampleRecord("r1", "a.example.com", models.StatusReadyForDeployment)))
	require.NoError(t, s.Save(ctx, sampleRecord("r2", "b.example.com", models.StatusComplianceFailed)))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "r2", records[1].ID)

	got, err := s.Get(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, "b.example.com", got.Domain)
	assert.Equal(t, models.StatusComplianceFailed, got.Status)
}

func TestMemoryStore_RequiresID(t *testing.T) {
	s := store.NewMemory()
	err := s.Save(context.Background(), models.GenerationRecord{Domain: "example.com"})
	require.Error(t, err)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := store.NewMemory()
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Save(ctx, sampleRecord("r1", "a.example.com", models.StatusTestingFailed)))

	records, err := s.List(ctx)
	require.NoError(t, err)
	records[0].Domain = "mutated.example.com"

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.example.com", again[0].Domain)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Save(ctx, sampleRecord("r1", "a.example.com", models.StatusNeedsManualReview)))
	require.NoError(t, s.Clear(ctx))

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func newSQLite(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	s, err := store.NewSQLite(path, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLite(t)

	rec := fullRecord("r1", "news.example.com")
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, rec.Domain, got.Domain)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.Artifact.SourceCode, got.Artifact.SourceCode)
	assert.Equal(t, rec.Artifact.TemplateUsed, got.Artifact.TemplateUsed)
	assert.Equal(t, rec.Duration, got.Duration)
	assert.WithinDuration(t, rec.StartedAt, got.StartedAt, time.Second)
	assert.WithinDuration(t, rec.FinishedAt, got.FinishedAt, time.Second)

	require.NotNil(t, got.Assessment)
	assert.True(t, got.Assessment.IsCompliant)
	assert.InDelta(t, 5, got.Assessment.CrawlDelaySeconds, 0.001)

	require.NotNil(t, got.Structure)
	assert.Equal(t, models.CMSWordPress, got.Structure.CMSType)
	assert.InDelta(t, 0.42, got.Structure.ComplexityScore, 0.001)
	assert.Equal(t, []string{"h1.entry-title"}, got.Structure.DetectedSelectors[models.RoleTitle])

	require.NotNil(t, got.Report)
	assert.InDelta(t, 1, got.Report.SuccessRate, 0.001)
	assert.True(t, got.Report.Categories["compliance"].Passed)
}

func TestSQLiteStore_NilSectionsStayNil(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLite(t)

	rec := sampleRecord("r1", "news.example.com", models.StatusComplianceFailed)
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got.Assessment)
	assert.Nil(t, got.Structure)
	assert.Nil(t, got.Report)
}

func TestSQLiteStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLite(t)

	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, s.Save(ctx, sampleRecord(id, id+".example.com", models.StatusReadyForDeployment)))
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "r3", records[2].ID)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	first, err := store.NewSQLite(path, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, fullRecord("r1", "news.example.com")))
	require.NoError(t, first.Close())

	second, err := store.NewSQLite(path, logger.NewNop())
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadyForDeployment, got.Status)
	require.NotNil(t, got.Report)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s, _ := newSQLite(t)
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLite(t)

	require.NoError(t, s.Save(ctx, sampleRecord("r1", "a.example.com", models.StatusGenerationFailed)))
	require.NoError(t, s.Clear(ctx))

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
