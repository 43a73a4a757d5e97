package templates_test

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sourcegen/internal/models"
	"github.com/jonesrussell/sourcegen/internal/templates"
)

func newEngine(t *testing.T) *templates.Engine {
	t.Helper()
	e, err := templates.New(templates.Config{
		Clock: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string { return "artifact-1" },
	})
	require.NoError(t, err)
	return e
}

func parseSource(t *testing.T, src string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "scraper.go", src, parser.ParseComments)
	require.NoError(t, err, "generated source must parse:\n%s", src)
}

func TestTemplates_ListsAllFamilies(t *testing.T) {
	e := newEngine(t)

	assert.Equal(t, []string{
		"custom_medical",
		"drupal",
		"generic",
		"generic_article",
		"ghost",
		"hubspot",
		"joomla",
		"news_site",
		"squarespace",
		"webflow",
		"wordpress",
	}, e.Templates())
}

func TestGenerate_WordPress(t *testing.T) {
	e := newEngine(t)
	structure := &models.SiteStructure{
		Domain:          "example.com",
		CMSType:         models.CMSWordPress,
		ComplexityScore: 0.2,
		ArticleListURL:  "https://example.com/latest",
		ArticlePatterns: []string{"/news/", `/20\d{2}/\d{1,2}/`},
		DetectedSelectors: map[string][]string{
			models.RoleTitle: {"h1.custom-title", "h1"},
		},
	}

	artifact, err := e.Generate("example.com", structure, models.Options{})
	require.NoError(t, err)

	assert.Equal(t, models.CMSWordPress, artifact.TemplateUsed)
	assert.Equal(t, "artifact-1", artifact.ID)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), artifact.GeneratedAt)
	parseSource(t, artifact.SourceCode)

	// Detected selector wins over the family default.
	assert.Equal(t, "h1.custom-title", artifact.Params.TitleSelector)
	assert.Equal(t, ".entry-content", artifact.Params.ContentSelector)
	assert.Equal(t, "https://example.com/latest", artifact.Params.ListURL)

	// Regexp-shaped pattern entries stay out of the literal list.
	assert.Equal(t, []string{"/news/"}, artifact.Params.ArticlePatterns)

	assert.Contains(t, artifact.SourceCode, `listURL   = "https://example.com/latest"`)
	assert.Contains(t, artifact.SourceCode, "github.com/gocolly/colly/v2")
	assert.Contains(t, artifact.SourceCode, "non-commercial")
	assert.Contains(t, artifact.SourceCode, "ON CONFLICT(url)")
	assert.NotContains(t, artifact.SourceCode, "IgnoreRobotsTxt")
	assert.NotContains(t, artifact.SourceCode, "go-rod")
}

func TestGenerate_HeadlessVariant(t *testing.T) {
	e := newEngine(t)
	structure := &models.SiteStructure{
		Domain:                  "example.com",
		CMSType:                 models.CMSWordPress,
		RequiresHeadlessBrowser: true,
	}

	artifact, err := e.Generate("example.com", structure, models.Options{})
	require.NoError(t, err)
	parseSource(t, artifact.SourceCode)

	assert.True(t, artifact.Params.RequiresHeadless)
	assert.Contains(t, artifact.SourceCode, "github.com/go-rod/rod")
	assert.Contains(t, artifact.SourceCode, "launcher.New()")
	assert.NotContains(t, artifact.SourceCode, "colly")
}

func TestGenerate_FallbackSelection(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name      string
		structure *models.SiteStructure
		want      models.CMSType
	}{
		{
			name:      "unknown platform, simple site",
			structure: &models.SiteStructure{CMSType: models.CMSUnknown, ComplexityScore: 0.3},
			want:      models.CMSGenericArticle,
		},
		{
			name:      "unknown platform, complex site",
			structure: &models.SiteStructure{CMSType: models.CMSUnknown, ComplexityScore: 0.9},
			want:      models.CMSGeneric,
		},
		{
			name:      "exactly at the cutoff stays article shaped",
			structure: &models.SiteStructure{CMSType: models.CMSUnknown, ComplexityScore: 0.7},
			want:      models.CMSGenericArticle,
		},
		{
			name:      "no structure at all",
			structure: nil,
			want:      models.CMSGenericArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := e.Generate("example.com", tt.structure, models.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, artifact.TemplateUsed)
			parseSource(t, artifact.SourceCode)
		})
	}
}

func TestGenerateNamed_UnknownTemplate(t *testing.T) {
	e := newEngine(t)

	_, err := e.GenerateNamed("typo3", "example.com", nil, models.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrUnknownTemplate)
}

func TestGenerate_EveryFamilyParses(t *testing.T) {
	e := newEngine(t)

	for _, family := range e.Templates() {
		for _, headless := range []bool{false, true} {
			name := family
			if headless {
				name += " headless"
			}
			t.Run(name, func(t *testing.T) {
				structure := &models.SiteStructure{
					Domain:                  "example.com",
					CMSType:                 models.CMSType(family),
					RequiresHeadlessBrowser: headless,
				}
				artifact, err := e.GenerateNamed(family, "example.com", structure, models.Options{})
				require.NoError(t, err)
				require.False(t, artifact.IsEmpty())
				parseSource(t, artifact.SourceCode)

				assert.Contains(t, artifact.SourceCode, "package main")
				assert.Contains(t, artifact.SourceCode, "non-commercial")
				assert.Contains(t, artifact.SourceCode, "scraperkit")
			})
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	e := newEngine(t)
	structure := &models.SiteStructure{
		Domain:          "example.com",
		CMSType:         models.CMSGhost,
		ComplexityScore: 0.4,
	}

	first, err := e.Generate("example.com", structure, models.Options{MaxArticles: 10})
	require.NoError(t, err)
	second, err := e.Generate("example.com", structure, models.Options{MaxArticles: 10})
	require.NoError(t, err)

	assert.Equal(t, first.SourceCode, second.SourceCode)
	assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	assert.Equal(t, first.ID, second.ID)
}

func TestGenerate_CrawlDelayBinding(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name      string
		requested int
		score     float64
		want      int
	}{
		{"floor applies", 1, 0.2, 2},
		{"requested above floor", 5, 0.2, 5},
		{"complex site pads", 2, 0.8, 3},
		{"complex site pads requested", 4, 0.9, 5},
		{"cutoff itself does not pad", 2, 0.7, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structure := &models.SiteStructure{
				Domain:          "example.com",
				CMSType:         models.CMSWordPress,
				ComplexityScore: tt.score,
			}
			artifact, err := e.Generate("example.com", structure, models.Options{
				CrawlDelaySeconds: tt.requested,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, artifact.Params.CrawlDelaySeconds)
		})
	}
}

func TestGenerate_DefaultsWithoutStructure(t *testing.T) {
	e := newEngine(t)

	artifact, err := e.Generate("news.example-site.com", nil, models.Options{})
	require.NoError(t, err)

	assert.Equal(t, "https://news.example-site.com/news", artifact.Params.ListURL)
	assert.Equal(t, "news_example_site_com", artifact.Params.PackageName)
	assert.Equal(t, models.DefaultMaxArticles, artifact.Params.MaxArticles)
	assert.Equal(t, models.DefaultLanguage, artifact.Params.Language)
	assert.Equal(t, models.DefaultCountry, artifact.Params.Country)
	assert.Equal(t, []string{"/news/", "/article/", "/story/"}, artifact.Params.ArticlePatterns)

	assert.True(t, strings.Contains(artifact.Params.UserAgent, "+https://"))
	assert.True(t, strings.Contains(artifact.Params.UserAgent, "non-commercial"))
}
