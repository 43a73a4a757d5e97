// Package templates renders complete scraper programs from embedded
// per-platform templates. Selection follows the detected platform family
// and falls back to the generic families when no dedicated template
// exists.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
)

//go:embed assets/*.go.tmpl assets/partials.tmpl
var assetsFS embed.FS

// ErrUnknownTemplate is returned when a template is requested by a name
// no embedded asset provides.
var ErrUnknownTemplate = errors.New("unknown scraper template")

const templateSuffix = ".go.tmpl"

// Sites past this complexity fall back to the conservative generic
// template instead of the article-focused one.
const fallbackComplexityCutoff = 0.7

// Config wires the engine. Clock and NewID exist so generation can be
// made deterministic in tests; nil fields get production defaults.
type Config struct {
	Logger logger.Logger
	Clock  func() time.Time
	NewID  func() string
}

// Engine renders scraper source from the embedded template set.
type Engine struct {
	set   *template.Template
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// New parses the embedded template assets once and returns the engine.
func New(cfg Config) (*Engine, error) {
	set, err := template.ParseFS(assetsFS, "assets/*.go.tmpl", "assets/partials.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing scraper templates: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Engine{set: set, log: log, now: now, newID: newID}, nil
}

// Templates lists the available template family names, sorted.
func (e *Engine) Templates() []string {
	var names []string
	for _, t := range e.set.Templates() {
		if name, ok := strings.CutSuffix(t.Name(), templateSuffix); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Generate renders the scraper for a domain, picking the template that
// matches the analyzed platform family.
func (e *Engine) Generate(domain string, structure *models.SiteStructure, opts models.Options) (*models.Artifact, error) {
	return e.render(e.templateFor(structure), domain, structure, opts)
}

// GenerateNamed renders with an explicitly chosen template family,
// bypassing selection. Unknown names return ErrUnknownTemplate.
func (e *Engine) GenerateNamed(name, domain string, structure *models.SiteStructure, opts models.Options) (*models.Artifact, error) {
	return e.render(models.CMSType(name), domain, structure, opts)
}

// templateFor maps an analyzed structure to a template family. Families
// without a dedicated template degrade to generic_article, or to generic
// when the site measured too complex for article-shaped assumptions.
func (e *Engine) templateFor(structure *models.SiteStructure) models.CMSType {
	if structure != nil {
		if name := string(structure.CMSType); name != "" && e.lookup(name) != nil {
			return structure.CMSType
		}
		if structure.ComplexityScore > fallbackComplexityCutoff {
			return models.CMSGeneric
		}
	}
	return models.CMSGenericArticle
}

func (e *Engine) lookup(family string) *template.Template {
	return e.set.Lookup(family + templateSuffix)
}

func (e *Engine) render(family models.CMSType, domain string, structure *models.SiteStructure, opts models.Options) (*models.Artifact, error) {
	tmpl := e.lookup(string(family))
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, family)
	}

	params := bindParams(family, domain, structure, opts)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return nil, fmt.Errorf("rendering %s template for %s: %w", family, domain, err)
	}

	source, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated scraper for %s: %w", domain, err)
	}

	artifact := &models.Artifact{
		ID:           e.newID(),
		Domain:       domain,
		SourceCode:   string(source),
		TemplateUsed: family,
		Params:       params,
		GeneratedAt:  e.now().UTC(),
	}

	e.log.Info("generated scraper",
		logger.String("domain", domain),
		logger.String("template", string(family)),
		logger.Int("source_bytes", len(artifact.SourceCode)),
	)
	return artifact, nil
}
