package compliance

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/sourcegen/internal/cache"
	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
)

// listProbePath is the listing path evaluated against robots.txt, matching
// the default listing location bound into generated scrapers.
const listProbePath = "/news"

// contactPagePaths are probed in order for the legal-contact check.
var contactPagePaths = []string{
	"/contact",
	"/legal",
	"/terms",
	"/privacy",
	"/about",
	"/contact-us",
}

// contactTokens mark a page as carrying contact information. Matched
// case-insensitively against the page body.
var contactTokens = []string{
	"contact",
	"email",
	"@",
	"legal",
	"dmca",
	"copyright",
}

// termsPagePaths are probed in order for the terms-of-service check.
var termsPagePaths = []string{
	"/terms",
	"/terms-of-service",
	"/terms-and-conditions",
	"/tos",
	"/legal/terms",
}

// prohibitionPhrases fail the terms check when found. Only an explicit
// prohibition fails; unreachable or silent terms pages pass.
var prohibitionPhrases = []string{
	"scraping is prohibited",
	"scraping is not allowed",
	"no automated access",
	"automated access is prohibited",
	"automated data collection is prohibited",
	"crawling is prohibited",
	"bots are not permitted",
	"use of robots or spiders is prohibited",
}

// Config holds the assessor's dependencies and tunables.
type Config struct {
	UserAgent    string
	ProbeTimeout time.Duration
	CacheTTL     time.Duration
	CacheSize    int
	HTTPClient   *http.Client
	Logger       logger.Logger
	// Scheme overrides the https default. Tests point it at plain-HTTP
	// fixture servers.
	Scheme string
}

// Assessor runs the pre-scrape compliance checks for a domain. Results are
// cached per domain; Assess never fails on network errors, it records them
// as violations instead.
type Assessor struct {
	robots *RobotsChecker
	prober *pageProber
	cache  *cache.TTL[*models.ComplianceAssessment]
	log    logger.Logger
	scheme string
}

// New creates an Assessor from cfg, applying defaults for unset fields.
func New(cfg Config) *Assessor {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultProbeTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}

	return &Assessor{
		robots: NewRobotsChecker(cfg.HTTPClient, cfg.UserAgent, cfg.CacheTTL),
		prober: newPageProber(cfg.UserAgent, cfg.ProbeTimeout),
		cache:  cache.NewTTL[*models.ComplianceAssessment](cfg.CacheTTL, cfg.CacheSize),
		log:    cfg.Logger,
		scheme: cfg.Scheme,
	}
}

// Assess runs every compliance check for domain and aggregates the verdict.
// The returned assessment is non-nil unless ctx was cancelled.
func (a *Assessor) Assess(ctx context.Context, domain string) (*models.ComplianceAssessment, error) {
	domain = normalizeDomain(domain)

	if cached, ok := a.cache.Get(domain); ok {
		a.log.Debug("compliance cache hit", logger.String("domain", domain))
		return cached, nil
	}

	assessment := &models.ComplianceAssessment{
		Domain: domain,
		// Policy posture for generated scrapers: metadata plus bounded
		// excerpts only, under fair-use terms. Recorded, not verified.
		FairUseCompliant:          true,
		DataMinimizationCompliant: true,
		TermsAllowScraping:        true,
		AssessedAt:                time.Now().UTC(),
	}

	a.checkRobots(ctx, domain, assessment)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.checkLegalContact(ctx, domain, assessment)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.checkTerms(ctx, domain, assessment)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assessment.Finalize()
	a.cache.Set(domain, assessment)

	a.log.Info("compliance assessed",
		logger.String("domain", domain),
		logger.Bool("compliant", assessment.IsCompliant),
		logger.Int("violations", len(assessment.Violations)),
	)
	return assessment, nil
}

// ClearCache drops cached assessments and robots entries.
func (a *Assessor) ClearCache() {
	a.cache.Clear()
	a.robots.ClearCache()
}

func (a *Assessor) checkRobots(ctx context.Context, domain string, assessment *models.ComplianceAssessment) {
	result, err := a.robots.Check(ctx, a.scheme+"://"+domain+listProbePath)
	if err != nil {
		assessment.RobotsTxtCompliant = false
		assessment.AddViolation(
			"robots.txt could not be verified: "+err.Error(),
			"retry once the site is reachable; robots.txt must be honored before crawling",
		)
		return
	}

	assessment.CrawlDelaySeconds = result.CrawlDelay.Seconds()
	if !result.Allowed {
		assessment.RobotsTxtCompliant = false
		assessment.AddViolation(
			"robots.txt disallows crawling of "+listProbePath,
			"honor the robots.txt exclusion or request permission from the site operator",
		)
		return
	}
	assessment.RobotsTxtCompliant = true
}

func (a *Assessor) checkLegalContact(ctx context.Context, domain string, assessment *models.ComplianceAssessment) {
	for _, path := range contactPagePaths {
		status, body, err := a.prober.fetch(ctx, a.scheme+"://"+domain+path)
		if err != nil {
			a.log.Debug("contact probe failed",
				logger.String("domain", domain),
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}
		if status != http.StatusOK {
			continue
		}
		if containsAnyFold(body, contactTokens) {
			assessment.HasLegalContact = true
			return
		}
	}

	assessment.HasLegalContact = false
	assessment.AddViolation(
		"no discoverable legal contact page",
		"look for an alternative contact channel (site footer, WHOIS) before onboarding",
	)
}

func (a *Assessor) checkTerms(ctx context.Context, domain string, assessment *models.ComplianceAssessment) {
	for _, path := range termsPagePaths {
		status, body, err := a.prober.fetch(ctx, a.scheme+"://"+domain+path)
		if err != nil || status != http.StatusOK {
			continue
		}

		if phrase, found := findProhibition(body); found {
			assessment.TermsAllowScraping = false
			assessment.AddViolation(
				"terms of service prohibit automated access ("+path+": \""+phrase+"\")",
				"seek written permission or use an official API instead of scraping",
			)
			return
		}
	}
}

// containsAnyFold reports whether body contains any token, ignoring case.
func containsAnyFold(body string, tokens []string) bool {
	lower := strings.ToLower(body)
	for _, token := range tokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// findProhibition returns the first matching prohibition phrase.
func findProhibition(body string) (string, bool) {
	lower := strings.ToLower(body)
	for _, phrase := range prohibitionPhrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// normalizeDomain strips scheme, path and whitespace from a domain argument.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}
