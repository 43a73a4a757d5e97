package cmd

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/sourcegen/internal/analysis"
	"github.com/jonesrussell/sourcegen/internal/browser"
	"github.com/jonesrussell/sourcegen/internal/compliance"
	"github.com/jonesrussell/sourcegen/internal/config"
	"github.com/jonesrussell/sourcegen/internal/events"
	"github.com/jonesrussell/sourcegen/internal/harness"
	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
	"github.com/jonesrussell/sourcegen/internal/orchestrator"
	"github.com/jonesrussell/sourcegen/internal/store"
	"github.com/jonesrussell/sourcegen/internal/templates"
)

// app bundles the wired pipeline for one command invocation.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	assessor *compliance.Assessor
	analyzer *analysis.Analyzer
	engine   *templates.Engine
	grader   *harness.Grader
	orch     *orchestrator.Orchestrator

	closers []func() error
}

// appOptions select which optional pieces a command needs.
type appOptions struct {
	// needsLoader builds the page loader and analyzer. Commands that only
	// assess or read history leave it false.
	needsLoader bool
	// noBrowser forces the plain HTTP loader even when the config enables
	// the headless browser.
	noBrowser bool
	// workers overrides generation.workers when positive.
	workers int
	// forceTemplate renders with the named template family instead of the
	// analyzer's choice.
	forceTemplate string
}

// loadConfig reads the config file and applies the persistent flag
// overrides shared by all commands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LoggerOptions())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, log.Sync)

	a.assessor = compliance.New(compliance.Config{
		UserAgent:    cfg.HTTP.UserAgent,
		ProbeTimeout: cfg.HTTP.Timeout,
		CacheTTL:     cfg.Cache.TTL,
		CacheSize:    cfg.Cache.Size,
		Logger:       log,
	})

	if opts.needsLoader {
		loader := a.buildLoader(opts.noBrowser)
		a.closers = append(a.closers, loader.Close)

		a.analyzer = analysis.New(analysis.Config{
			Loader:    loader,
			UserAgent: cfg.HTTP.UserAgent,
			CacheTTL:  cfg.Cache.TTL,
			CacheSize: cfg.Cache.Size,
			Logger:    log,
		})
	}

	a.engine, err = templates.New(templates.Config{Logger: log})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	a.grader = harness.New(harness.Config{Logger: log})

	// The orchestrator needs the analyzer, so it exists only for commands
	// that run the full pipeline.
	if opts.needsLoader {
		records, err := a.buildStore()
		if err != nil {
			a.Close()
			return nil, err
		}

		var generator orchestrator.Generator = a.engine
		if opts.forceTemplate != "" {
			generator = forcedTemplate{engine: a.engine, name: opts.forceTemplate}
		}

		workers := cfg.Generation.Workers
		if opts.workers > 0 {
			workers = opts.workers
		}

		a.orch = orchestrator.New(a.assessor, a.analyzer, generator, a.grader,
			orchestrator.WithLogger(log),
			orchestrator.WithStore(records),
			orchestrator.WithPublisher(a.buildPublisher()),
			orchestrator.WithPoolSize(workers),
		)
	}
	return a, nil
}

func (a *app) buildLoader(noBrowser bool) browser.Loader {
	if noBrowser || !a.cfg.Browser.Enabled {
		client := &http.Client{Timeout: a.cfg.HTTP.Timeout}
		return browser.NewHTTPLoader(client, a.cfg.HTTP.UserAgent)
	}
	return browser.NewRodLoader(browser.RodConfig{
		RemoteURL:   a.cfg.Browser.RemoteURL,
		LoadTimeout: a.cfg.Browser.LoadTimeout,
		SettleWait:  a.cfg.Browser.SettleWait,
		Logger:      a.log,
	})
}

func (a *app) buildStore() (store.RecordStore, error) {
	if a.cfg.Database.Path == "" {
		return store.NewMemory(), nil
	}
	s, err := store.NewSQLite(a.cfg.Database.Path, a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, s.Close)
	return s, nil
}

func (a *app) buildPublisher() *events.Publisher {
	if !a.cfg.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Address,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	a.closers = append(a.closers, client.Close)
	return events.NewPublisher(client, a.log)
}

// Close releases everything newApp opened, last first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// forcedTemplate pins artifact generation to one template family.
type forcedTemplate struct {
	engine *templates.Engine
	name   string
}

func (f forcedTemplate) Generate(domain string, structure *models.SiteStructure, opts models.Options) (*models.Artifact, error) {
	return f.engine.GenerateNamed(f.name, domain, structure, opts)
}
