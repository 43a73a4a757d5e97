package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/jonesrussell/sourcegen/internal/logger"
)

// Rendering defaults. The settle wait gives client-side frameworks time to
// populate the DOM after the load event.
const (
	defaultLoadTimeout = 10 * time.Second
	defaultSettleWait  = 3 * time.Second
)

// RodConfig configures the headless browser loader.
type RodConfig struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty launches a local headless Chrome.
	RemoteURL string
	// LoadTimeout bounds navigation plus the load event. Default 10s.
	LoadTimeout time.Duration
	// SettleWait is the post-load wait for dynamic content. Default 3s.
	SettleWait time.Duration
	Logger     logger.Logger
}

// RodLoader loads pages through a shared headless Chrome. The browser is
// launched lazily on first Load; each Load runs in its own stealth page
// that is always closed before returning.
type RodLoader struct {
	cfg RodConfig

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewRodLoader creates a loader. Chrome is not started until the first Load.
func NewRodLoader(cfg RodConfig) *RodLoader {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	if cfg.SettleWait <= 0 {
		cfg.SettleWait = defaultSettleWait
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &RodLoader{cfg: cfg}
}

// Load navigates a fresh stealth page to pageURL and returns the rendered
// document.
func (l *RodLoader) Load(ctx context.Context, pageURL string) (*Page, error) {
	b, err := l.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, l.cfg.LoadTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		// Slow pages still render something useful; keep going with
		// whatever the DOM holds once the settle wait passes.
		l.cfg.Logger.Warn("page load wait timed out",
			logger.String("url", pageURL),
			logger.Error(err),
		)
	}

	select {
	case <-time.After(l.cfg.SettleWait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: read DOM %s: %w", pageURL, err)
	}

	finalURL := pageURL
	if info, infoErr := page.Info(); infoErr == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &Page{
		URL:      pageURL,
		FinalURL: finalURL,
		HTML:     res.Value.Str(),
	}, nil
}

// Close shuts down the shared Chrome instance. Safe to call more than once.
func (l *RodLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var err error
	if l.browser != nil {
		err = l.browser.Close()
		l.browser = nil
	}
	if l.lnch != nil {
		l.lnch.Kill()
		l.lnch = nil
	}
	return err
}

func (l *RodLoader) ensureBrowser() (*rod.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, fmt.Errorf("browser: loader is closed")
	}
	if l.browser != nil {
		return l.browser, nil
	}

	wsURL := l.cfg.RemoteURL
	if wsURL == "" {
		lnch := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")

		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch chrome: %w", err)
		}
		l.lnch = lnch
		wsURL = u
		l.cfg.Logger.Debug("launched local chrome", logger.String("ws_url", wsURL))
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	l.browser = b
	return b, nil
}
