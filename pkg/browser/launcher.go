package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/engage/pkg/behavior"
	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

// ErrNotInitialized is returned by Open before Initialize has succeeded.
var ErrNotInitialized = errors.New("browser launcher not initialized")

var (
	_ behavior.SessionOpener = (*Launcher)(nil)
	_ behavior.Session       = (*Session)(nil)
)

// Launcher owns the Playwright driver and opens one browser per session.
type Launcher struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	opts        Options
	logger      *logging.Logger
	initialized bool
}

// NewLauncher creates a launcher. Call Initialize before Open.
func NewLauncher(opts Options, logger *logging.Logger) *Launcher {
	return &Launcher{
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Initialize installs (unless skipped) and starts the Playwright driver.
func (l *Launcher) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	// Driver output would interleave with our console output
	runOpts := &playwright.RunOptions{
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
		Browsers: []string{"chromium"},
	}

	if !l.opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	l.playwright = pw
	l.initialized = true
	l.logger.Debugf("playwright driver started")
	return nil
}

// Open launches a browser, injects cookies and opens a blank page.
func (l *Launcher) Open(ctx context.Context, cookies []types.Cookie) (behavior.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return nil, ErrNotInitialized
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.opts.Headless),
	}
	if l.opts.Channel != "" {
		launchOpts.Channel = playwright.String(l.opts.Channel)
	}
	browser, err := l.playwright.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.opts.Viewport.Width,
			Height: l.opts.Viewport.Height,
		},
	}
	if l.opts.Locale != "" {
		contextOpts.Locale = playwright.String(l.opts.Locale)
	}
	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(toPlaywrightCookies(cookies)); err != nil {
			_ = bctx.Close()
			_ = browser.Close()
			return nil, fmt.Errorf("failed to inject cookies: %w", err)
		}
		l.logger.Infof("injected %d cookies", len(cookies))
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(l.opts.Timeout)

	return &Session{
		browser: browser,
		context: bctx,
		page:    page,
		logger:  l.logger,
	}, nil
}

// Shutdown stops the Playwright driver.
func (l *Launcher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized && l.playwright != nil {
		if err := l.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		l.initialized = false
	}
	return nil
}

// toPlaywrightCookies converts cookies into the shape BrowserContext.AddCookies expects.
func toPlaywrightCookies(cookies []types.Cookie) []playwright.OptionalCookie {
	out := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		oc := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(path),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Expires > 0 {
			oc.Expires = playwright.Float(c.Expires)
		}
		switch c.SameSite {
		case types.SameSiteStrict:
			oc.SameSite = playwright.SameSiteAttributeStrict
		case types.SameSiteLax:
			oc.SameSite = playwright.SameSiteAttributeLax
		case types.SameSiteNone:
			oc.SameSite = playwright.SameSiteAttributeNone
		}
		out = append(out, oc)
	}
	return out
}
