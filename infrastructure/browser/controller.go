// Package browser hosts browser-delivered game clients (pixel streaming)
// so the driver has a running game to connect to.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"lyra_automation/domain/interfaces"
)

const (
	viewportWidth  = 1920
	viewportHeight = 1080

	navigationTimeoutMs = 60000
	loadStateTimeoutMs  = 10000
)

// ErrNoURL is returned when the launcher has nothing to open
var ErrNoURL = errors.New("launch url is required")

// Options configures the playwright launcher
type Options struct {
	URL      string
	Headless bool
}

type playwrightLauncher struct {
	opts   Options
	logger *logrus.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewPlaywrightLauncher - creates new launcher for a pixel streaming page
func NewPlaywrightLauncher(opts Options, logger *logrus.Logger) (interfaces.Launcher, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, ErrNoURL
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &playwrightLauncher{opts: opts, logger: logger}, nil
}

// Open - starts Chromium and opens the game page
func (l *playwrightLauncher) Open(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.page != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	l.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.opts.Headless),
		Args: []string{
			"--autoplay-policy=no-user-gesture-required",
			"--disable-dev-shm-usage",
			"--disable-infobars",
			"--disable-notifications",
			"--use-fake-ui-for-media-stream",
		},
	})
	if err != nil {
		l.closeLocked()
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	l.browser = browser

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		l.closeLocked()
		return fmt.Errorf("failed to create context: %w", err)
	}
	l.context = browserContext

	page, err := browserContext.NewPage()
	if err != nil {
		l.closeLocked()
		return fmt.Errorf("failed to create page: %w", err)
	}
	l.page = page

	l.logger.WithField("url", l.opts.URL).Info("Opening game client")
	if _, err := page.Goto(l.opts.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeoutMs),
	}); err != nil {
		l.closeLocked()
		return fmt.Errorf("failed to open %s: %w", l.opts.URL, err)
	}

	// Streams keep connections open, so network idle may never arrive.
	page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(loadStateTimeoutMs),
	})

	// Pixel streaming only forwards input once the video element has focus.
	if err := page.Locator("video").First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(loadStateTimeoutMs),
	}); err != nil {
		l.logger.WithError(err).Warn("Could not focus the stream")
	}

	return nil
}

// Screenshot - saves a screenshot of the game page
func (l *playwrightLauncher) Screenshot(ctx context.Context, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.page == nil {
		return errors.New("game client is not open")
	}
	_, err := l.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	return err
}

// Close - closes the browser and stops playwright
func (l *playwrightLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *playwrightLauncher) closeLocked() error {
	var closeErr error

	if l.context != nil {
		if err := l.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		l.context = nil
	}

	if l.browser != nil {
		if err := l.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		l.browser = nil
	}

	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		l.pw = nil
	}

	l.page = nil
	return closeErr
}

// isClosedErr - reports errors from targets that are already gone
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}
