package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
)

// SessionManager owns the process-wide shared browser. The browser process
// is launched lazily on first Acquire and reused until Release; concurrent
// callers share the process but each obtains an isolated tab context via
// NewTab so cookies, navigation state and viewport do not cross-contaminate.
type SessionManager struct {
	mu            sync.Mutex
	cfg           config.Config
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSessionManager creates a manager; no browser is launched until Acquire.
func NewSessionManager(cfg config.Config) *SessionManager {
	return &SessionManager{cfg: cfg}
}

// Acquire returns the shared browser context, launching the browser if none
// is alive. On launch failure the error propagates and the manager stays in
// the "no session" state so the next Acquire retries the launch instead of
// reusing a known-bad reference.
func (m *SessionManager) Acquire() (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCtx != nil && m.browserCtx.Err() == nil {
		return m.browserCtx, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), buildAllocatorOptions(m.cfg)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no tasks forces the browser process to start, surfacing
	// launch failures here instead of at first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	log.Info().Msg("launched shared browser session")

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	return browserCtx, nil
}

// NewTab returns an isolated browsing context backed by the shared browser,
// launching it first if needed. The returned cancel closes only the tab.
func (m *SessionManager) NewTab() (context.Context, context.CancelFunc, error) {
	browserCtx, err := m.Acquire()
	if err != nil {
		return nil, nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	return tabCtx, tabCancel, nil
}

// Release closes the shared browser. Teardown errors are swallowed and the
// internal reference is always cleared, so a future Acquire relaunches.
// Safe to call multiple times.
func (m *SessionManager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCancel != nil {
		m.browserCancel()
		m.browserCancel = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
	}
	if m.browserCtx != nil {
		m.browserCtx = nil
		log.Info().Msg("released shared browser session")
	}
}

// buildAllocatorOptions assembles the Chrome launch flags: headless with the
// automation tells disabled, since the target site is known to fingerprint
// clients.
func buildAllocatorOptions(cfg config.Config) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("use-mock-keychain", true),
	)

	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	return opts
}
