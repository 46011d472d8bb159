// Package config provides environment-driven configuration for the scraping
// engine. Every settle wait is a named, bounded, tunable value: the target
// site offers no readiness contract, so these are heuristics, not protocol
// guarantees.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all engine settings. Zero-configuration deployments get the
// defaults from Default().
type Config struct {
	// BaseURL is the target site requiring client-side rendering.
	BaseURL string

	// CacheDuration is the TTL applied to every cached ScheduleRecord,
	// live and simulated alike.
	CacheDuration time.Duration

	// UseLiveBrowser enables live extraction. When false the engine serves
	// simulated data exclusively and never launches a browser.
	UseLiveBrowser bool

	// BrowserTimeout bounds a whole live-extraction attempt.
	BrowserTimeout time.Duration

	// NavigationTimeout bounds the initial page load.
	NavigationTimeout time.Duration

	// SettleDelay is the post-load wait for client-side rendering.
	SettleDelay time.Duration

	// TypingDelay is the inter-keystroke delay that triggers the site's
	// incremental-search listeners.
	TypingDelay time.Duration

	// SuggestionWait is how long a suggestion list gets to render after
	// typing finishes.
	SuggestionWait time.Duration

	// ScheduleWait bounds the wait for a train-time pattern to appear
	// after a search is committed.
	ScheduleWait time.Duration

	// DebugScreenshots enables the write-only diagnostic snapshot after
	// navigation. It has no effect on returned data.
	DebugScreenshots bool

	// ScreenshotDir is where diagnostic snapshots are written.
	ScreenshotDir string

	// UserAgent is presented by the headless browser.
	UserAgent string

	// WindowWidth and WindowHeight set the browser viewport.
	WindowWidth  int
	WindowHeight int
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		BaseURL:           "https://rush-ph.com",
		CacheDuration:     300 * time.Second,
		UseLiveBrowser:    false,
		BrowserTimeout:    60 * time.Second,
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       3 * time.Second,
		TypingDelay:       80 * time.Millisecond,
		SuggestionWait:    2 * time.Second,
		ScheduleWait:      8 * time.Second,
		DebugScreenshots:  false,
		ScreenshotDir:     "./debug",
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		WindowWidth:       1366,
		WindowHeight:      900,
	}
}

// FromEnv builds a Config from environment variables, falling back to
// Default() for anything unset or malformed.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("RUSH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if d, ok := envSeconds("CACHE_DURATION_SECONDS"); ok {
		cfg.CacheDuration = d
	}
	if v := os.Getenv("USE_LIVE_BROWSER"); v != "" {
		cfg.UseLiveBrowser = v == "true" || v == "1"
	}
	if d, ok := envMillis("BROWSER_TIMEOUT_MS"); ok {
		cfg.BrowserTimeout = d
	}
	if d, ok := envMillis("NAVIGATION_TIMEOUT_MS"); ok {
		cfg.NavigationTimeout = d
	}
	if d, ok := envMillis("SETTLE_DELAY_MS"); ok {
		cfg.SettleDelay = d
	}
	if d, ok := envMillis("TYPING_DELAY_MS"); ok {
		cfg.TypingDelay = d
	}
	if d, ok := envMillis("SUGGESTION_WAIT_MS"); ok {
		cfg.SuggestionWait = d
	}
	if d, ok := envMillis("SCHEDULE_WAIT_MS"); ok {
		cfg.ScheduleWait = d
	}
	if v := os.Getenv("DEBUG_SCREENSHOTS"); v != "" {
		cfg.DebugScreenshots = v == "true" || v == "1"
	}
	if v := os.Getenv("SCREENSHOT_DIR"); v != "" {
		cfg.ScreenshotDir = v
	}

	return cfg
}

func envMillis(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

func envSeconds(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	s, err := strconv.Atoi(v)
	if err != nil || s <= 0 {
		return 0, false
	}
	return time.Duration(s) * time.Second, true
}
