package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://rush-ph.com", cfg.BaseURL)
	assert.Equal(t, 300*time.Second, cfg.CacheDuration)
	assert.False(t, cfg.UseLiveBrowser)
	assert.Equal(t, 60*time.Second, cfg.BrowserTimeout)
	assert.False(t, cfg.DebugScreenshots)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RUSH_BASE_URL", "https://example.test")
	t.Setenv("CACHE_DURATION_SECONDS", "60")
	t.Setenv("USE_LIVE_BROWSER", "true")
	t.Setenv("BROWSER_TIMEOUT_MS", "45000")
	t.Setenv("DEBUG_SCREENSHOTS", "1")

	cfg := FromEnv()

	assert.Equal(t, "https://example.test", cfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.CacheDuration)
	assert.True(t, cfg.UseLiveBrowser)
	assert.Equal(t, 45*time.Second, cfg.BrowserTimeout)
	assert.True(t, cfg.DebugScreenshots)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CACHE_DURATION_SECONDS", "not-a-number")
	t.Setenv("SETTLE_DELAY_MS", "-5")

	cfg := FromEnv()

	assert.Equal(t, Default().CacheDuration, cfg.CacheDuration)
	assert.Equal(t, Default().SettleDelay, cfg.SettleDelay)
}
