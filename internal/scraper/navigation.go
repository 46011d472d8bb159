package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
)

// Navigator loads the target page and waits for the client-side app to
// settle. The site has no readiness contract, so after the body is ready a
// fixed settle interval stands in for a render-complete signal.
type Navigator struct {
	cfg config.Config
}

// NewNavigator creates a Navigator.
func NewNavigator(cfg config.Config) *Navigator {
	return &Navigator{cfg: cfg}
}

// Load navigates the tab to the target URL. A navigation timeout or network
// error is fatal for this attempt and reported upward; it is not retried.
func (n *Navigator) Load(tabCtx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(tabCtx, n.cfg.NavigationTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	// Heuristic settle wait for client-side rendering; see config.SettleDelay.
	if err := chromedp.Run(tabCtx, chromedp.Sleep(n.cfg.SettleDelay)); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	if n.cfg.DebugScreenshots {
		n.captureSnapshot(tabCtx, "after-load")
	}

	return nil
}

// chromedpText reads the rendered body text of the current page.
func chromedpText(tabCtx context.Context, out *string) error {
	return chromedp.Run(tabCtx, chromedp.Text("body", out, chromedp.ByQuery))
}

// captureSnapshot writes a full-page screenshot to the configured directory.
// Write-only side channel: failures are logged and never affect the request.
func (n *Navigator) captureSnapshot(tabCtx context.Context, label string) {
	var buf []byte
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithCaptureBeyondViewport(true).Do(ctx)
		return err
	}))
	if err != nil {
		log.Debug().Err(err).Msg("diagnostic screenshot failed")
		return
	}

	if err := os.MkdirAll(n.cfg.ScreenshotDir, 0o755); err != nil {
		log.Debug().Err(err).Msg("diagnostic screenshot dir failed")
		return
	}

	name := fmt.Sprintf("%s-%d.png", label, time.Now().UnixMilli())
	path := filepath.Join(n.cfg.ScreenshotDir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("diagnostic screenshot write failed")
		return
	}

	log.Debug().Str("path", path).Msg("diagnostic screenshot written")
}
