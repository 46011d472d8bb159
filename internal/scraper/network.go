package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// NetworkInterceptStrategy installs a response listener, provokes plausible
// server round-trips (clicking refresh-labeled controls, in-page fetches of
// conjectured backend endpoints), and hands every captured JSON body whose
// URL matches the allow-list to the payload parsers.
type NetworkInterceptStrategy struct {
	cfg config.Config
}

// NewNetworkInterceptStrategy creates the strategy.
func NewNetworkInterceptStrategy(cfg config.Config) *NetworkInterceptStrategy {
	return &NetworkInterceptStrategy{cfg: cfg}
}

// Name implements Strategy.
func (s *NetworkInterceptStrategy) Name() string { return models.SourceNetworkInterception }

// Extract implements Strategy.
func (s *NetworkInterceptStrategy) Extract(tabCtx context.Context, origin, destination, line string) ([]models.TrainTime, *models.ExtractionDetails, error) {
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		return nil, nil, fmt.Errorf("enabling network domain: %w", err)
	}

	collector := newResponseCollector(tabCtx)
	chromedp.ListenTarget(tabCtx, collector.listen)

	s.clickRefreshControls(tabCtx)
	s.probeEndpoints(tabCtx)

	// Give provoked requests time to land; bounded by the settle delay.
	_ = chromedp.Run(tabCtx, chromedp.Sleep(s.cfg.SettleDelay))
	collector.stop()

	details := &models.ExtractionDetails{}
	for _, captured := range collector.captured() {
		details.ElementsMatched++
		if trains := ParsePayload(captured.body); len(trains) > 0 {
			for i := range trains {
				trains[i].ExtractedFrom = captured.url
			}
			details.UniqueTimes = len(trains)
			return trains, details, nil
		}
	}

	return nil, details, nil
}

// clickRefreshControls clicks the first visible refresh-labeled control, if
// any, to provoke a data reload.
func (s *NetworkInterceptStrategy) clickRefreshControls(tabCtx context.Context) {
	script := fmt.Sprintf(`(() => {
		const selectors = %s;
		for (const sel of selectors) {
			let els;
			try { els = document.querySelectorAll(sel); } catch (e) { continue; }
			for (const el of els) {
				const r = el.getBoundingClientRect();
				if (r.width <= 0 || r.height <= 0) continue;
				el.click();
				return true;
			}
		}
		return false;
	})()`, jsStringArray(RefreshSelectors))

	var clicked bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Debug().Err(err).Msg("refresh control probe failed")
	}
}

// probeEndpoints fires in-page fetches at the conjectured backend endpoint
// shapes. Responses, if any, arrive through the interception listener; the
// fetches themselves are fire-and-forget.
func (s *NetworkInterceptStrategy) probeEndpoints(tabCtx context.Context) {
	script := fmt.Sprintf(`(() => {
		const paths = %s;
		for (const p of paths) {
			try { fetch(p, { headers: { accept: 'application/json' } }).catch(() => {}); } catch (e) {}
		}
		return true;
	})()`, jsStringArray(APIEndpointPaths))

	var ok bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &ok)); err != nil {
		log.Debug().Err(err).Msg("endpoint probe failed")
	}
}

// capturedBody is one intercepted JSON response.
type capturedBody struct {
	url  string
	body []byte
}

// responseCollector gathers JSON bodies for allow-listed URLs. The listener
// callback must not block, so body retrieval happens in goroutines tracked
// by a WaitGroup; stop() waits for in-flight fetches before captured() is
// read.
type responseCollector struct {
	tabCtx  context.Context
	mu      sync.Mutex
	stopped bool
	bodies  []capturedBody
	wg      sync.WaitGroup
}

func newResponseCollector(tabCtx context.Context) *responseCollector {
	return &responseCollector{tabCtx: tabCtx}
}

func (c *responseCollector) listen(ev interface{}) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok {
		return
	}
	if !strings.Contains(strings.ToLower(resp.Response.MimeType), "json") {
		return
	}
	if !matchesAllowList(resp.Response.URL) {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	requestID := resp.RequestID
	url := resp.Response.URL

	go func() {
		defer c.wg.Done()

		cdpCtx := chromedp.FromContext(c.tabCtx)
		body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(c.tabCtx, cdpCtx.Target))
		if err != nil {
			log.Debug().Err(err).Str("url", url).Msg("response body fetch failed")
			return
		}

		c.mu.Lock()
		c.bodies = append(c.bodies, capturedBody{url: url, body: body})
		c.mu.Unlock()
	}()
}

// stop blocks new captures and waits for in-flight body fetches.
func (c *responseCollector) stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *responseCollector) captured() []capturedBody {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]capturedBody(nil), c.bodies...)
}

// matchesAllowList reports whether a URL looks like one of the conjectured
// backend shapes.
func matchesAllowList(url string) bool {
	lower := strings.ToLower(url)
	for _, pattern := range NetworkURLPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
