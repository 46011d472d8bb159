package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rs/zerolog/log"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
)

// probeMarker is the attribute stamped onto the first visible element a
// probe accepts, so later chromedp actions target exactly that element and
// not a hidden duplicate earlier in the markup.
const probeMarker = "data-rush-probe"

// SearchInteractor drives the site's search UI: optional line pre-selection,
// input location, character-by-character typing, suggestion selection and a
// keyboard confirm fallback. Success is defined solely by a train-time
// pattern (or schedule-like element) becoming visible: the component
// vocabulary is unknown and unstable, so no UI-specific confirmation exists.
type SearchInteractor struct {
	cfg config.Config
}

// NewSearchInteractor creates a SearchInteractor.
func NewSearchInteractor(cfg config.Config) *SearchInteractor {
	return &SearchInteractor{cfg: cfg}
}

// Search performs the full search interaction for a station. It returns true
// iff the schedule signal was observed afterwards. Probe failures inside any
// step degrade to "not found" and the interaction continues with the next
// fallback.
func (s *SearchInteractor) Search(tabCtx context.Context, stationName, line string) bool {
	if line != "" {
		s.selectLine(tabCtx, line)
	}

	inputSel, ok := s.locateVisible(tabCtx, SearchInputSelectors, "input")
	if !ok {
		log.Debug().Msg("no visible search input found")
		return false
	}

	if !s.typeQuery(tabCtx, inputSel, stationName) {
		return false
	}

	// Let the suggestion list render.
	_ = chromedp.Run(tabCtx, chromedp.Sleep(s.cfg.SuggestionWait))

	if !s.clickSuggestion(tabCtx, stationName) {
		// No clickable suggestion; commit via keyboard instead.
		if err := chromedp.Run(tabCtx,
			chromedp.Focus(inputSel, chromedp.ByQuery),
			chromedp.KeyEvent(kb.Enter),
		); err != nil {
			log.Debug().Err(err).Msg("keyboard confirm failed")
		}
	}

	return s.waitForScheduleSignal(tabCtx)
}

// selectLine probes the candidate line affordances and clicks the first
// visible one whose label contains the line name. Best effort.
func (s *SearchInteractor) selectLine(tabCtx context.Context, line string) {
	script := fmt.Sprintf(`(() => {
		const selectors = %s;
		const want = %q.toLowerCase();
		for (const sel of selectors) {
			let els;
			try { els = document.querySelectorAll(sel); } catch (e) { continue; }
			for (const el of els) {
				const r = el.getBoundingClientRect();
				const st = getComputedStyle(el);
				if (r.width <= 0 || r.height <= 0 || st.visibility === 'hidden' || st.display === 'none') continue;
				if ((el.textContent || '').toLowerCase().includes(want)) { el.click(); return true; }
			}
		}
		return false;
	})()`, jsStringArray(LineSelectors), line)

	var clicked bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Debug().Err(err).Str("line", line).Msg("line pre-select probe failed")
		return
	}
	if clicked {
		_ = chromedp.Run(tabCtx, chromedp.Sleep(s.cfg.TypingDelay*4))
	}
}

// locateVisible probes selectors in priority order and marks the first
// visible match with the probe attribute. It returns the marker selector to
// use for subsequent actions. Visibility is a correctness gate: hidden
// duplicates exist in the markup.
func (s *SearchInteractor) locateVisible(tabCtx context.Context, selectors []string, tag string) (string, bool) {
	script := fmt.Sprintf(`(() => {
		const selectors = %s;
		document.querySelectorAll('[%s="%s"]').forEach(el => el.removeAttribute('%s'));
		for (const sel of selectors) {
			let els;
			try { els = document.querySelectorAll(sel); } catch (e) { continue; }
			for (const el of els) {
				const r = el.getBoundingClientRect();
				const st = getComputedStyle(el);
				if (r.width <= 0 || r.height <= 0 || st.visibility === 'hidden' || st.display === 'none') continue;
				el.setAttribute('%s', '%s');
				return true;
			}
		}
		return false;
	})()`, jsStringArray(selectors), probeMarker, tag, probeMarker, probeMarker, tag)

	var found bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &found)); err != nil {
		log.Debug().Err(err).Msg("visibility probe failed")
		return "", false
	}
	if !found {
		return "", false
	}
	return fmt.Sprintf(`[%s=%q]`, probeMarker, tag), true
}

// typeQuery clears the field and types the station name one character at a
// time so the site's incremental-search listeners fire.
func (s *SearchInteractor) typeQuery(tabCtx context.Context, inputSel, stationName string) bool {
	clearScript := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.focus();
		el.value = '';
		el.dispatchEvent(new Event('input', { bubbles: true }));
		return true;
	})()`, inputSel)

	var cleared bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(clearScript, &cleared)); err != nil || !cleared {
		log.Debug().Err(err).Msg("could not clear search input")
		return false
	}

	for _, r := range stationName {
		err := chromedp.Run(tabCtx,
			chromedp.SendKeys(inputSel, string(r), chromedp.ByQuery),
			chromedp.Sleep(s.cfg.TypingDelay),
		)
		if err != nil {
			log.Debug().Err(err).Msg("typing failed")
			return false
		}
	}

	return true
}

// clickSuggestion probes the suggestion selectors in order and clicks the
// first visible item whose text is a case-insensitive substring match, in
// either direction, of the queried name.
func (s *SearchInteractor) clickSuggestion(tabCtx context.Context, stationName string) bool {
	script := fmt.Sprintf(`(() => {
		const selectors = %s;
		const want = %q.toLowerCase();
		for (const sel of selectors) {
			let els;
			try { els = document.querySelectorAll(sel); } catch (e) { continue; }
			for (const el of els) {
				const r = el.getBoundingClientRect();
				const st = getComputedStyle(el);
				if (r.width <= 0 || r.height <= 0 || st.visibility === 'hidden' || st.display === 'none') continue;
				const text = (el.textContent || '').trim().toLowerCase();
				if (!text) continue;
				if (text.includes(want) || want.includes(text)) { el.click(); return true; }
			}
		}
		return false;
	})()`, jsStringArray(SuggestionSelectors), stationName)

	var clicked bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Debug().Err(err).Msg("suggestion probe failed")
		return false
	}
	return clicked
}

// waitForScheduleSignal polls, within a bounded window, for a train-time
// pattern anywhere in the rendered text or for a schedule-like element.
func (s *SearchInteractor) waitForScheduleSignal(tabCtx context.Context) bool {
	script := `(() => {
		if (/\b\d{1,2}[:.]\d{2}\b/.test(document.body.innerText || '')) return true;
		return document.querySelector('[class*="schedule"], [class*="train"], [class*="arrival"]') !== null;
	})()`

	deadline := time.Now().Add(s.cfg.ScheduleWait)
	for time.Now().Before(deadline) {
		var visible bool
		if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &visible)); err != nil {
			log.Debug().Err(err).Msg("schedule signal probe failed")
			return false
		}
		if visible {
			return true
		}
		if err := chromedp.Run(tabCtx, chromedp.Sleep(500*time.Millisecond)); err != nil {
			return false
		}
	}

	return false
}

// jsStringArray renders a Go string slice as a JavaScript array literal.
func jsStringArray(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
