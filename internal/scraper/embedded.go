package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// EmbeddedStateStrategy inspects state the client-side app leaves behind:
// first the well-known global state keys, then JSON fragments inside inline
// script bodies that mention trains. Parsing is opportunistic: a fragment
// that fails to parse is disqualified, nothing more.
type EmbeddedStateStrategy struct{}

// NewEmbeddedStateStrategy creates the strategy.
func NewEmbeddedStateStrategy() *EmbeddedStateStrategy {
	return &EmbeddedStateStrategy{}
}

// Name implements Strategy.
func (s *EmbeddedStateStrategy) Name() string { return models.SourceEmbeddedState }

// Extract implements Strategy.
func (s *EmbeddedStateStrategy) Extract(tabCtx context.Context, origin, destination, line string) ([]models.TrainTime, *models.ExtractionDetails, error) {
	details := &models.ExtractionDetails{}

	if trains := s.fromGlobalState(tabCtx, details); len(trains) > 0 {
		details.UniqueTimes = len(trains)
		return trains, details, nil
	}

	trains, err := s.fromInlineScripts(tabCtx, details)
	if err != nil {
		return nil, nil, err
	}

	details.UniqueTimes = len(trains)
	return trains, details, nil
}

// fromGlobalState serializes each known global state key inside the page and
// hands the JSON to the payload parsers. A key that is absent or fails to
// serialize is skipped.
func (s *EmbeddedStateStrategy) fromGlobalState(tabCtx context.Context, details *models.ExtractionDetails) []models.TrainTime {
	for _, key := range GlobalStateKeys {
		details.SelectorsTried++

		script := fmt.Sprintf(`(() => {
			try {
				const v = window[%q];
				if (!v) return "";
				return JSON.stringify(v);
			} catch (e) { return ""; }
		})()`, key)

		var raw string
		if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &raw)); err != nil || raw == "" {
			continue
		}

		details.ElementsMatched++
		if trains := ParsePayload([]byte(raw)); len(trains) > 0 {
			for i := range trains {
				trains[i].ExtractedFrom = "window." + key
			}
			return trains
		}
	}

	return nil
}

// fromInlineScripts scans inline script bodies for JSON fragments containing
// a train-like field and parses each opportunistically.
func (s *EmbeddedStateStrategy) fromInlineScripts(tabCtx context.Context, details *models.ExtractionDetails) ([]models.TrainTime, error) {
	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("reading page markup: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page markup: %w", err)
	}

	var trains []models.TrainTime
	doc.Find("script").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		body := sel.Text()
		if body == "" {
			return true
		}
		lower := strings.ToLower(body)
		if !strings.Contains(lower, "train") && !strings.Contains(lower, "schedule") {
			return true
		}

		details.SelectorsTried++
		for _, fragment := range JSONFragmentPattern.FindAllString(body, -1) {
			details.ElementsMatched++

			var probe map[string]any
			if err := json.Unmarshal([]byte(fragment), &probe); err != nil {
				continue // malformed fragment, disqualified
			}

			if found := ParsePayload([]byte(fragment)); len(found) > 0 {
				for i := range found {
					found[i].ExtractedFrom = "inline-script"
				}
				trains = found
				return false
			}
		}
		return true
	})

	return trains, nil
}
