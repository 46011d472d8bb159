package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// maxContextSnippet caps the diagnostic text kept alongside each extracted
// time.
const maxContextSnippet = 120

// DOMMiningStrategy scans the rendered markup with a broad, ordered list of
// class/attribute heuristics, applies the time-token patterns to the visible
// text, and keeps every calendar-valid, deduplicated token up to the cap.
// Status and direction are inferred best-effort from the text surrounding
// each token.
type DOMMiningStrategy struct {
	sanitizer *bluemonday.Policy
}

// NewDOMMiningStrategy creates the strategy. The strict sanitizer strips any
// markup that leaks into captured context snippets, which come from
// arbitrary page text.
func NewDOMMiningStrategy() *DOMMiningStrategy {
	return &DOMMiningStrategy{sanitizer: bluemonday.StrictPolicy()}
}

// Name implements Strategy.
func (s *DOMMiningStrategy) Name() string { return models.SourceDOMExtraction }

// Extract implements Strategy.
func (s *DOMMiningStrategy) Extract(tabCtx context.Context, origin, destination, line string) ([]models.TrainTime, *models.ExtractionDetails, error) {
	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, nil, fmt.Errorf("reading page markup: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing page markup: %w", err)
	}

	details := &models.ExtractionDetails{}
	seen := make(map[string]bool)
	var trains []models.TrainTime

	for _, selector := range ScheduleSelectors {
		details.SelectorsTried++

		doc.Find(selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			details.ElementsMatched++

			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return true
			}

			for _, clock := range s.mineTimeTokens(text) {
				if seen[clock] {
					continue
				}
				seen[clock] = true

				surrounding := text
				if parent := sel.Parent(); parent.Length() > 0 {
					surrounding = strings.TrimSpace(parent.Text())
				}
				snippet := s.sanitizer.Sanitize(surrounding)
				if len(snippet) > maxContextSnippet {
					snippet = snippet[:maxContextSnippet]
				}

				trains = append(trains, models.TrainTime{
					Time:          clock,
					Status:        inferStatus(surrounding),
					Direction:     inferDirection(surrounding),
					ExtractedFrom: selector,
					Context:       snippet,
				})
				if len(trains) >= MaxTrainTimes {
					return false
				}
			}
			return true
		})

		if len(trains) >= MaxTrainTimes {
			break
		}
	}

	details.UniqueTimes = len(trains)
	return trains, details, nil
}

// mineTimeTokens applies the fixed token patterns to a text node and returns
// the calendar-valid times, normalized to HH:MM. Patterns run in order:
// colon form (with optional meridiem) first, then the dot form.
func (s *DOMMiningStrategy) mineTimeTokens(text string) []string {
	var tokens []string

	for _, match := range TimePatternColon.FindAllStringSubmatch(text, -1) {
		if clock, ok := NormalizeTimeToken(match[1], match[2], match[3]); ok {
			tokens = append(tokens, clock)
		}
	}
	for _, match := range TimePatternDot.FindAllStringSubmatch(text, -1) {
		if clock, ok := NormalizeTimeToken(match[1], match[2], ""); ok {
			tokens = append(tokens, clock)
		}
	}

	return tokens
}
