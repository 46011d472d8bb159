// Package scraper: engine orchestration. The caller-visible contract is
// "always returns a ScheduleRecord": every internal failure funnels into
// the deterministic simulation path, with the record's simulated/source
// fields as the only signal of degraded quality.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// Scraper is the extraction-and-resilience engine. Construct one per process
// with NewScraper and share it; it owns the cache and the browser session.
type Scraper struct {
	cfg        config.Config
	sessions   *SessionManager
	navigator  *Navigator
	search     *SearchInteractor
	chain      *StrategyChain
	normalizer *Normalizer
	simulator  *Simulator
	cache      *ScheduleCache
	inflight   singleflight.Group
}

// NewScraper wires the engine with the default strategy order: DOM mining,
// embedded-state inspection, network interception.
func NewScraper(cfg config.Config) *Scraper {
	return &Scraper{
		cfg:       cfg,
		sessions:  NewSessionManager(cfg),
		navigator: NewNavigator(cfg),
		search:    NewSearchInteractor(cfg),
		chain: NewStrategyChain(
			NewDOMMiningStrategy(),
			NewEmbeddedStateStrategy(),
			NewNetworkInterceptStrategy(cfg),
		),
		normalizer: NewNormalizer(),
		simulator:  NewSimulator(),
		cache:      NewScheduleCache(cfg.CacheDuration),
	}
}

// ScrapeTrainSchedule returns the schedule for a route, from cache when a
// valid entry exists, otherwise by live extraction, otherwise simulated.
// Concurrent requests for the same route share one extraction. The function
// is total: it always produces a well-formed record.
func (s *Scraper) ScrapeTrainSchedule(ctx context.Context, origin, destination, line string) models.ScheduleRecord {
	if record, ok := s.cache.Get(origin, destination); ok {
		log.Debug().Str("origin", origin).Str("destination", destination).Msg("serving cached schedule")
		return record
	}

	key := CacheKey(origin, destination)
	result, _, _ := s.inflight.Do(key, func() (interface{}, error) {
		// Another caller may have populated the cache while this one
		// waited on the flight group.
		if record, ok := s.cache.Get(origin, destination); ok {
			return record, nil
		}

		record := s.fetchSchedule(ctx, origin, destination, line)
		s.cache.Put(origin, destination, record)
		return record, nil
	})

	return result.(models.ScheduleRecord)
}

// fetchSchedule attempts live extraction and degrades to simulation on any
// failure. Simulated records are cached like live ones so sustained site
// unavailability does not retrigger browser work inside the TTL window.
func (s *Scraper) fetchSchedule(ctx context.Context, origin, destination, line string) models.ScheduleRecord {
	if !s.cfg.UseLiveBrowser {
		log.Debug().Str("origin", origin).Str("destination", destination).Msg("live browser disabled, simulating")
		return s.simulator.Simulate(origin, destination, line)
	}

	record, err := s.extractLive(ctx, origin, destination, line)
	if err != nil {
		log.Warn().Err(err).Str("origin", origin).Str("destination", destination).Msg("live extraction failed, falling back to simulation")
		return s.simulator.Simulate(origin, destination, line)
	}

	return record
}

// extractLive runs one full live attempt: isolated tab, navigation, search
// interaction, strategy chain, normalization.
func (s *Scraper) extractLive(ctx context.Context, origin, destination, line string) (models.ScheduleRecord, error) {
	start := time.Now()

	tabCtx, closeTab, err := s.sessions.NewTab()
	if err != nil {
		return models.ScheduleRecord{}, err
	}
	defer closeTab()

	attemptCtx, cancel := context.WithTimeout(tabCtx, s.cfg.BrowserTimeout)
	defer cancel()

	if err := s.navigator.Load(attemptCtx, s.cfg.BaseURL); err != nil {
		return models.ScheduleRecord{}, err
	}

	// An unconfirmed search is not fatal: the strategies still get a shot
	// at whatever the page is showing.
	if !s.search.Search(attemptCtx, origin, line) {
		log.Debug().Str("origin", origin).Msg("search interaction unconfirmed")
	}

	trains, details, source, ok := s.chain.Extract(attemptCtx, origin, destination, line)
	if !ok {
		return models.ScheduleRecord{}, fmt.Errorf("all extraction strategies exhausted for %s to %s", origin, destination)
	}

	record := s.normalizer.Normalize(trains, origin, destination, line, source, details)
	log.Info().
		Str("origin", origin).
		Str("destination", destination).
		Str("source", source).
		Int("trains", len(record.NextTrains)).
		Dur("took", time.Since(start)).
		Msg("live extraction succeeded")

	return record, nil
}

// GetLineStatus reports the operational status of a line. With the live
// browser enabled it scans the landing page for disruption wording about the
// line; any failure degrades to the simulated "running normally" status.
func (s *Scraper) GetLineStatus(ctx context.Context, line string) models.LineStatus {
	if !s.cfg.UseLiveBrowser {
		return s.simulator.SimulateLineStatus(line)
	}

	status, err := s.probeLineStatus(ctx, line)
	if err != nil {
		log.Debug().Err(err).Str("line", line).Msg("live status probe failed")
		return s.simulator.SimulateLineStatus(line)
	}
	return status
}

func (s *Scraper) probeLineStatus(ctx context.Context, line string) (models.LineStatus, error) {
	tabCtx, closeTab, err := s.sessions.NewTab()
	if err != nil {
		return models.LineStatus{}, err
	}
	defer closeTab()

	attemptCtx, cancel := context.WithTimeout(tabCtx, s.cfg.BrowserTimeout)
	defer cancel()

	if err := s.navigator.Load(attemptCtx, s.cfg.BaseURL); err != nil {
		return models.LineStatus{}, err
	}

	var bodyText string
	if err := chromedpText(attemptCtx, &bodyText); err != nil {
		return models.LineStatus{}, err
	}

	status := models.LineStatus{
		Line:        line,
		Status:      "operational",
		LastUpdated: time.Now().Format(time.RFC3339),
		Message:     "Service running normally",
		Simulated:   false,
	}

	lower := strings.ToLower(bodyText)
	if strings.Contains(lower, strings.ToLower(line)) {
		for _, kw := range append(DelayKeywords, CancelKeywords...) {
			if strings.Contains(lower, kw) {
				status.Message = "Possible service disruption reported"
				break
			}
		}
	}

	return status, nil
}

// GetCacheInfo returns the diagnostic view of the schedule cache.
func (s *Scraper) GetCacheInfo() models.CacheInfo {
	return s.cache.Info()
}

// ClearCache performs an administrative reset of the schedule cache.
func (s *Scraper) ClearCache() {
	s.cache.Clear()
	log.Info().Msg("schedule cache cleared")
}

// Cleanup releases the shared browser session. Safe to call multiple times.
func (s *Scraper) Cleanup() {
	s.sessions.Release()
}
