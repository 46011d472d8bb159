package scraper

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// Strategy is one self-contained technique for extracting schedule data from
// a loaded page. Implementations are best-effort: they return whatever valid
// train times they found, and an error only for diagnostics; the chain
// treats errors and empty results identically.
type Strategy interface {
	Name() string
	Extract(tabCtx context.Context, origin, destination, line string) ([]models.TrainTime, *models.ExtractionDetails, error)
}

// StrategyChain runs strategies in fixed priority order and returns the
// first non-empty result. Later strategies are not run once one succeeds,
// to minimize live browser time.
type StrategyChain struct {
	strategies []Strategy
}

// NewStrategyChain builds a chain over the given strategies, preserving order.
func NewStrategyChain(strategies ...Strategy) *StrategyChain {
	return &StrategyChain{strategies: strategies}
}

// Extract returns the trains, diagnostic details and source tag from the
// first strategy that produced at least one valid TrainTime, or ok=false
// when every strategy came up empty. A panic inside a strategy is recovered
// and treated as "strategy produced nothing".
func (c *StrategyChain) Extract(tabCtx context.Context, origin, destination, line string) (trains []models.TrainTime, details *models.ExtractionDetails, source string, ok bool) {
	for _, strategy := range c.strategies {
		result, d, err := runStrategy(strategy, tabCtx, origin, destination, line)
		if err != nil {
			log.Debug().Err(err).Str("strategy", strategy.Name()).Msg("strategy failed")
			continue
		}
		if len(result) == 0 {
			log.Debug().Str("strategy", strategy.Name()).Msg("strategy found nothing")
			continue
		}

		log.Info().Str("strategy", strategy.Name()).Int("trains", len(result)).Msg("strategy succeeded")
		return result, d, strategy.Name(), true
	}

	return nil, nil, "", false
}

// runStrategy isolates a single strategy invocation so a panic cannot take
// down the request.
func runStrategy(s Strategy, tabCtx context.Context, origin, destination, line string) (trains []models.TrainTime, details *models.ExtractionDetails, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("strategy", s.Name()).Msg("strategy panicked")
			trains, details = nil, nil
			err = nil
		}
	}()

	return s.Extract(tabCtx, origin, destination, line)
}
