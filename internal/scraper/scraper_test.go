package scraper

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
)

// With the live browser disabled the engine serves simulated data
// exclusively and never launches Chrome, which keeps these end-to-end
// tests hermetic.

func TestScrapeTrainScheduleSimulatedEndToEnd(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	defer s.Cleanup()
	s.ClearCache()

	record := s.ScrapeTrainSchedule(context.Background(), "Ayala", "Buendia", "MRT-3")

	assert.Equal(t, "MRT-3", record.Line)
	assert.Equal(t, "Ayala", record.Origin)
	assert.Equal(t, "Buendia", record.Destination)
	assert.True(t, record.Simulated)
	require.NotNil(t, record.NextTrains)
	assert.Len(t, record.NextTrains, 5)
	assert.GreaterOrEqual(t, record.EstimatedTravelTime, 0)
	assert.NotEmpty(t, record.LastUpdated)
}

func TestScrapeTrainScheduleServesCachedRecord(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	defer s.Cleanup()

	first := s.ScrapeTrainSchedule(context.Background(), "Ayala", "Buendia", "MRT-3")
	second := s.ScrapeTrainSchedule(context.Background(), "Ayala", "Buendia", "MRT-3")

	// The second call is a cache hit: the identical record comes back.
	assert.Equal(t, first, second)

	info := s.GetCacheInfo()
	assert.Equal(t, 1, info.TotalEntries)
	require.Len(t, info.Entries, 1)
	assert.Equal(t, "ayala|buendia", info.Entries[0].Key)
	assert.True(t, info.Entries[0].Valid)
	assert.True(t, info.Entries[0].Simulated)
}

func TestScrapeTrainScheduleTotalAvailability(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	defer s.Cleanup()

	routes := [][3]string{
		{"Ayala", "Buendia", "MRT-3"},
		{"North Avenue", "Taft Avenue", "MRT-3"},
		{"Baclaran", "Monumento", "LRT-1"},
		{"Recto", "Antipolo", "LRT-2"},
	}

	for _, route := range routes {
		record := s.ScrapeTrainSchedule(context.Background(), route[0], route[1], route[2])
		require.NotNil(t, record.NextTrains, "route %v", route)
		assert.NotEmpty(t, record.NextTrains, "route %v", route)
		assert.GreaterOrEqual(t, record.EstimatedTravelTime, 0, "route %v", route)
		assert.Equal(t, "operational", record.Status, "route %v", route)
	}
}

func TestScrapeTrainScheduleConcurrentSameRoute(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	defer s.Cleanup()

	const callers = 8
	var wg sync.WaitGroup
	records := make([]string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := s.ScrapeTrainSchedule(context.Background(), "Cubao", "Ortigas", "MRT-3")
			records[i] = record.LastUpdated
		}(i)
	}
	wg.Wait()

	// In-flight deduplication plus the cache mean one populated entry.
	assert.Equal(t, 1, s.GetCacheInfo().TotalEntries)
	for _, stamp := range records {
		assert.NotEmpty(t, stamp)
	}
}

func TestClearCacheResetsEntries(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	defer s.Cleanup()

	s.ScrapeTrainSchedule(context.Background(), "Ayala", "Buendia", "MRT-3")
	require.Equal(t, 1, s.GetCacheInfo().TotalEntries)

	s.ClearCache()
	assert.Equal(t, 0, s.GetCacheInfo().TotalEntries)
}

func TestGetLineStatusSimulated(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	defer s.Cleanup()

	status := s.GetLineStatus(context.Background(), "MRT-3")
	assert.Equal(t, "MRT-3", status.Line)
	assert.Equal(t, "operational", status.Status)
	assert.True(t, status.Simulated)
}

func TestCleanupIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewScraper(config.Default())
	s.Cleanup()
	s.Cleanup()
}
