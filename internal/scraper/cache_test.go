package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

func TestCachePutThenGet(t *testing.T) {
	t.Parallel()

	c := NewScheduleCache(300 * time.Second)
	record := models.ScheduleRecord{Line: "MRT-3", Origin: "Ayala", Destination: "Buendia", Simulated: true}

	c.Put("Ayala", "Buendia", record)

	got, ok := c.Get("Ayala", "Buendia")
	require.True(t, ok)
	assert.Equal(t, record, got)
}

func TestCacheKeyNormalization(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ayala|buendia", CacheKey(" Ayala ", "BUENDIA"))

	c := NewScheduleCache(300 * time.Second)
	c.Put("AYALA", "buendia ", models.ScheduleRecord{Line: "MRT-3"})

	_, ok := c.Get(" ayala", "Buendia")
	assert.True(t, ok)
}

func TestCacheExpiryIsLazy(t *testing.T) {
	t.Parallel()

	c := NewScheduleCache(300 * time.Second)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Put("Ayala", "Buendia", models.ScheduleRecord{Line: "MRT-3", Simulated: true})

	_, ok := c.Get("Ayala", "Buendia")
	assert.True(t, ok)

	// Advance past the TTL: the entry becomes a miss but is not evicted.
	current = current.Add(301 * time.Second)

	_, ok = c.Get("Ayala", "Buendia")
	assert.False(t, ok)

	info := c.Info()
	assert.Equal(t, 1, info.TotalEntries)
	require.Len(t, info.Entries, 1)
	assert.Equal(t, "ayala|buendia", info.Entries[0].Key)
	assert.False(t, info.Entries[0].Valid)
	assert.True(t, info.Entries[0].Simulated)
}

func TestCacheOverwriteReplacesEntry(t *testing.T) {
	t.Parallel()

	c := NewScheduleCache(300 * time.Second)
	c.Put("Ayala", "Buendia", models.ScheduleRecord{Simulated: true})
	c.Put("Ayala", "Buendia", models.ScheduleRecord{Simulated: false, Source: models.SourceDOMExtraction})

	got, ok := c.Get("Ayala", "Buendia")
	require.True(t, ok)
	assert.False(t, got.Simulated)
	assert.Equal(t, models.SourceDOMExtraction, got.Source)
	assert.Equal(t, 1, c.Info().TotalEntries)
}

func TestCacheClear(t *testing.T) {
	t.Parallel()

	c := NewScheduleCache(300 * time.Second)
	c.Put("Ayala", "Buendia", models.ScheduleRecord{})
	c.Put("Cubao", "Ortigas", models.ScheduleRecord{})
	require.Equal(t, 2, c.Info().TotalEntries)

	c.Clear()

	assert.Equal(t, 0, c.Info().TotalEntries)
	_, ok := c.Get("Ayala", "Buendia")
	assert.False(t, ok)
}

func TestCacheInfoReportsDuration(t *testing.T) {
	t.Parallel()

	c := NewScheduleCache(120 * time.Second)
	assert.Equal(t, 120, c.Info().CacheDuration)
}
