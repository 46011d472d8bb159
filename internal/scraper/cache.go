package scraper

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// cacheEntry pairs a record with the instant it was written. Entries are
// never actively evicted; validity is computed lazily at read time and a
// stale entry is simply overwritten by the next write for its key.
type cacheEntry struct {
	data      models.ScheduleRecord
	timestamp time.Time
}

// ScheduleCache is a time-bounded memo of ScheduleRecord keyed by the
// case-insensitive (origin, destination) pair. Live and simulated records
// are cached identically so sustained site unavailability does not retrigger
// browser work inside the TTL window.
type ScheduleCache struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry
	duration time.Duration
	now      func() time.Time // injectable for tests
}

// NewScheduleCache creates a cache with the given TTL.
func NewScheduleCache(duration time.Duration) *ScheduleCache {
	return &ScheduleCache{
		entries:  make(map[string]cacheEntry),
		duration: duration,
		now:      time.Now,
	}
}

// CacheKey normalizes an (origin, destination) pair: trimmed, lower-cased,
// joined with a pipe.
func CacheKey(origin, destination string) string {
	return strings.ToLower(strings.TrimSpace(origin)) + "|" + strings.ToLower(strings.TrimSpace(destination))
}

// Get returns the cached record for the route and whether it is still valid.
// Invalid entries are skipped, not removed.
func (c *ScheduleCache) Get(origin, destination string) (models.ScheduleRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[CacheKey(origin, destination)]
	if !ok || !c.isValid(entry.timestamp) {
		return models.ScheduleRecord{}, false
	}
	return entry.data, true
}

// Put stores a record for the route, replacing any previous entry.
func (c *ScheduleCache) Put(origin, destination string, record models.ScheduleRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[CacheKey(origin, destination)] = cacheEntry{
		data:      record,
		timestamp: c.now(),
	}
}

// Clear removes every entry.
func (c *ScheduleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// Info reports the cache contents for diagnostics, keys sorted for stable
// output.
func (c *ScheduleCache) Info() models.CacheInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info := models.CacheInfo{
		TotalEntries:  len(c.entries),
		CacheDuration: int(c.duration.Seconds()),
		Entries:       make([]models.CacheEntryInfo, 0, len(c.entries)),
	}

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := c.entries[key]
		info.Entries = append(info.Entries, models.CacheEntryInfo{
			Key:       key,
			Timestamp: entry.timestamp,
			Valid:     c.isValid(entry.timestamp),
			Simulated: entry.data.Simulated,
		})
	}

	return info
}

func (c *ScheduleCache) isValid(timestamp time.Time) bool {
	return c.now().Sub(timestamp) < c.duration
}
