package spotify

import (
	"sync"
	"time"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

// trackCache memoizes GetTrack results. Enrichment hits the same track ids
// on every list read, so a short TTL absorbs most of the provider load.
type trackCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]trackEntry
}

type trackEntry struct {
	track   domain.Track
	expires time.Time
}

func newTrackCache(ttl time.Duration) *trackCache {
	return &trackCache{
		ttl:     ttl,
		entries: make(map[string]trackEntry),
	}
}

func (c *trackCache) get(id string) (domain.Track, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return domain.Track{}, false
	}
	return entry.track, true
}

func (c *trackCache) set(id string, t domain.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = trackEntry{track: t, expires: time.Now().Add(c.ttl)}
}
