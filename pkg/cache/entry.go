package cache

import (
	"time"
)

// Entry represents a cached KEGG response body.
type Entry struct {
	// Body is the raw response body.
	Body []byte `json:"body"`

	// CachedAt is when the response was stored.
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry becomes stale. KEGG sends no cache
	// headers, so expiry comes from the client-configured TTL.
	Expires time.Time `json:"expires"`
}

// NewEntry creates a cache entry for a response body with the given TTL.
func NewEntry(body []byte, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Body:     body,
		CachedAt: now,
		Expires:  now.Add(ttl),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
