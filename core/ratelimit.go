package core

import (
	"sync"
	"time"
)

// RateLimitInfo is the last observed rate limit window.
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimitTracker holds the most recent RateLimitInfo seen by one client.
// It is safe for concurrent use. Writes are last-write-wins.
type RateLimitTracker struct {
	mu   sync.RWMutex
	info RateLimitInfo
	seen bool
}

// Update replaces the stored snapshot.
func (t *RateLimitTracker) Update(info RateLimitInfo) {
	t.mu.Lock()
	t.info = info
	t.seen = true
	t.mu.Unlock()
}

// Snapshot returns the stored snapshot.
// ok is false until the first Update.
func (t *RateLimitTracker) Snapshot() (info RateLimitInfo, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info, t.seen
}
