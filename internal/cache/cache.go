// Package cache provides the process-local, per-user post list cache.
package cache

import (
	"sync"
	"time"

	"microblog/internal/domain"
)

type entry struct {
	posts     []domain.Post
	expiresAt time.Time
}

// PostCache memoizes each user's rendered post list for a bounded time.
// It is safe for concurrent use; get/put/invalidate are atomic with respect
// to each other. An entry whose expiry is at or before the read instant is
// treated as absent.
type PostCache struct {
	mu      sync.Mutex
	entries map[int64]entry
	now     func() time.Time
}

// New creates an empty PostCache using the wall clock.
func New() *PostCache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a PostCache with an injectable clock for tests.
func NewWithClock(now func() time.Time) *PostCache {
	return &PostCache{
		entries: make(map[int64]entry),
		now:     now,
	}
}

// Get returns the cached post list for a user, or ok=false when no live
// entry exists. Expired entries are purged on the way out.
func (c *PostCache) Get(userID int64) ([]domain.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, userID)
		return nil, false
	}

	out := make([]domain.Post, len(e.posts))
	copy(out, e.posts)
	return out, true
}

// Put stores the post list for a user, unconditionally replacing any
// existing entry and resetting the expiry to now + ttl. The slice is copied
// so later mutation by the caller cannot corrupt the cached value.
func (c *PostCache) Put(userID int64, posts []domain.Post, ttl time.Duration) {
	stored := make([]domain.Post, len(posts))
	copy(stored, posts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = entry{
		posts:     stored,
		expiresAt: c.now().Add(ttl),
	}
}

// Invalidate removes the entry for a user. Removing an absent key is a no-op.
func (c *PostCache) Invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Len reports the number of live and expired entries currently held.
func (c *PostCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
