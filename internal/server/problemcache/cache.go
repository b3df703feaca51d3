// Package problemcache holds generated practice problems in memory between
// the generation step and the evaluation step. Entries are process-lifetime
// state: they survive until they expire or the process restarts, and an
// evaluation referencing a missing key is a reported error, never an implicit
// regeneration.
package problemcache

import (
	"context"
	"sync"
	"time"

	"github.com/codequest-dev/codequest/internal/server/models"
)

// now is a seam for tests that need deterministic expiry.
var now = time.Now

type entry struct {
	problem   models.Problem
	expiresAt time.Time
}

// Cache is a TTL-bounded keyed store shared by all in-flight requests.
// Problems are stored by value, so an entry is always observed whole;
// same-key overwrites are last-write-wins.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// New creates a Cache whose entries expire ttl after insertion.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Put stores the problem under its id.
func (c *Cache) Put(id string, problem models.Problem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{problem: problem, expiresAt: now().Add(c.ttl)}
}

// Get returns the problem stored under id. The second return value is false
// when the id was never inserted or its entry has expired.
func (c *Cache) Get(id string) (models.Problem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || now().After(e.expiresAt) {
		return models.Problem{}, false
	}
	return e.problem, true
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// sweep removes expired entries and returns how many were dropped.
func (c *Cache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := now()
	removed := 0
	for id, e := range c.entries {
		if t.After(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper periodically evicts expired entries until ctx is cancelled.
// It returns immediately; the sweep loop runs on its own goroutine.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}
