package collector

import (
	"context"
	"sync"
	"time"
)

// Cache serves the last snapshot and recollects it once it is older than
// ttl. Snapshots handed out are never mutated afterwards.
type Cache struct {
	mgr *Manager
	ttl time.Duration

	mu   sync.Mutex
	snap *Snapshot
	err  error
}

func NewCache(mgr *Manager, ttl time.Duration) *Cache {
	return &Cache{mgr: mgr, ttl: ttl}
}

// Get returns the cached snapshot, collecting a new one when it is stale.
// The error of the collection that produced the snapshot is returned with it.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && time.Since(c.snap.CollectedAt) < c.ttl {
		return c.snap, c.err
	}

	snap, err := c.mgr.Collect(ctx)
	if err != nil && ctx.Err() != nil {
		return c.snap, err
	}

	c.snap, c.err = snap, err
	return snap, err
}

// Invalidate forces the next Get to collect, e.g. after the classifier
// changed.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap, c.err = nil, nil
	c.mu.Unlock()
}
