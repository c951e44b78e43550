/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
	"context"
	"sync"
	"time"

	"github.com/example/mr-pulse/internal/domain"
	"github.com/rs/zerolog"
)

type snapshotCollector interface {
	Collect(ctx context.Context) *domain.Snapshot
}

type reworkNotifier interface {
	MaybeNotify(ctx context.Context, items []domain.ReworkItem, lastNotified int) (bool, int)
}

// Cache memoizes collection cycles for a fixed freshness window. It is the
// only shared mutable state in the process: the freshness check, the
// refresh, the snapshot swap and the notifier bookkeeping all happen under
// one mutex, so at most one collection is ever in flight and readers never
// see a half-built snapshot.
type Cache struct {
	mu           sync.Mutex
	ttl          time.Duration
	collector    snapshotCollector
	notifier     reworkNotifier
	log          zerolog.Logger
	now          func() time.Time
	snap         *domain.Snapshot
	refreshedAt  time.Time
	lastNotified int
}

func NewCache(ttl time.Duration, collector snapshotCollector, notifier reworkNotifier, log zerolog.Logger) *Cache {
	return &Cache{ttl: ttl, collector: collector, notifier: notifier, log: log, now: time.Now}
}

// GetOrRefresh returns the cached snapshot while it is fresh, otherwise
// runs one collection cycle and swaps it in. Callers arriving during a
// refresh block on the mutex and read the snapshot that refresh produced.
func (c *Cache) GetOrRefresh(ctx context.Context) *domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.snap != nil && now.Sub(c.refreshedAt) < c.ttl {
		return c.snap
	}

	c.log.Info().Msg("collecting gitlab metrics")
	snap := c.collector.Collect(ctx)
	c.snap = snap
	c.refreshedAt = now
	if c.notifier != nil {
		_, c.lastNotified = c.notifier.MaybeNotify(ctx, snap.ReworkMine, c.lastNotified)
	}
	return snap
}
