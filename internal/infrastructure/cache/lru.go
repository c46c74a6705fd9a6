// Package cache holds the in-process EntryCache.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// DefaultSize bounds the cache when no capacity is configured.
const DefaultSize = 10000

// LRU keeps snapshots of time entries in memory, evicting the least recently
// used id once full. Values are copied on the way in and out.
type LRU struct {
	entries *lru.Cache[int64, *domain.TimeEntry]
}

func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[int64, *domain.TimeEntry](size)
	if err != nil {
		return nil, fmt.Errorf("entry lru: %w", err)
	}
	return &LRU{entries: c}, nil
}

func (c *LRU) Get(_ context.Context, id int64) (*domain.TimeEntry, bool, error) {
	e, ok := c.entries.Get(id)
	if !ok {
		return nil, false, nil
	}
	return e.Clone(), true, nil
}

// Set keeps the cached copy when it is already at e.Version or newer. The
// check and the write are not atomic; EntryStore serialises writers per id.
func (c *LRU) Set(_ context.Context, e *domain.TimeEntry) error {
	if cur, ok := c.entries.Peek(e.ID); ok && cur.Version >= e.Version {
		return nil
	}
	c.entries.Add(e.ID, e.Clone())
	return nil
}

func (c *LRU) Delete(_ context.Context, id int64) error {
	c.entries.Remove(id)
	return nil
}

// Len reports how many entries are cached.
func (c *LRU) Len() int {
	return c.entries.Len()
}
