package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

const (
	entryKeyPrefix = "entry:"

	// tombstone marks a deleted id. It never decodes as an entry.
	tombstone = "deleted"

	DefaultTombstoneTTL = time.Minute
)

// setIfNewer writes ARGV[1] unless the key holds a tombstone or a snapshot
// whose version is at least ARGV[2]. It returns 1 when the write happened.
//
// KEYS[1] entry key
// ARGV[1] encoded entry, ARGV[2] version, ARGV[3] tombstone, ARGV[4] ttl in ms
var setIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  if cur == ARGV[3] then
    return 0
  end
  local ok, doc = pcall(cjson.decode, cur)
  if ok and type(doc) == 'table' then
    local v = tonumber(doc['version'])
    if v and v >= tonumber(ARGV[2]) then
      return 0
    end
  end
end
local ttl = tonumber(ARGV[4])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// EntryCache stores JSON snapshots of time entries under entry:<id>. It is
// shared between API instances, so writes only ever move an id forward in
// version and deletes leave a tombstone that outlives in-flight fills.
// A positive ttl bounds how long a snapshot can outlive a lost eviction.
type EntryCache struct {
	client       *redis.Client
	ttl          time.Duration
	tombstoneTTL time.Duration
}

// NewEntryCache creates an EntryCache wrapping the given Redis client.
// A non-positive tombstoneTTL falls back to DefaultTombstoneTTL.
func NewEntryCache(client *redis.Client, ttl, tombstoneTTL time.Duration) *EntryCache {
	if tombstoneTTL <= 0 {
		tombstoneTTL = DefaultTombstoneTTL
	}
	return &EntryCache{client: client, ttl: ttl, tombstoneTTL: tombstoneTTL}
}

func (c *EntryCache) Get(ctx context.Context, id int64) (*domain.TimeEntry, bool, error) {
	raw, err := c.client.Get(ctx, entryKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("entry cache get: %w", err)
	}
	if isTombstone(raw) {
		return nil, false, nil
	}

	var e domain.TimeEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("entry cache decode %d: %w", id, err)
	}
	return &e, true, nil
}

// Set stores e unless the cache already has this version or a newer one, or
// the id was deleted within the tombstone window.
func (c *EntryCache) Set(ctx context.Context, e *domain.TimeEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("entry cache encode %d: %w", e.ID, err)
	}
	args := []interface{}{raw, e.Version, tombstone, c.ttl.Milliseconds()}
	if err := setIfNewer.Run(ctx, c.client, []string{entryKey(e.ID)}, args...).Err(); err != nil {
		return fmt.Errorf("entry cache set: %w", err)
	}
	return nil
}

// Delete replaces the snapshot with a tombstone.
func (c *EntryCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Set(ctx, entryKey(id), tombstone, c.tombstoneTTL).Err(); err != nil {
		return fmt.Errorf("entry cache delete: %w", err)
	}
	return nil
}

func entryKey(id int64) string {
	return entryKeyPrefix + strconv.FormatInt(id, 10)
}

func isTombstone(raw []byte) bool {
	return string(raw) == tombstone
}
