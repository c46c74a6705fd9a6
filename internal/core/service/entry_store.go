package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
	"github.com/kazale/ponto-inteligente/internal/metrics"
)

const lockShards = 64

// EntryStore serves time entries by id through a write-through cache.
//
// The repository is the source of truth: every mutation reaches it first and
// the cache follows only after the repository confirms. Within one process,
// mutations and cache fills for the same id are serialised on a shard lock.
// Across processes sharing a cache, ordering comes from the cache itself: it
// refuses snapshots older than the one it holds and blocks fills of deleted
// ids. Cache hits are lock-free.
type EntryStore struct {
	repo  ports.EntryRepository
	cache ports.EntryCache
	locks [lockShards]sync.Mutex
	log   zerolog.Logger
}

func NewEntryStore(repo ports.EntryRepository, cache ports.EntryCache, log zerolog.Logger) *EntryStore {
	return &EntryStore{repo: repo, cache: cache, log: log}
}

// Get returns the entry for id or domain.ErrEntryNotFound. Misses are not cached.
func (s *EntryStore) Get(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	if e, ok := s.cached(ctx, id); ok {
		metrics.EntryCacheLookupsTotal.WithLabelValues("hit").Inc()
		return e, nil
	}
	metrics.EntryCacheLookupsTotal.WithLabelValues("miss").Inc()

	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	// Another worker may have filled or written the entry while we waited.
	if e, ok := s.cached(ctx, id); ok {
		return e, nil
	}

	start := time.Now()
	e, err := s.repo.FindByID(ctx, id)
	observe("find", start, err)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, e); err != nil {
		s.log.Warn().Err(err).Int64("entry_id", id).Msg("entry cache fill failed")
	}
	return e.Clone(), nil
}

// Put persists e and then overwrites the cached copy with the persisted value.
// When the store write fails the cache is left untouched.
func (s *EntryStore) Put(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	if e == nil {
		return nil, errors.New("entry store: nil entry")
	}
	if e.ID == 0 {
		return s.insert(ctx, e)
	}

	mu := s.lock(e.ID)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()
	saved, err := s.repo.Save(ctx, e.Clone())
	observe("save", start, err)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, saved); err != nil {
		if err := s.evictAfterFailedSet(ctx, saved.ID, err); err != nil {
			return saved.Clone(), err
		}
	}
	return saved.Clone(), nil
}

// insert handles entries without an id. The id only exists once the store has
// assigned it, so the cache is filled afterwards; a newer value that reached
// the cache in between wins on version.
func (s *EntryStore) insert(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	start := time.Now()
	saved, err := s.repo.Save(ctx, e.Clone())
	observe("save", start, err)
	if err != nil {
		return nil, err
	}

	mu := s.lock(saved.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.cache.Set(ctx, saved); err != nil {
		s.log.Warn().Err(err).Int64("entry_id", saved.ID).Msg("entry cache fill after insert failed")
	}
	return saved.Clone(), nil
}

// Remove deletes id from the store and then evicts it from the cache.
// Removing an absent id is not an error.
func (s *EntryStore) Remove(ctx context.Context, id int64) error {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()
	err := s.repo.DeleteByID(ctx, id)
	observe("delete", start, err)
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		metrics.EntryCacheInvalidationFailuresTotal.Inc()
		s.log.Error().Err(err).Int64("entry_id", id).Msg("entry deleted but cache eviction failed")
		return fmt.Errorf("entry %d deleted but cache eviction failed: %w", id, err)
	}
	return nil
}

// ListByEmployee is a range query; pages are never cached.
func (s *EntryStore) ListByEmployee(ctx context.Context, req ports.EntryPageRequest) (*ports.Page[*domain.TimeEntry], error) {
	start := time.Now()
	page, err := s.repo.FindByEmployee(ctx, req)
	observe("list", start, err)
	return page, err
}

func (s *EntryStore) cached(ctx context.Context, id int64) (*domain.TimeEntry, bool) {
	e, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		metrics.EntryCacheLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Int64("entry_id", id).Msg("entry cache read failed, falling back to store")
		return nil, false
	}
	if !ok || e == nil {
		return nil, false
	}
	return e.Clone(), true
}

// evictAfterFailedSet drops the cached copy when it could not be overwritten,
// so the next read goes to the store instead of serving the old value.
func (s *EntryStore) evictAfterFailedSet(ctx context.Context, id int64, setErr error) error {
	s.log.Warn().Err(setErr).Int64("entry_id", id).Msg("entry cache write failed, evicting")
	if err := s.cache.Delete(ctx, id); err != nil {
		metrics.EntryCacheInvalidationFailuresTotal.Inc()
		s.log.Error().Err(err).Int64("entry_id", id).Msg("entry persisted but cache could not be invalidated")
		return fmt.Errorf("entry %d persisted but cache could not be invalidated: %w", id, err)
	}
	return nil
}

// lock maps an id deterministically to one of the shard mutexes.
func (s *EntryStore) lock(id int64) *sync.Mutex {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	h := fnv.New32a()
	_, _ = h.Write(b[:])
	return &s.locks[h.Sum32()%lockShards]
}

func observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		outcome = "error"
	}
	metrics.EntryStoreOpDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
