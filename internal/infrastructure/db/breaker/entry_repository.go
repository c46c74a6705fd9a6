// Package breaker guards persistence adapters with a circuit breaker so an
// unreachable store fails fast with domain.ErrStoreUnavailable.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
	"github.com/kazale/ponto-inteligente/internal/metrics"
)

// Settings tunes when the breaker opens and how long it stays open.
type Settings struct {
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	OpenTimeout  time.Duration
	HalfOpenMax  uint32
}

func (s Settings) withDefaults() Settings {
	if s.MinRequests == 0 {
		s.MinRequests = 5
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}
	if s.Interval <= 0 {
		s.Interval = 10 * time.Second
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 5 * time.Second
	}
	if s.HalfOpenMax == 0 {
		s.HalfOpenMax = 1
	}
	return s
}

// EntryRepository decorates a ports.EntryRepository. Calls made while the
// breaker is open never reach the wrapped repository.
type EntryRepository struct {
	next ports.EntryRepository
	cb   *gobreaker.CircuitBreaker
}

func NewEntryRepository(next ports.EntryRepository, st Settings, log zerolog.Logger) *EntryRepository {
	st = st.withDefaults()
	const name = "entries"
	metrics.StoreBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: st.HalfOpenMax,
		Interval:    st.Interval,
		Timeout:     st.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= st.MinRequests && failureRatio >= st.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StoreBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("store", name).Str("from", from.String()).Str("to", to.String()).Msg("store breaker state changed")
		},
		// A missing row is an answer, not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrEntryNotFound)
		},
	})
	return &EntryRepository{next: next, cb: cb}
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	return execute(r.cb, func() (*domain.TimeEntry, error) { return r.next.FindByID(ctx, id) })
}

func (r *EntryRepository) Save(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	return execute(r.cb, func() (*domain.TimeEntry, error) { return r.next.Save(ctx, e) })
}

func (r *EntryRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := execute(r.cb, func() (struct{}, error) { return struct{}{}, r.next.DeleteByID(ctx, id) })
	return err
}

func (r *EntryRepository) FindByEmployee(ctx context.Context, req ports.EntryPageRequest) (*ports.Page[*domain.TimeEntry], error) {
	return execute(r.cb, func() (*ports.Page[*domain.TimeEntry], error) { return r.next.FindByEmployee(ctx, req) })
}

// State exposes the breaker state for readiness checks.
func (r *EntryRepository) State() gobreaker.State {
	return r.cb.State()
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %s breaker: %v", domain.ErrStoreUnavailable, cb.Name(), err)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}
