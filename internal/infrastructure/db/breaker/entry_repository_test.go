package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

type flakyRepo struct {
	calls int
	err   error
}

func (r *flakyRepo) FindByID(_ context.Context, id int64) (*domain.TimeEntry, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &domain.TimeEntry{ID: id}, nil
}

func (r *flakyRepo) Save(_ context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return e.Clone(), nil
}

func (r *flakyRepo) DeleteByID(_ context.Context, _ int64) error {
	r.calls++
	return r.err
}

func (r *flakyRepo) FindByEmployee(_ context.Context, req ports.EntryPageRequest) (*ports.Page[*domain.TimeEntry], error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return ports.NewPage([]*domain.TimeEntry{}, 0, req.Page, req.Size), nil
}

func newTestBreaker(next ports.EntryRepository) *EntryRepository {
	return NewEntryRepository(next, Settings{MinRequests: 3, FailureRatio: 0.5, OpenTimeout: time.Hour}, zerolog.Nop())
}

func TestEntryRepository_PassesThrough(t *testing.T) {
	repo := &flakyRepo{}
	b := newTestBreaker(repo)
	ctx := context.Background()

	got, err := b.FindByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)

	saved, err := b.Save(ctx, &domain.TimeEntry{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.ID)

	require.NoError(t, b.DeleteByID(ctx, 3))

	page, err := b.FindByEmployee(ctx, ports.EntryPageRequest{EmployeeID: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Size)
}

func TestEntryRepository_OpensAfterFailures(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &flakyRepo{err: boom}
	b := newTestBreaker(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := b.FindByID(ctx, 1)
		require.ErrorIs(t, err, boom, "store errors pass through unchanged while closed")
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.FindByID(ctx, 1)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	err = b.DeleteByID(ctx, 1)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, 3, repo.calls, "open breaker must not reach the store")
}

func TestEntryRepository_NotFoundDoesNotTrip(t *testing.T) {
	repo := &flakyRepo{err: domain.ErrEntryNotFound}
	b := newTestBreaker(repo)

	for i := 0; i < 10; i++ {
		_, err := b.FindByID(context.Background(), 1)
		require.ErrorIs(t, err, domain.ErrEntryNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 10, repo.calls)
}
