package ports

import (
	"context"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// EntryPageRequest carries the parameters of a paged, sorted range query.
type EntryPageRequest struct {
	EmployeeID int64
	Page       int    // 0-based
	Size       int    // rows per page
	SortField  string // id, timestamp or kind
	Descending bool
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

// NewPage computes TotalPages from total and size.
func NewPage[T any](items []T, total int64, page, size int) *Page[T] {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page[T]{Items: items, Total: total, Page: page, Size: size, TotalPages: pages}
}

// EntryRepository is the durable owner of time entries.
type EntryRepository interface {
	// FindByID returns domain.ErrEntryNotFound when the row does not exist.
	FindByID(ctx context.Context, id int64) (*domain.TimeEntry, error)
	// Save inserts when e.ID is zero (assigning an id) and replaces otherwise.
	// Every save returns a Version greater than any earlier save of that id.
	Save(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error)
	// DeleteByID is a no-op for ids that do not exist.
	DeleteByID(ctx context.Context, id int64) error
	FindByEmployee(ctx context.Context, req EntryPageRequest) (*Page[*domain.TimeEntry], error)
}

// EntryCache holds shadow copies of persisted entries keyed by id. It may be
// shared by several processes, so writes are conditional.
type EntryCache interface {
	// Get reports ok=false on a miss; a miss is never an error.
	Get(ctx context.Context, id int64) (entry *domain.TimeEntry, ok bool, err error)
	// Set stores e unless the cache already holds the same or a newer Version
	// of it, or a tombstone left by Delete. A skipped write is not an error.
	Set(ctx context.Context, e *domain.TimeEntry) error
	// Delete drops the cached copy. Shared caches leave a short-lived
	// tombstone so a fill that read the row before the delete cannot bring
	// it back.
	Delete(ctx context.Context, id int64) error
}
