package ports

import (
	"context"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// EntryInput is the transport-neutral payload for creating or updating an entry.
type EntryInput struct {
	EmployeeID  *int64
	Timestamp   string // domain.TimestampLayout
	Kind        string
	Description string
	Location    string
}

// EntryService holds the business rules around time entries.
type EntryService interface {
	Get(ctx context.Context, id int64) (*domain.TimeEntry, error)
	ListByEmployee(ctx context.Context, req EntryPageRequest) (*Page[*domain.TimeEntry], error)
	Create(ctx context.Context, in EntryInput) (*domain.TimeEntry, error)
	Update(ctx context.Context, id int64, in EntryInput) (*domain.TimeEntry, error)
	Delete(ctx context.Context, id int64) error
}
