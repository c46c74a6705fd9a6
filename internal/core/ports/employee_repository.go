package ports

import (
	"context"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// EmployeeRepository is the credential store. Lookups return
// domain.ErrEmployeeNotFound when nothing matches.
type EmployeeRepository interface {
	// FindByEmail matches case-insensitively; implementations store normalised emails.
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	Save(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
}
