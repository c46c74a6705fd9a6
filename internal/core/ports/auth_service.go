package ports

import (
	"context"
	"time"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// TokenValidator is the read-only half of the token service used on every request.
type TokenValidator interface {
	Validate(token string) (*domain.AuthorizationContext, error)
}

type AuthService interface {
	TokenValidator
	Login(ctx context.Context, email, password string) (string, *domain.Employee, error)
	Issue(identity *domain.Employee) (string, error)
	IssueForEmail(ctx context.Context, email string) (string, error)
	Remaining(token string) (time.Duration, error)
	Refresh(token string) (string, error)
	// DocsToken never fails; any problem yields an empty token.
	DocsToken(ctx context.Context) string
}
