package ports

import (
	"context"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

type CompanyRepository interface {
	FindByCNPJ(ctx context.Context, cnpj string) (*domain.Company, error)
}
