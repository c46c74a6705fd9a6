package ports

import (
	"context"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// UpdateEmployeeInput mirrors the editable fields of an employee.
// A nil optional field clears the stored value; a nil Password keeps the current one.
type UpdateEmployeeInput struct {
	Name           string
	Email          string
	Password       *string
	HourlyRate     *float64
	DailyWorkHours *float32
	LunchHours     *float32
}

type EmployeeService interface {
	Update(ctx context.Context, id int64, in UpdateEmployeeInput) (*domain.Employee, error)
}

type CompanyService interface {
	FindByCNPJ(ctx context.Context, cnpj string) (*domain.Company, error)
}
