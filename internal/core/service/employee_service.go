package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

// EmployeeService edits employee profiles.
type EmployeeService struct {
	repo ports.EmployeeRepository
	cost int
	now  func() time.Time
	log  zerolog.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, cost: bcrypt.DefaultCost, now: time.Now, log: log}
}

// Update overwrites the editable fields of employee id. Optional numeric fields
// left nil are cleared; a nil password keeps the stored hash.
func (s *EmployeeService) Update(ctx context.Context, id int64, in ports.UpdateEmployeeInput) (*domain.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name is required")
	}
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		verr.Add("email is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if email != emp.Email {
		other, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != emp.ID:
			return nil, &domain.ValidationError{Messages: []string{domain.ErrEmailInUse.Error()}}
		case err != nil && !errors.Is(err, domain.ErrEmployeeNotFound):
			return nil, err
		}
	}

	emp.Name = name
	emp.Email = email
	emp.HourlyRate = in.HourlyRate
	emp.DailyWorkHours = in.DailyWorkHours
	emp.LunchHours = in.LunchHours

	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		emp.PasswordHash = string(hash)
	}
	emp.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Save(ctx, emp)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("employee_id", saved.ID).Msg("employee updated")
	return saved, nil
}

// CompanyService looks companies up for the registration screens.
type CompanyService struct {
	repo ports.CompanyRepository
}

func NewCompanyService(repo ports.CompanyRepository) *CompanyService {
	return &CompanyService{repo: repo}
}

func (s *CompanyService) FindByCNPJ(ctx context.Context, cnpj string) (*domain.Company, error) {
	cnpj = domain.NormalizeCNPJ(cnpj)
	if cnpj == "" {
		return nil, domain.ErrCompanyNotFound
	}
	return s.repo.FindByCNPJ(ctx, cnpj)
}
