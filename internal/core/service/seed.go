package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

// SeedAdmin makes sure an administrator exists under email. An existing
// identity is left as is, whatever its role or password.
func SeedAdmin(ctx context.Context, repo ports.EmployeeRepository, email, password string, log zerolog.Logger) (*domain.Employee, error) {
	return seedAdmin(ctx, repo, email, password, bcrypt.DefaultCost, log)
}

func seedAdmin(ctx context.Context, repo ports.EmployeeRepository, email, password string, cost int, log zerolog.Logger) (*domain.Employee, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errors.New("seed admin: email and password are required")
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("seed admin: hash password: %w", err)
	}
	now := time.Now().UTC()
	admin, err := repo.Save(ctx, &domain.Employee{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Int64("employee_id", admin.ID).Str("email", email).Msg("administrator seeded")
	return admin, nil
}
