package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

func TestSeedAdmin_CreatesMissingAdmin(t *testing.T) {
	repo := newStubEmployeeRepo()

	admin, err := seedAdmin(context.Background(), repo, " Admin@Kazale.com ", "123456", bcrypt.MinCost, zerolog.Nop())
	if err != nil {
		t.Fatalf("seedAdmin returned error: %v", err)
	}
	if admin.ID == 0 || admin.Role != domain.RoleAdmin || admin.Email != "admin@kazale.com" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("123456")); err != nil {
		t.Fatalf("password hash mismatch: %v", err)
	}
}

func TestSeedAdmin_KeepsExistingIdentity(t *testing.T) {
	repo := newStubEmployeeRepo()
	existing := repo.add(t, "admin@kazale.com", "original", domain.RoleEmployee)

	got, err := seedAdmin(context.Background(), repo, "admin@kazale.com", "other", bcrypt.MinCost, zerolog.Nop())
	if err != nil {
		t.Fatalf("seedAdmin returned error: %v", err)
	}
	if got.ID != existing.ID || got.PasswordHash != existing.PasswordHash || got.Role != domain.RoleEmployee {
		t.Fatalf("existing identity should be untouched: %+v", got)
	}
	if len(repo.employees) != 1 {
		t.Fatalf("expected no new identity, got %d", len(repo.employees))
	}
}

func TestSeedAdmin_Errors(t *testing.T) {
	repo := newStubEmployeeRepo()
	if _, err := seedAdmin(context.Background(), repo, "", "pw", bcrypt.MinCost, zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for an empty email")
	}

	repo.findErr = domain.ErrStoreUnavailable
	if _, err := seedAdmin(context.Background(), repo, "admin@kazale.com", "pw", bcrypt.MinCost, zerolog.Nop()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
