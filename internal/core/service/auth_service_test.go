package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/token"
)

type stubEmployeeRepo struct {
	mu        sync.Mutex
	employees map[int64]*domain.Employee
	nextID    int64
	findErr   error
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{employees: make(map[int64]*domain.Employee)}
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (r *stubEmployeeRepo) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, e := range r.employees {
		if e.Email == email {
			return cloneEmployee(e), nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id int64) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *stubEmployeeRepo) Save(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cloneEmployee(e)
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	}
	r.employees[c.ID] = c
	return cloneEmployee(c), nil
}

func (r *stubEmployeeRepo) add(t *testing.T, email, password string, role domain.Role) *domain.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	saved, _ := r.Save(context.Background(), &domain.Employee{
		Name:         "Test",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CompanyID:    1,
	})
	return saved
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAuthService(t *testing.T, repo *stubEmployeeRepo, opts AuthOptions) (*AuthService, *fakeClock) {
	t.Helper()
	keys, err := token.NewKeyRing("test-secret")
	if err != nil {
		t.Fatalf("key ring: %v", err)
	}
	clock := &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	codec := token.NewCodec(keys, token.WithClock(clock.now))
	return NewAuthService(repo, codec, opts, zerolog.Nop()), clock
}

func TestAuthService_IssueThenValidate(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc, _ := newTestAuthService(t, repo, AuthOptions{TokenTTL: time.Hour})

	emp := &domain.Employee{ID: 7, Email: "ana@example.com", Role: domain.RoleEmployee}
	tok, err := svc.Issue(emp)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	ac, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if ac.Subject != 7 || ac.Role != domain.RoleEmployee || ac.Email != "ana@example.com" {
		t.Fatalf("unexpected context: %+v", ac)
	}
	if ac.TokenID == "" {
		t.Fatalf("expected a token id")
	}
	if got := ac.ExpiresAt.Sub(ac.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestAuthService_Login_Admin(t *testing.T) {
	repo := newStubEmployeeRepo()
	repo.add(t, "admin@kazale.com", "123456", domain.RoleAdmin)
	svc, _ := newTestAuthService(t, repo, AuthOptions{})

	tok, emp, err := svc.Login(context.Background(), "  Admin@Kazale.com ", "123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if emp == nil || emp.Role != domain.RoleAdmin {
		t.Fatalf("unexpected employee: %+v", emp)
	}

	ac, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if ac.Role != domain.RoleAdmin {
		t.Fatalf("expected %s, got %s", domain.RoleAdmin, ac.Role)
	}
	if got := ac.ExpiresAt.Sub(ac.IssuedAt); got != defaultTokenTTL {
		t.Fatalf("expected default ttl %s, got %s", defaultTokenTTL, got)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newStubEmployeeRepo()
	repo.add(t, "dave@example.com", "goodpass", domain.RoleEmployee)
	svc, _ := newTestAuthService(t, repo, AuthOptions{})

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"empty email", "", "goodpass", domain.ErrInvalidCredentials},
		{"empty password", "dave@example.com", "", domain.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "goodpass", domain.ErrCredentialNotFound},
		{"wrong password", "dave@example.com", "badpass", domain.ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, _, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tok != "" {
				t.Fatalf("expected no token, got %q", tok)
			}
		})
	}
}

// A login for an unknown email still pays for one bcrypt comparison, so the
// response time does not reveal whether the account exists.
func TestAuthService_Login_UnknownEmailComparesDummyHash(t *testing.T) {
	repo := newStubEmployeeRepo()
	repo.add(t, "dave@example.com", "goodpass", domain.RoleEmployee)
	svc, _ := newTestAuthService(t, repo, AuthOptions{})

	var hashes [][]byte
	svc.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "goodpass")
	if !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
	if len(hashes) != 1 || string(hashes[0]) != string(dummyHash()) {
		t.Fatalf("expected one comparison against the dummy hash, got %d", len(hashes))
	}
	cost, err := bcrypt.Cost(hashes[0])
	if err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("dummy hash cost = %d, %v", cost, err)
	}

	hashes = nil
	_, _, err = svc.Login(context.Background(), "dave@example.com", "badpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hashes) != 1 || string(hashes[0]) == string(dummyHash()) {
		t.Fatalf("a known email must be compared against its own hash")
	}
}

func TestAuthService_IssueForEmail(t *testing.T) {
	repo := newStubEmployeeRepo()
	emp := repo.add(t, "bia@example.com", "pw", domain.RoleEmployee)
	svc, _ := newTestAuthService(t, repo, AuthOptions{})

	tok, err := svc.IssueForEmail(context.Background(), "bia@example.com")
	if err != nil {
		t.Fatalf("IssueForEmail failed: %v", err)
	}
	ac, err := svc.Validate(tok)
	if err != nil || ac.Subject != emp.ID {
		t.Fatalf("unexpected validation result %+v, %v", ac, err)
	}

	if _, err := svc.IssueForEmail(context.Background(), "missing@example.com"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}

func TestAuthService_Validate_Expired(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc, clock := newTestAuthService(t, repo, AuthOptions{TokenTTL: time.Minute})

	tok, err := svc.Issue(&domain.Employee{ID: 1, Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	clock.advance(2 * time.Minute)

	if _, err := svc.Validate(tok); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestAuthService_Remaining(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc, clock := newTestAuthService(t, repo, AuthOptions{TokenTTL: time.Hour})

	tok, _ := svc.Issue(&domain.Employee{ID: 1, Role: domain.RoleEmployee})
	clock.advance(20 * time.Minute)

	left, err := svc.Remaining(tok)
	if err != nil {
		t.Fatalf("Remaining returned error: %v", err)
	}
	if left != 40*time.Minute {
		t.Fatalf("expected 40m, got %s", left)
	}

	if _, err := svc.Remaining("garbage"); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc, clock := newTestAuthService(t, repo, AuthOptions{TokenTTL: time.Hour, RenewWindow: 10 * time.Minute})

	tok, _ := svc.Issue(&domain.Employee{ID: 3, Email: "c@example.com", Role: domain.RoleAdmin})

	same, err := svc.Refresh(tok)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if same != tok {
		t.Fatalf("expected the same token outside the renew window")
	}

	clock.advance(55 * time.Minute)
	renewed, err := svc.Refresh(tok)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if renewed == tok {
		t.Fatalf("expected a new token inside the renew window")
	}
	ac, err := svc.Validate(renewed)
	if err != nil {
		t.Fatalf("renewed token invalid: %v", err)
	}
	if ac.Subject != 3 || ac.Role != domain.RoleAdmin {
		t.Fatalf("renewed token lost identity: %+v", ac)
	}
	if left, _ := svc.Remaining(renewed); left != time.Hour {
		t.Fatalf("expected full lifetime on renewed token, got %s", left)
	}

	clock.advance(10 * time.Minute)
	if _, err := svc.Refresh(tok); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken for the old token, got %v", err)
	}
}

func TestAuthService_DocsToken(t *testing.T) {
	repo := newStubEmployeeRepo()
	repo.add(t, "admin@kazale.com", "123456", domain.RoleAdmin)

	svc, _ := newTestAuthService(t, repo, AuthOptions{DocsEmail: "admin@kazale.com"})
	tok := svc.DocsToken(context.Background())
	if tok == "" {
		t.Fatalf("expected a docs token")
	}
	if ac, err := svc.Validate(tok); err != nil || ac.Role != domain.RoleAdmin {
		t.Fatalf("docs token should carry admin role: %+v, %v", ac, err)
	}

	missing, _ := newTestAuthService(t, newStubEmployeeRepo(), AuthOptions{DocsEmail: "admin@kazale.com"})
	if tok := missing.DocsToken(context.Background()); tok != "" {
		t.Fatalf("expected empty token when the identity is missing, got %q", tok)
	}

	broken := newStubEmployeeRepo()
	broken.findErr = domain.ErrStoreUnavailable
	failing, _ := newTestAuthService(t, broken, AuthOptions{DocsEmail: "admin@kazale.com"})
	if tok := failing.DocsToken(context.Background()); tok != "" {
		t.Fatalf("expected empty token when the store fails, got %q", tok)
	}

	unset, _ := newTestAuthService(t, repo, AuthOptions{})
	if tok := unset.DocsToken(context.Background()); tok != "" {
		t.Fatalf("expected empty token without a docs identity, got %q", tok)
	}
}
