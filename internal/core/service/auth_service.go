package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
	"github.com/kazale/ponto-inteligente/internal/core/token"
	"github.com/kazale/ponto-inteligente/internal/metrics"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// dummyHash is compared against when the email is unknown, so a failed login
// costs one bcrypt comparison whether or not the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return h
})

// AuthOptions tunes token lifetime and the documentation auto-login.
type AuthOptions struct {
	TokenTTL    time.Duration
	RenewWindow time.Duration
	// DocsEmail is the identity logged in automatically for the API docs UI.
	DocsEmail string
}

// AuthService issues and validates bearer tokens.
type AuthService struct {
	repo    ports.EmployeeRepository
	codec   *token.Codec
	opts    AuthOptions
	compare func(hash, password []byte) error
	log     zerolog.Logger
}

func NewAuthService(repo ports.EmployeeRepository, codec *token.Codec, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:    repo,
		codec:   codec,
		opts:    opts,
		compare: bcrypt.CompareHashAndPassword,
		log:     log,
	}
}

// Login checks the password of the identity registered under email and
// returns a fresh token for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Employee, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	emp, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			_ = s.compare(dummyHash(), []byte(password))
		}
		return "", nil, err
	}

	if s.compare([]byte(emp.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.Issue(emp)
	if err != nil {
		return "", nil, err
	}
	return tok, emp, nil
}

// IssueForEmail looks the identity up by email and signs a token for it.
// A missing identity surfaces as domain.ErrCredentialNotFound.
func (s *AuthService) IssueForEmail(ctx context.Context, email string) (string, error) {
	emp, err := s.lookup(ctx, email)
	if err != nil {
		return "", err
	}
	return s.Issue(emp)
}

// Issue signs {sub, role, iat, exp} for identity.
func (s *AuthService) Issue(identity *domain.Employee) (string, error) {
	if identity == nil {
		return "", domain.ErrCredentialNotFound
	}
	now := s.codec.Now()
	tok, err := s.codec.Encode(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
		Email: identity.Email,
		Role:  string(identity.Role),
	})
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(identity.Role)).Inc()
	return tok, nil
}

// Validate decodes raw into an AuthorizationContext. It never touches the store.
func (s *AuthService) Validate(raw string) (*domain.AuthorizationContext, error) {
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	sub, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q", domain.ErrMalformedToken, claims.Subject)
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role %q", domain.ErrMalformedToken, claims.Role)
	}

	ac := &domain.AuthorizationContext{
		Subject:   sub,
		Email:     claims.Email,
		Role:      role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		ac.IssuedAt = claims.IssuedAt.Time
	}
	return ac, nil
}

// Remaining reports how long raw stays valid.
func (s *AuthService) Remaining(raw string) (time.Duration, error) {
	ac, err := s.Validate(raw)
	if err != nil {
		return 0, err
	}
	return ac.ExpiresAt.Sub(s.codec.Now()), nil
}

// Refresh re-issues raw when it is valid and inside the renewal window.
// Outside the window the same token is returned unchanged.
func (s *AuthService) Refresh(raw string) (string, error) {
	ac, err := s.Validate(raw)
	if err != nil {
		return "", err
	}
	if ac.ExpiresAt.Sub(s.codec.Now()) > s.opts.RenewWindow {
		return raw, nil
	}
	return s.Issue(&domain.Employee{ID: ac.Subject, Email: ac.Email, Role: ac.Role})
}

// DocsToken logs the documentation identity in without a password. This is the
// only path where issuance failures are swallowed: the docs UI treats an empty
// token as anonymous.
func (s *AuthService) DocsToken(ctx context.Context) string {
	if s.opts.DocsEmail == "" {
		return ""
	}
	tok, err := s.IssueForEmail(ctx, s.opts.DocsEmail)
	if err != nil {
		s.log.Warn().Err(err).Str("email", s.opts.DocsEmail).Msg("docs auto-login failed, serving anonymous token")
		return ""
	}
	return tok
}

func (s *AuthService) lookup(ctx context.Context, email string) (*domain.Employee, error) {
	emp, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return emp, nil
}
