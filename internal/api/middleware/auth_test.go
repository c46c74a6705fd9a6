package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// stubValidator accepts the tokens it knows and rejects everything else with err.
type stubValidator struct {
	tokens map[string]*domain.AuthorizationContext
	errs   map[string]error
}

func (s *stubValidator) Validate(token string) (*domain.AuthorizationContext, error) {
	if ac, ok := s.tokens[token]; ok {
		return ac, nil
	}
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	return nil, domain.ErrMalformedToken
}

func newStubValidator() *stubValidator {
	return &stubValidator{
		tokens: map[string]*domain.AuthorizationContext{
			"admin-token":    {Subject: 1, Email: "admin@kazale.com", Role: domain.RoleAdmin},
			"employee-token": {Subject: 2, Email: "ana@kazale.com", Role: domain.RoleEmployee},
		},
		errs: map[string]error{
			"expired-token": domain.ErrExpiredToken,
			"forged-token":  domain.ErrInvalidSignature,
			"weird-token":   errors.New("unexpected"),
		},
	}
}

func runAuthenticate(t *testing.T, header string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Authenticate(newStubValidator(), zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("Authenticate must never reject, got %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return c
}

func TestAuthenticate_ValidToken(t *testing.T) {
	c := runAuthenticate(t, "Bearer admin-token")

	ac, ok := Identity(c)
	if !ok {
		t.Fatalf("expected an identity")
	}
	if ac.Subject != 1 || ac.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", ac)
	}
	if authFailure(c) != nil {
		t.Fatalf("unexpected failure recorded")
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	c := runAuthenticate(t, "bearer employee-token")
	if _, ok := Identity(c); !ok {
		t.Fatalf("expected an identity")
	}
}

func TestAuthenticate_MissingHeaderIsAnonymous(t *testing.T) {
	c := runAuthenticate(t, "")
	if _, ok := Identity(c); ok {
		t.Fatalf("expected no identity")
	}
	if authFailure(c) != nil {
		t.Fatalf("a missing header is not a failure")
	}
}

func TestAuthenticate_RecordsFailures(t *testing.T) {
	cases := []struct {
		header string
		want   error
		reason string
	}{
		{"Bearer expired-token", domain.ErrExpiredToken, "expired"},
		{"Bearer forged-token", domain.ErrInvalidSignature, "invalid_signature"},
		{"Bearer garbage", domain.ErrMalformedToken, "malformed"},
		{"Token admin-token", domain.ErrMalformedToken, "malformed"},
		{"Bearer", domain.ErrMalformedToken, "malformed"},
		{"Bearer weird-token", domain.ErrMalformedToken, "malformed"},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			c := runAuthenticate(t, tc.header)
			if _, ok := Identity(c); ok {
				t.Fatalf("expected no identity")
			}
			got := authFailure(c)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if r := failureReason(got); r != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, r)
			}
		})
	}
}
