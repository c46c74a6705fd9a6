package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

const (
	identityKey    = "auth.identity"
	authFailureKey = "auth.failure"
)

var errBadScheme = fmt.Errorf("%w: authorization header is not a bearer token", domain.ErrMalformedToken)

// Authenticate resolves the bearer token of every request. It never rejects:
// a missing header leaves the request anonymous and a token that fails
// validation is recorded for Guard to act on.
func Authenticate(v ports.TokenValidator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return next(c)
			}

			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") {
				c.Set(authFailureKey, errBadScheme)
				return next(c)
			}

			ac, err := v.Validate(strings.TrimSpace(raw))
			if err != nil {
				if !domain.IsAuthFailure(err) {
					err = fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
				}
				log.Debug().
					Str("reason", failureReason(err)).
					Str("path", c.Request().URL.Path).
					Msg("bearer token rejected")
				c.Set(authFailureKey, err)
				return next(c)
			}

			c.Set(identityKey, ac)
			return next(c)
		}
	}
}

// Identity returns the authorization context resolved for the request, if any.
func Identity(c echo.Context) (*domain.AuthorizationContext, bool) {
	ac, ok := c.Get(identityKey).(*domain.AuthorizationContext)
	return ac, ok && ac != nil
}

func authFailure(c echo.Context) error {
	err, _ := c.Get(authFailureKey).(error)
	return err
}

// failureReason names the validation failure for logs and metrics only.
func failureReason(err error) string {
	switch {
	case err == nil:
		return "anonymous"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrMalformedToken):
		return "malformed"
	default:
		return "invalid"
	}
}
