package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/metrics"
)

type requirementKind int

const (
	requireNone requirementKind = iota
	requireAuthenticated
	requireRoles
)

// Requirement is the role requirement declared by a route.
type Requirement struct {
	kind  requirementKind
	roles []domain.Role
}

// Public lets every request through, authenticated or not.
var Public = Requirement{kind: requireNone}

// Authenticated admits any caller holding a valid token.
func Authenticated() Requirement {
	return Requirement{kind: requireAuthenticated}
}

// RequireRoles admits callers whose token carries one of roles.
func RequireRoles(roles ...domain.Role) Requirement {
	return Requirement{kind: requireRoles, roles: roles}
}

func (r Requirement) String() string {
	switch r.kind {
	case requireAuthenticated:
		return "authenticated"
	case requireRoles:
		return fmt.Sprintf("roles%v", r.roles)
	default:
		return "public"
	}
}

// Guard enforces req on top of Authenticate:
//
//	requirement        anonymous  role matches  role mismatch  invalid token
//	public             allow      allow         allow          allow
//	authenticated      401        allow         allow          401
//	roles              401        allow         403            401
//
// Rejections return domain errors; the HTTP error handler renders them with
// a fixed message so the failure kind never reaches the caller.
func Guard(req Requirement, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if req.kind == requireNone {
				return next(c)
			}

			ac, ok := Identity(c)
			if !ok {
				failure := authFailure(c)
				reason := failureReason(failure)
				metrics.GuardDecisionsTotal.WithLabelValues("unauthenticated", reason).Inc()
				log.Warn().
					Str("reason", reason).
					Str("requirement", req.String()).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Msg("request rejected: not authenticated")
				if failure != nil {
					return fmt.Errorf("guard: %w", failure)
				}
				return domain.ErrCredentialNotFound
			}

			if req.kind == requireRoles && !ac.HasRole(req.roles...) {
				metrics.GuardDecisionsTotal.WithLabelValues("forbidden", "role").Inc()
				log.Warn().
					Int64("subject", ac.Subject).
					Str("role", string(ac.Role)).
					Str("requirement", req.String()).
					Str("path", c.Request().URL.Path).
					Msg("request rejected: insufficient role")
				return domain.ErrInsufficientRole
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allow", "ok").Inc()
			return next(c)
		}
	}
}
