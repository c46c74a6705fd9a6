package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kazale/ponto-inteligente/internal/api/response"
	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

const (
	// UnauthorizedMessage is returned for every authentication failure.
	UnauthorizedMessage = "authentication required to access the requested resource"
	ForbiddenMessage    = "access denied: insufficient privileges"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope: {"data": null, "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msgs := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = response.Fail(c, code, msgs...)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, []string) {
	// Authentication failures share one message whatever their kind.
	if domain.IsAuthFailure(err) {
		return http.StatusUnauthorized, []string{UnauthorizedMessage}
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, []string{ForbiddenMessage}
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Messages
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrEmailInUse):
		return http.StatusBadRequest, []string{err.Error()}
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("store unavailable")
		return http.StatusServiceUnavailable, []string{"service temporarily unavailable"}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, []string{fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, []string{"internal server error"}
}
