package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kazale/ponto-inteligente/internal/api/middleware"
	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// pathID parses the named path parameter as a positive int64.
func pathID(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

// identity returns the caller resolved by the auth middleware. Routes behind
// the guard always have one; its absence means the route was wired without it.
func identity(c echo.Context) (*domain.AuthorizationContext, error) {
	ac, ok := middleware.Identity(c)
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return ac, nil
}

// bearerToken returns the raw token of the Authorization header.
func bearerToken(c echo.Context) string {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &domain.ValidationError{Messages: []string{"invalid payload"}}
	}
	return c.Validate(req)
}
