package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kazale/ponto-inteligente/internal/api/response"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login authenticates an employee and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response.Envelope[tokenResponse]
// @Failure      400   {object}  response.Envelope[any]
// @Failure      401   {object}  response.Envelope[any]
// @Router       /auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, tokenResponse{Token: token})
}

// Refresh renews the caller's token when it is close to expiry.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  response.Envelope[tokenResponse]
// @Failure      401   {object}  response.Envelope[any]
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, err := h.authService.Refresh(bearerToken(c))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, tokenResponse{Token: token})
}

type docsTokenResponse struct {
	Authorization string `json:"authorization"`
}

// DocsToken serves the pre-filled Authorization header for the API docs UI.
// The value is empty when the auto-login identity is unavailable.
func (h *AuthHandler) DocsToken(c echo.Context) error {
	out := docsTokenResponse{}
	if tok := h.authService.DocsToken(c.Request().Context()); tok != "" {
		out.Authorization = "Bearer " + tok
	}
	return response.OK(c, http.StatusOK, out)
}
