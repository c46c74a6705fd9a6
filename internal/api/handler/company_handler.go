package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kazale/ponto-inteligente/internal/api/response"
	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

type CompanyHandler struct {
	companies ports.CompanyService
}

func NewCompanyHandler(companies ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

type companyResponse struct {
	ID            int64  `json:"id"`
	CorporateName string `json:"corporate_name"`
	CNPJ          string `json:"cnpj"`
}

// FindByCNPJ looks a company up by its CNPJ.
//
// @Summary      Find company by CNPJ
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        cnpj  path      string  true  "CNPJ"
// @Success      200   {object}  response.Envelope[companyResponse]
// @Failure      400   {object}  response.Envelope[any]
// @Failure      401   {object}  response.Envelope[any]
// @Router       /api/companies/cnpj/{cnpj} [get]
func (h *CompanyHandler) FindByCNPJ(c echo.Context) error {
	cnpj := c.Param("cnpj")
	company, err := h.companies.FindByCNPJ(c.Request().Context(), cnpj)
	if errors.Is(err, domain.ErrCompanyNotFound) {
		return &domain.ValidationError{Messages: []string{fmt.Sprintf("company not found for CNPJ %s", cnpj)}}
	}
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, companyResponse{
		ID:            company.ID,
		CorporateName: company.CorporateName,
		CNPJ:          company.CNPJ,
	})
}
