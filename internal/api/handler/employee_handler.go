package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kazale/ponto-inteligente/internal/api/response"
	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

type EmployeeHandler struct {
	employees ports.EmployeeService
}

func NewEmployeeHandler(employees ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

type updateEmployeeRequest struct {
	Name           string   `json:"name" validate:"required,min=3,max=200"`
	Email          string   `json:"email" validate:"required,email,max=200"`
	Password       *string  `json:"password,omitempty" validate:"omitempty,min=6"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	DailyWorkHours *float32 `json:"daily_work_hours,omitempty" validate:"omitempty,gte=0"`
	LunchHours     *float32 `json:"lunch_hours,omitempty" validate:"omitempty,gte=0"`
}

type employeeResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	CompanyID      int64    `json:"company_id"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	DailyWorkHours *float32 `json:"daily_work_hours,omitempty"`
	LunchHours     *float32 `json:"lunch_hours,omitempty"`
}

// Update edits an employee profile. Employees may only edit themselves.
//
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Employee ID"
// @Param        body  body      updateEmployeeRequest  true  "Employee"
// @Success      200   {object}  response.Envelope[employeeResponse]
// @Failure      400   {object}  response.Envelope[any]
// @Failure      401   {object}  response.Envelope[any]
// @Failure      403   {object}  response.Envelope[any]
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	caller, err := identity(c)
	if err != nil {
		return err
	}
	if caller.Subject != id && !caller.HasRole(domain.RoleAdmin) {
		return domain.ErrInsufficientRole
	}

	var req updateEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	emp, err := h.employees.Update(c.Request().Context(), id, ports.UpdateEmployeeInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		HourlyRate:     req.HourlyRate,
		DailyWorkHours: req.DailyWorkHours,
		LunchHours:     req.LunchHours,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, employeeResponse{
		ID:             emp.ID,
		Name:           emp.Name,
		Email:          emp.Email,
		Role:           string(emp.Role),
		CompanyID:      emp.CompanyID,
		HourlyRate:     emp.HourlyRate,
		DailyWorkHours: emp.DailyWorkHours,
		LunchHours:     emp.LunchHours,
	})
}
