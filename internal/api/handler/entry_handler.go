package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kazale/ponto-inteligente/internal/api/response"
	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

type EntryHandler struct {
	entries ports.EntryService
}

func NewEntryHandler(entries ports.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

type entryRequest struct {
	EmployeeID  *int64 `json:"employee_id"`
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"`
	Description string `json:"description" validate:"max=255"`
	Location    string `json:"location" validate:"max=255"`
}

func (r entryRequest) toInput() ports.EntryInput {
	return ports.EntryInput{
		EmployeeID:  r.EmployeeID,
		Timestamp:   r.Timestamp,
		Kind:        r.Kind,
		Description: r.Description,
		Location:    r.Location,
	}
}

type entryResponse struct {
	ID          int64  `json:"id"`
	EmployeeID  int64  `json:"employee_id"`
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

func toEntryResponse(e *domain.TimeEntry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Timestamp:   e.Timestamp.Format(domain.TimestampLayout),
		Kind:        string(e.Kind),
		Description: e.Description,
		Location:    e.Location,
	}
}

type entryPageResponse struct {
	Items      []entryResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"total_pages"`
}

// ListByEmployee returns one page of an employee's entries.
//
// @Summary      List entries of an employee
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  path      int     true   "Employee ID"
// @Param        page        query     int     false  "0-based page"
// @Param        sort        query     string  false  "id, timestamp or kind"
// @Param        dir         query     string  false  "ASC or DESC"
// @Success      200         {object}  response.Envelope[entryPageResponse]
// @Failure      400         {object}  response.Envelope[any]
// @Failure      401         {object}  response.Envelope[any]
// @Router       /api/entries/employee/{employeeId} [get]
func (h *EntryHandler) ListByEmployee(c echo.Context) error {
	employeeID, err := pathID(c, "employeeId")
	if err != nil {
		return err
	}

	req := ports.EntryPageRequest{EmployeeID: employeeID, SortField: c.QueryParam("sort"), Descending: true}
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return &domain.ValidationError{Messages: []string{fmt.Sprintf("invalid page %q", raw)}}
		}
		req.Page = page
	}
	switch dir := strings.ToUpper(c.QueryParam("dir")); dir {
	case "", "DESC":
	case "ASC":
		req.Descending = false
	default:
		return &domain.ValidationError{Messages: []string{fmt.Sprintf("invalid sort direction %q", c.QueryParam("dir"))}}
	}

	page, err := h.entries.ListByEmployee(c.Request().Context(), req)
	if err != nil {
		return err
	}

	out := entryPageResponse{
		Items:      make([]entryResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
	}
	for _, e := range page.Items {
		out.Items = append(out.Items, toEntryResponse(e))
	}
	return response.OK(c, http.StatusOK, out)
}

// Get returns a single entry.
//
// @Summary      Get entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  response.Envelope[entryResponse]
// @Failure      400  {object}  response.Envelope[any]
// @Failure      401  {object}  response.Envelope[any]
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.entries.Get(c.Request().Context(), id)
	if err != nil {
		return entryNotFound(err, id)
	}
	return response.OK(c, http.StatusOK, toEntryResponse(e))
}

// Create records a new entry.
//
// @Summary      Create entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      entryRequest  true  "Entry"
// @Success      200   {object}  response.Envelope[entryResponse]
// @Failure      400   {object}  response.Envelope[any]
// @Failure      401   {object}  response.Envelope[any]
// @Router       /api/entries [post]
func (h *EntryHandler) Create(c echo.Context) error {
	var req entryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.entries.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, toEntryResponse(e))
}

// Update replaces an existing entry.
//
// @Summary      Update entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Entry ID"
// @Param        body  body      entryRequest  true  "Entry"
// @Success      200   {object}  response.Envelope[entryResponse]
// @Failure      400   {object}  response.Envelope[any]
// @Failure      401   {object}  response.Envelope[any]
// @Router       /api/entries/{id} [put]
func (h *EntryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req entryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.entries.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return entryNotFound(err, id)
	}
	return response.OK(c, http.StatusOK, toEntryResponse(e))
}

// Delete removes an entry. Administrators only.
//
// @Summary      Delete entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  response.Envelope[string]
// @Failure      400  {object}  response.Envelope[any]
// @Failure      401  {object}  response.Envelope[any]
// @Failure      403  {object}  response.Envelope[any]
// @Router       /api/entries/{id} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.entries.Delete(c.Request().Context(), id); err != nil {
		return entryNotFound(err, id)
	}
	return response.OK(c, http.StatusOK, fmt.Sprintf("entry %d removed", id))
}

// entryNotFound turns a missing entry into the caller-facing validation message.
func entryNotFound(err error, id int64) error {
	if errors.Is(err, domain.ErrEntryNotFound) {
		return &domain.ValidationError{Messages: []string{fmt.Sprintf("entry not found for id %d", id)}}
	}
	return err
}
