package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

const defaultPageSize = 25

var sortFields = map[string]struct{}{
	"id":        {},
	"timestamp": {},
	"kind":      {},
}

// EntryService applies the time entry rules on top of the cached store.
type EntryService struct {
	store     *EntryStore
	employees ports.EmployeeRepository
	pageSize  int
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
}

// NewEntryService builds the service. pageSize <= 0 falls back to 25 rows;
// timestamps without zone are read in loc (UTC when nil).
func NewEntryService(store *EntryStore, employees ports.EmployeeRepository, pageSize int, loc *time.Location, log zerolog.Logger) *EntryService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EntryService{
		store:     store,
		employees: employees,
		pageSize:  pageSize,
		loc:       loc,
		now:       time.Now,
		log:       log,
	}
}

func (s *EntryService) Get(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	return s.store.Get(ctx, id)
}

// ListByEmployee returns one page of the employee's entries. Size and sort
// default to the configured page size and id.
func (s *EntryService) ListByEmployee(ctx context.Context, req ports.EntryPageRequest) (*ports.Page[*domain.TimeEntry], error) {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 {
		req.Size = s.pageSize
	}
	req.SortField = strings.ToLower(strings.TrimSpace(req.SortField))
	if req.SortField == "" {
		req.SortField = "id"
	}
	if _, ok := sortFields[req.SortField]; !ok {
		return nil, &domain.ValidationError{Messages: []string{fmt.Sprintf("invalid sort field %q", req.SortField)}}
	}
	return s.store.ListByEmployee(ctx, req)
}

func (s *EntryService) Create(ctx context.Context, in ports.EntryInput) (*domain.TimeEntry, error) {
	entry, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	saved, err := s.store.Put(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("entry_id", saved.ID).Int64("employee_id", saved.EmployeeID).Str("kind", string(saved.Kind)).Msg("time entry created")
	return saved, nil
}

// Update replaces the editable fields of an existing entry.
func (s *EntryService) Update(ctx context.Context, id int64, in ports.EntryInput) (*domain.TimeEntry, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	entry.ID = current.ID
	entry.CreatedAt = current.CreatedAt
	entry.UpdatedAt = s.now().UTC()

	saved, err := s.store.Put(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("entry_id", saved.ID).Msg("time entry updated")
	return saved, nil
}

// Delete removes an existing entry. Unknown ids report domain.ErrEntryNotFound.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("entry_id", id).Msg("time entry deleted")
	return nil
}

// build validates in and converts it into an entry without id or timestamps.
func (s *EntryService) build(ctx context.Context, in ports.EntryInput) (*domain.TimeEntry, error) {
	verr := &domain.ValidationError{}
	entry := &domain.TimeEntry{
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
	}

	if in.EmployeeID == nil {
		verr.Add("employee not informed")
	} else {
		emp, err := s.employees.FindByID(ctx, *in.EmployeeID)
		switch {
		case errors.Is(err, domain.ErrEmployeeNotFound):
			verr.Add("employee not found")
		case err != nil:
			return nil, err
		default:
			entry.EmployeeID = emp.ID
		}
	}

	kind, ok := domain.ParseEntryKind(strings.ToUpper(strings.TrimSpace(in.Kind)))
	if !ok {
		verr.Add("invalid kind")
	}
	entry.Kind = kind

	ts, err := time.ParseInLocation(domain.TimestampLayout, strings.TrimSpace(in.Timestamp), s.loc)
	if err != nil {
		verr.Add("invalid timestamp")
	}
	entry.Timestamp = ts

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return entry, nil
}
