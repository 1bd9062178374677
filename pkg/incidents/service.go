// Package incidents implements incident CRUD with permission checks and
// per-user visibility.
//
// Reads and writes are scoped to the caller's own incidents unless the
// caller holds incident:view_all. Deletes are soft so the audit trail can
// still refer to removed incidents.
package incidents

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/thevoid12/incident-tracker/pkg/audit"
	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// Valid incident states and priorities.
var (
	Statuses   = []string{"Open", "In Progress", "Resolved", "Closed"}
	Priorities = []string{"Low", "Medium", "High", "Critical"}
)

var (
	// ErrInvalidStatus means the status is not one of Statuses.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPriority means the priority is not one of Priorities.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrEmptyTitle means the incident has no title.
	ErrEmptyTitle = errors.New("title is required")
)

// CreateRequest carries the fields for a new incident.
type CreateRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	AssignedTo      string `json:"assigned_to"`
	Category        string `json:"category"`
	Tags            string `json:"tags"`
	ResolutionNotes string `json:"resolution_notes"`
}

// Page is one page of incidents with pagination bookkeeping.
type Page struct {
	Incidents  []*storage.Incident `json:"incidents"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Limit      int                 `json:"limit"`
}

// Service implements incident operations.
type Service struct {
	store   storage.IncidentStore
	audit   *audit.Service
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates the incident service.
func NewService(store storage.IncidentStore, auditSvc *audit.Service, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		audit:   auditSvc,
		logger:  logger,
		metrics: metrics,
	}
}

// Create stores a new incident owned by the caller.
func (s *Service) Create(ctx context.Context, viewer *auth.AuthContext, req CreateRequest) (*storage.Incident, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermCreateIncident); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	inc := &storage.Incident{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		AssignedTo:      req.AssignedTo,
		Category:        req.Category,
		Tags:            req.Tags,
		ResolutionNotes: req.ResolutionNotes,
		CreatedBy:       viewer.Email,
		UpdatedBy:       viewer.Email,
	}
	if err := s.store.Insert(ctx, inc); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncidentsCreatedTotal.Inc()
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionCreateIncident, "created incident "+inc.ID, viewer.Email, viewer.UserID)
	}
	return inc, nil
}

// Get returns one incident visible to the caller.
func (s *Service) Get(ctx context.Context, viewer *auth.AuthContext, id string) (*storage.Incident, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermViewIncident); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id, s.scope(viewer))
}

// List returns one page of incidents visible to the caller.
func (s *Service) List(ctx context.Context, viewer *auth.AuthContext, limit, offset int) (*Page, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermViewIncident); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	incidents, total, err := s.store.List(ctx, s.scope(viewer), limit, offset)
	if err != nil {
		return nil, err
	}
	return &Page{
		Incidents:  incidents,
		Total:      total,
		Page:       offset/limit + 1,
		TotalPages: (total + limit - 1) / limit,
		Limit:      limit,
	}, nil
}

// Update applies a partial update to an incident the caller can see.
func (s *Service) Update(ctx context.Context, viewer *auth.AuthContext, id string, upd storage.IncidentUpdate) (*storage.Incident, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermUpdateIncident); err != nil {
		return nil, err
	}
	if upd.Status != nil && !contains(Statuses, *upd.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *upd.Status)
	}
	if upd.Priority != nil && !contains(Priorities, *upd.Priority) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, *upd.Priority)
	}

	// Visibility check before the write keeps scoped users from updating
	// other users' incidents by guessing IDs.
	if _, err := s.store.FindByID(ctx, id, s.scope(viewer)); err != nil {
		return nil, err
	}

	inc, err := s.store.Update(ctx, id, upd, viewer.Email)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionUpdateIncident, "updated incident "+id, viewer.Email, viewer.UserID)
	}
	return inc, nil
}

// Delete soft-deletes an incident the caller can see.
func (s *Service) Delete(ctx context.Context, viewer *auth.AuthContext, id string) error {
	if err := rbac.Require(viewer.Permissions, rbac.PermDeleteIncident); err != nil {
		return err
	}

	if err := s.store.SoftDelete(ctx, id, viewer.Email, s.scope(viewer)); err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionDeleteIncident, "deleted incident "+id, viewer.Email, viewer.UserID)
	}
	return nil
}

// scope returns the creator filter for the viewer: empty for view-all
// holders, the viewer's email otherwise.
func (s *Service) scope(viewer *auth.AuthContext) string {
	if rbac.HasPermission(viewer.Permissions, rbac.PermViewAllIncident) {
		return ""
	}
	return viewer.Email
}

func validate(req *CreateRequest) error {
	if req.Title == "" {
		return ErrEmptyTitle
	}
	if req.Status == "" {
		req.Status = "Open"
	}
	if req.Priority == "" {
		req.Priority = "Medium"
	}
	if !contains(Statuses, req.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}
	if !contains(Priorities, req.Priority) {
		return fmt.Errorf("%w: %s", ErrInvalidPriority, req.Priority)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// clampPage keeps the page arithmetic safe for callers that bypass the
// HTTP-layer pagination validation.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
