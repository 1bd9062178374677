// Package audit records user actions and serves the audit trail.
//
// Every mutating operation in the system writes one entry. Recording is
// best effort: a storage failure is logged but never propagated, so an
// audit outage cannot block the operation it describes.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// Service records and lists audit entries.
type Service struct {
	store  storage.AuditStore
	logger *observability.Logger
}

// NewService creates the audit service.
func NewService(store storage.AuditStore, logger *observability.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record writes one audit entry. Failures are logged, not returned.
func (s *Service) Record(ctx context.Context, action Action, description, email, actorID string) {
	entry := &storage.AuditEntry{
		ID:          uuid.NewString(),
		UserAction:  string(action),
		Description: description,
		Email:       email,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).
				WithField("action", string(action)).
				WithField("email", email).
				Error("failed to record audit entry")
		}
	}
}

// List returns one page of the audit trail visible to the viewer.
//
// Viewing requires the audittrail:view permission. Holders of
// audittrail:view_all (or the admin blob) see every entry; everyone else
// sees only entries they created.
func (s *Service) List(ctx context.Context, viewer *auth.AuthContext, filter storage.AuditFilter, limit, offset int) (*Page, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermViewAuditTrail); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	createdBy := viewer.UserID
	if rbac.HasPermission(viewer.Permissions, rbac.PermViewAllAuditTrail) {
		createdBy = ""
	}

	entries, total, err := s.store.List(ctx, createdBy, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Entries:    make([]*Entry, 0, len(entries)),
		Total:      total,
		Page:       offset/limit + 1,
		TotalPages: (total + limit - 1) / limit,
		Limit:      limit,
	}
	for _, e := range entries {
		page.Entries = append(page.Entries, &Entry{
			ID:          e.ID,
			UserAction:  e.UserAction,
			Description: e.Description,
			Email:       e.Email,
			CreatedOn:   e.CreatedOn.UTC().Format(time.RFC3339),
			CreatedBy:   e.CreatedBy,
		})
	}
	return page, nil
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
