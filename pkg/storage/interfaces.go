package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist (or is
// soft-deleted). The API layer maps it to 404.
var ErrNotFound = errors.New("record not found")

// UserStore persists accounts. FindByEmail returns ErrNotFound for unknown
// emails; the login service folds that into its generic credentials error.
type UserStore interface {
	Insert(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	ListEmails(ctx context.Context) ([]string, error)
}

// IncidentStore persists incident records. List and Count scope to a
// creator when createdBy is non-empty; an empty creator means "all
// incidents" (caller must hold the view-all permission).
type IncidentStore interface {
	Insert(ctx context.Context, incident *Incident) error
	FindByID(ctx context.Context, id, createdBy string) (*Incident, error)
	List(ctx context.Context, createdBy string, limit, offset int) ([]*Incident, int, error)
	Update(ctx context.Context, id string, update IncidentUpdate, updatedBy string) (*Incident, error)
	SoftDelete(ctx context.Context, id, deletedBy, createdBy string) error
}

// CommentStore persists incident chat messages.
type CommentStore interface {
	Insert(ctx context.Context, comment *Comment) error
	ListByIncident(ctx context.Context, incidentID string) ([]*Comment, error)
}

// AuditStore persists the audit trail.
type AuditStore interface {
	Insert(ctx context.Context, entry *AuditEntry) error
	// List returns entries visible to createdBy; empty createdBy lists all.
	List(ctx context.Context, createdBy string, filter AuditFilter, limit, offset int) ([]*AuditEntry, int, error)
	// DeleteOlderThan removes entries past the retention window and
	// returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// Store bundles the individual stores behind one handle.
type Store interface {
	Users() UserStore
	Incidents() IncidentStore
	Comments() CommentStore
	Audit() AuditStore
	Close() error
}
