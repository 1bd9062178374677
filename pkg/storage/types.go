package storage

import "time"

// User is a registered account. Role holds the encoded permission blob
// snapshotted at registration; storage never interprets it.
type User struct {
	ID        string
	Email     string
	Password  string // bcrypt hash
	Role      []byte // encoded permission blob (BYTEA column)
	CreatedOn time.Time
	CreatedBy string
	UpdatedOn time.Time
	UpdatedBy string
	IsDeleted bool
}

// Incident is a tracked incident record. It doubles as the API shape, so
// the JSON tags live here.
type Incident struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	AssignedTo      string    `json:"assigned_to,omitempty"`
	Category        string    `json:"category,omitempty"`
	Tags            string    `json:"tags,omitempty"` // comma-separated
	ResolutionNotes string    `json:"resolution_notes,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	CreatedBy       string    `json:"created_by"`
	UpdatedOn       time.Time `json:"updated_on"`
	UpdatedBy       string    `json:"updated_by"`
	IsDeleted       bool      `json:"-"`
}

// Comment is a threaded chat message attached to an incident. ParentID is
// empty for top-level messages.
type Comment struct {
	ID         string
	IncidentID string
	ParentID   string
	Email      string
	Body       string
	CreatedOn  time.Time
	IsDeleted  bool
}

// AuditEntry is one row of the audit trail.
type AuditEntry struct {
	ID          string
	UserAction  string
	Description string
	Email       string
	CreatedOn   time.Time
	CreatedBy   string
	UpdatedOn   time.Time
	UpdatedBy   string
	IsDeleted   bool
}

// AuditFilter narrows audit trail listings.
type AuditFilter struct {
	UserAction string
	Email      string
	StartDate  *time.Time
	EndDate    *time.Time
}

// IncidentUpdate carries the partial-update fields for an incident. Nil
// pointers mean "leave unchanged".
type IncidentUpdate struct {
	Title           *string
	Description     *string
	Status          *string
	Priority        *string
	AssignedTo      *string
	Category        *string
	Tags            *string
	ResolutionNotes *string
}
