package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

const createIncidentsTable = `
CREATE TABLE IF NOT EXISTS incidents (
	id TEXT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT,
	status VARCHAR(50) NOT NULL,
	priority VARCHAR(50) NOT NULL,
	assigned_to TEXT,
	category VARCHAR(100),
	tags VARCHAR(500),
	resolution_notes TEXT,
	created_on TIMESTAMP NOT NULL,
	created_by TEXT NOT NULL,
	updated_on TIMESTAMP NOT NULL,
	updated_by TEXT NOT NULL,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE
)`

const incidentColumns = `id, title, description, status, priority, assigned_to,
	category, tags, resolution_notes, created_on, created_by, updated_on, updated_by, is_deleted`

// IncidentStore persists incidents.
type IncidentStore struct {
	db *sql.DB
}

// NewIncidentStore creates the store and bootstraps its table.
func NewIncidentStore(db *sql.DB) (*IncidentStore, error) {
	if _, err := db.Exec(createIncidentsTable); err != nil {
		return nil, fmt.Errorf("failed to create incidents table: %w", err)
	}
	return &IncidentStore{db: db}, nil
}

// Insert stores a new incident.
func (s *IncidentStore) Insert(ctx context.Context, inc *storage.Incident) error {
	now := time.Now().UTC()
	if inc.CreatedOn.IsZero() {
		inc.CreatedOn = now
	}
	if inc.UpdatedOn.IsZero() {
		inc.UpdatedOn = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents (`+incidentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		inc.ID, inc.Title, inc.Description, inc.Status, inc.Priority, inc.AssignedTo,
		inc.Category, inc.Tags, inc.ResolutionNotes,
		inc.CreatedOn, inc.CreatedBy, inc.UpdatedOn, inc.UpdatedBy, inc.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	return nil
}

// FindByID fetches one incident. A non-empty createdBy additionally scopes
// the lookup to that creator, so users without the view-all permission can
// only see their own records.
func (s *IncidentStore) FindByID(ctx context.Context, id, createdBy string) (*storage.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1 AND is_deleted = FALSE`
	args := []interface{}{id}
	if createdBy != "" {
		query += ` AND created_by = $2`
		args = append(args, createdBy)
	}

	inc, err := scanIncident(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query incident: %w", err)
	}
	return inc, nil
}

// List returns a page of incidents plus the total count for pagination
// arithmetic. Non-empty createdBy scopes to that creator.
func (s *IncidentStore) List(ctx context.Context, createdBy string, limit, offset int) ([]*storage.Incident, int, error) {
	where := `WHERE is_deleted = FALSE`
	args := []interface{}{}
	if createdBy != "" {
		where += ` AND created_by = $1`
		args = append(args, createdBy)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM incidents ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents ` + where +
		` ORDER BY created_on DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	var incidents []*storage.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}
	return incidents, total, rows.Err()
}

// Update applies a partial update and returns the fresh row.
func (s *IncidentStore) Update(ctx context.Context, id string, update storage.IncidentUpdate, updatedBy string) (*storage.Incident, error) {
	sets := []string{}
	args := []interface{}{}
	n := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}
	if update.Priority != nil {
		addSet("priority", *update.Priority)
	}
	if update.AssignedTo != nil {
		addSet("assigned_to", *update.AssignedTo)
	}
	if update.Category != nil {
		addSet("category", *update.Category)
	}
	if update.Tags != nil {
		addSet("tags", *update.Tags)
	}
	if update.ResolutionNotes != nil {
		addSet("resolution_notes", *update.ResolutionNotes)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	addSet("updated_on", time.Now().UTC())
	addSet("updated_by", updatedBy)

	query := `UPDATE incidents SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(` WHERE id = $%d AND is_deleted = FALSE`, n)
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update incident: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.FindByID(ctx, id, "")
}

// SoftDelete marks an incident deleted without removing the row. A
// non-empty createdBy restricts deletion to the incident's creator.
func (s *IncidentStore) SoftDelete(ctx context.Context, id, deletedBy, createdBy string) error {
	query := `UPDATE incidents SET is_deleted = TRUE, updated_on = $1, updated_by = $2
		WHERE id = $3 AND is_deleted = FALSE`
	args := []interface{}{time.Now().UTC(), deletedBy, id}
	if createdBy != "" {
		query += ` AND created_by = $4`
		args = append(args, createdBy)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanIncident(row scanner) (*storage.Incident, error) {
	inc := &storage.Incident{}
	var description, assignedTo, category, tags, resolutionNotes sql.NullString
	err := row.Scan(
		&inc.ID, &inc.Title, &description, &inc.Status, &inc.Priority, &assignedTo,
		&category, &tags, &resolutionNotes,
		&inc.CreatedOn, &inc.CreatedBy, &inc.UpdatedOn, &inc.UpdatedBy, &inc.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	inc.Description = description.String
	inc.AssignedTo = assignedTo.String
	inc.Category = category.String
	inc.Tags = tags.String
	inc.ResolutionNotes = resolutionNotes.String
	return inc, nil
}
