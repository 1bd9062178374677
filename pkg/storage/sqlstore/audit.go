package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS audit_trail (
	id TEXT PRIMARY KEY,
	user_action TEXT NOT NULL,
	description TEXT,
	email TEXT NOT NULL,
	created_on TIMESTAMP NOT NULL,
	created_by TEXT NOT NULL,
	updated_on TIMESTAMP NOT NULL,
	updated_by TEXT NOT NULL,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE
)`

// AuditStore persists the audit trail.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates the store and bootstraps its table.
func NewAuditStore(db *sql.DB) (*AuditStore, error) {
	if _, err := db.Exec(createAuditTable); err != nil {
		return nil, fmt.Errorf("failed to create audit_trail table: %w", err)
	}
	return &AuditStore{db: db}, nil
}

// Insert stores one audit entry.
func (s *AuditStore) Insert(ctx context.Context, e *storage.AuditEntry) error {
	now := time.Now().UTC()
	if e.CreatedOn.IsZero() {
		e.CreatedOn = now
	}
	if e.UpdatedOn.IsZero() {
		e.UpdatedOn = now
	}

	var description interface{}
	if e.Description != "" {
		description = e.Description
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_trail (id, user_action, description, email, created_on, created_by, updated_on, updated_by, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserAction, description, e.Email,
		e.CreatedOn, e.CreatedBy, e.UpdatedOn, e.UpdatedBy, e.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns a page of audit entries plus the total count. Non-empty
// createdBy scopes to that actor's own entries; filters narrow further.
func (s *AuditStore) List(ctx context.Context, createdBy string, filter storage.AuditFilter, limit, offset int) ([]*storage.AuditEntry, int, error) {
	where := `WHERE is_deleted = FALSE`
	args := []interface{}{}
	n := 1

	addCond := func(cond string, value interface{}) {
		where += fmt.Sprintf(" AND "+cond, n)
		args = append(args, value)
		n++
	}

	if createdBy != "" {
		addCond("created_by = $%d", createdBy)
	}
	if filter.UserAction != "" {
		addCond("user_action = $%d", filter.UserAction)
	}
	if filter.Email != "" {
		addCond("email = $%d", filter.Email)
	}
	if filter.StartDate != nil {
		addCond("created_on >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCond("created_on <= $%d", *filter.EndDate)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_trail `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `SELECT id, user_action, description, email, created_on, created_by, updated_on, updated_by, is_deleted
		FROM audit_trail ` + where +
		` ORDER BY created_on DESC LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*storage.AuditEntry
	for rows.Next() {
		e := &storage.AuditEntry{}
		var description sql.NullString
		if err := rows.Scan(&e.ID, &e.UserAction, &description, &e.Email,
			&e.CreatedOn, &e.CreatedBy, &e.UpdatedOn, &e.UpdatedBy, &e.IsDeleted); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Description = description.String
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// DeleteOlderThan removes entries past the retention window.
func (s *AuditStore) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result, err := s.db.ExecContext(ctx, `DELETE FROM audit_trail WHERE created_on < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit entries: %w", err)
	}
	return result.RowsAffected()
}
