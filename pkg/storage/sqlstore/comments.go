package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS incident_comments (
	id TEXT PRIMARY KEY,
	incident_id TEXT NOT NULL,
	parent_id TEXT,
	email VARCHAR(255) NOT NULL,
	body TEXT NOT NULL,
	created_on TIMESTAMP NOT NULL,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE
)`

// CommentStore persists incident chat messages.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates the store and bootstraps its table.
func NewCommentStore(db *sql.DB) (*CommentStore, error) {
	if _, err := db.Exec(createCommentsTable); err != nil {
		return nil, fmt.Errorf("failed to create incident_comments table: %w", err)
	}
	return &CommentStore{db: db}, nil
}

// Insert stores a new comment.
func (s *CommentStore) Insert(ctx context.Context, c *storage.Comment) error {
	if c.CreatedOn.IsZero() {
		c.CreatedOn = time.Now().UTC()
	}

	var parent interface{}
	if c.ParentID != "" {
		parent = c.ParentID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incident_comments (id, incident_id, parent_id, email, body, created_on, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.IncidentID, parent, c.Email, c.Body, c.CreatedOn, c.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// ListByIncident returns all live comments for an incident in posting
// order. Thread assembly happens in the chat service.
func (s *CommentStore) ListByIncident(ctx context.Context, incidentID string) ([]*storage.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, incident_id, parent_id, email, body, created_on, is_deleted
		FROM incident_comments
		WHERE incident_id = $1 AND is_deleted = FALSE
		ORDER BY created_on ASC`, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*storage.Comment
	for rows.Next() {
		c := &storage.Comment{}
		var parent sql.NullString
		if err := rows.Scan(&c.ID, &c.IncidentID, &parent, &c.Email, &c.Body, &c.CreatedOn, &c.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.ParentID = parent.String
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
