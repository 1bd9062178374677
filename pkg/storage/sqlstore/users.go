package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// ErrDuplicateEmail is returned by Insert when the email unique constraint
// fires. The users service maps it to its registration-conflict error.
var ErrDuplicateEmail = errors.New("email already registered")

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL,
	role BYTEA,
	created_on TIMESTAMP NOT NULL,
	created_by TEXT NOT NULL,
	updated_on TIMESTAMP NOT NULL,
	updated_by TEXT NOT NULL,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE
)`

// UserStore persists accounts in the users table.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates the store and bootstraps its table.
func NewUserStore(db *sql.DB) (*UserStore, error) {
	if _, err := db.Exec(createUsersTable); err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}
	return &UserStore{db: db}, nil
}

// Insert stores a new user. The role blob is written verbatim.
func (s *UserStore) Insert(ctx context.Context, user *storage.User) error {
	now := time.Now().UTC()
	if user.CreatedOn.IsZero() {
		user.CreatedOn = now
	}
	if user.UpdatedOn.IsZero() {
		user.UpdatedOn = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password, role, created_on, created_by, updated_on, updated_by, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Email, user.Password, user.Role,
		user.CreatedOn, user.CreatedBy, user.UpdatedOn, user.UpdatedBy, user.IsDeleted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByEmail looks up a user by email, case-sensitive as stored.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*storage.User, error) {
	return s.findOne(ctx, "email", email)
}

// FindByID looks up a user by id.
func (s *UserStore) FindByID(ctx context.Context, id string) (*storage.User, error) {
	return s.findOne(ctx, "id", id)
}

func (s *UserStore) findOne(ctx context.Context, column, value string) (*storage.User, error) {
	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`
		SELECT id, email, password, role, created_on, created_by, updated_on, updated_by, is_deleted
		FROM users WHERE %s = $1 AND is_deleted = FALSE`, column)

	user := &storage.User{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Email, &user.Password, &user.Role,
		&user.CreatedOn, &user.CreatedBy, &user.UpdatedOn, &user.UpdatedBy, &user.IsDeleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// ListEmails returns every registered email address.
func (s *UserStore) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email FROM users WHERE is_deleted = FALSE ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// isUniqueViolation detects duplicate-key failures for both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// go-sqlite3 reports constraint violations in the error text; matching
	// the message avoids importing its cgo error types here.
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
