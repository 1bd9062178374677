// Package sqlstore implements the storage interfaces on database/sql.
// Queries use $n placeholders, which both lib/pq and go-sqlite3 accept, so
// the same code serves postgres in production and sqlite3 locally.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver for local development

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// Store is the database-backed implementation of storage.Store.
type Store struct {
	db        *sql.DB
	users     *UserStore
	incidents *IncidentStore
	comments  *CommentStore
	audit     *AuditStore
}

// Open connects to the configured database, applies pool settings, pings
// it, and bootstraps the schema.
func Open(ctx context.Context, cfg storage.Config) (*Store, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db)
}

// New wraps an existing database handle. Used directly by tests (sqlmock)
// and by Open.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}

	var err error
	if s.users, err = NewUserStore(db); err != nil {
		return nil, err
	}
	if s.incidents, err = NewIncidentStore(db); err != nil {
		return nil, err
	}
	if s.comments, err = NewCommentStore(db); err != nil {
		return nil, err
	}
	if s.audit, err = NewAuditStore(db); err != nil {
		return nil, err
	}

	return s, nil
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Users() storage.UserStore         { return s.users }
func (s *Store) Incidents() storage.IncidentStore { return s.incidents }
func (s *Store) Comments() storage.CommentStore   { return s.comments }
func (s *Store) Audit() storage.AuditStore        { return s.audit }

func (s *Store) Close() error { return s.db.Close() }
