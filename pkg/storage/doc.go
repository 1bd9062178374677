// Package storage defines the persistence interfaces and entity types for
// the incident tracker.
//
// Implementations live in subpackages; sqlstore provides the database/sql
// implementation used in production (postgres) and local development
// (sqlite3). Stores hand the permission blob through verbatim: encoding
// and interpretation belong to pkg/rbac, never to the storage layer.
package storage
