package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

func newAuditStoreForTest(t *testing.T) (*AuditStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_trail").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewAuditStore(db)
	require.NoError(t, err)
	return store, mock
}

func auditRows(count int) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_action", "description", "email",
		"created_on", "created_by", "updated_on", "updated_by", "is_deleted",
	})
	for i := 0; i < count; i++ {
		rows.AddRow("e1", "CREATE_INCIDENT", "created incident i1", "a@x.com",
			now, "u1", now, "u1", false)
	}
	return rows
}

func TestAuditStoreInsert(t *testing.T) {
	store, mock := newAuditStoreForTest(t)

	mock.ExpectExec("INSERT INTO audit_trail").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), &storage.AuditEntry{
		ID:          "e1",
		UserAction:  "CREATE_INCIDENT",
		Description: "created incident i1",
		Email:       "a@x.com",
		CreatedBy:   "u1",
		UpdatedBy:   "u1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditStoreListOwn(t *testing.T) {
	store, mock := newAuditStoreForTest(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("SELECT (.+) FROM audit_trail").
		WithArgs("u1", 10, 0).
		WillReturnRows(auditRows(2))

	entries, total, err := store.List(context.Background(), "u1", storage.AuditFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 5, total)
}

func TestAuditStoreListFiltered(t *testing.T) {
	store, mock := newAuditStoreForTest(t)

	start := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("CREATE_INCIDENT", "a@x.com", start).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM audit_trail").
		WithArgs("CREATE_INCIDENT", "a@x.com", start, 10, 0).
		WillReturnRows(auditRows(1))

	filter := storage.AuditFilter{
		UserAction: "CREATE_INCIDENT",
		Email:      "a@x.com",
		StartDate:  &start,
	}
	entries, total, err := store.List(context.Background(), "", filter, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
}

func TestAuditStoreDeleteOlderThan(t *testing.T) {
	store, mock := newAuditStoreForTest(t)

	mock.ExpectExec("DELETE FROM audit_trail").
		WillReturnResult(sqlmock.NewResult(0, 42))

	deleted, err := store.DeleteOlderThan(context.Background(), 365)
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
}
