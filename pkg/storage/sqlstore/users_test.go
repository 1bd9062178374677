package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevoid12/incident-tracker/pkg/storage"
)

func newUserStoreForTest(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewUserStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestUserStoreInsert(t *testing.T) {
	store, mock := newUserStoreForTest(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "a@x.com", "hashed", []byte{0x96}, sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), "u1", false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), &storage.User{
		ID:        "u1",
		Email:     "a@x.com",
		Password:  "hashed",
		Role:      []byte{0x96},
		CreatedBy: "u1",
		UpdatedBy: "u1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreInsertDuplicate(t *testing.T) {
	store, mock := newUserStoreForTest(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("pq: duplicate key value violates unique constraint \"users_email_key\""))

	err := store.Insert(context.Background(), &storage.User{ID: "u2", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserStoreFindByEmail(t *testing.T) {
	store, mock := newUserStoreForTest(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "email", "password", "role",
		"created_on", "created_by", "updated_on", "updated_by", "is_deleted",
	}).AddRow("u1", "a@x.com", "hashed", []byte{0x00}, now, "u1", now, "u1", false)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("a@x.com").
		WillReturnRows(rows)

	user, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []byte{0x00}, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreFindByEmailNotFound(t *testing.T) {
	store, mock := newUserStoreForTest(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("missing@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserStoreListEmails(t *testing.T) {
	store, mock := newUserStoreForTest(t)

	rows := sqlmock.NewRows([]string{"email"}).AddRow("a@x.com").AddRow("b@x.com")
	mock.ExpectQuery("SELECT email FROM users").WillReturnRows(rows)

	emails, err := store.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, emails)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isUniqueViolation(errors.New("duplicate key value violates unique constraint")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}
