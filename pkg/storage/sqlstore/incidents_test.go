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

func newIncidentStoreForTest(t *testing.T) (*IncidentStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS incidents").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewIncidentStore(db)
	require.NoError(t, err)
	return store, mock
}

func incidentRows(t *testing.T, ids ...string) *sqlmock.Rows {
	t.Helper()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "status", "priority", "assigned_to",
		"category", "tags", "resolution_notes",
		"created_on", "created_by", "updated_on", "updated_by", "is_deleted",
	})
	for _, id := range ids {
		rows.AddRow(id, "server down", "prod api unreachable", "Open", "High", nil,
			nil, nil, nil, now, "a@x.com", now, "a@x.com", false)
	}
	return rows
}

func TestIncidentStoreInsert(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	mock.ExpectExec("INSERT INTO incidents").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), &storage.Incident{
		ID:        "i1",
		Title:     "server down",
		Status:    "Open",
		Priority:  "High",
		CreatedBy: "a@x.com",
		UpdatedBy: "a@x.com",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncidentStoreFindByIDScoped(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	mock.ExpectQuery("SELECT (.+) FROM incidents WHERE id").
		WithArgs("i1", "a@x.com").
		WillReturnRows(incidentRows(t, "i1"))

	inc, err := store.FindByID(context.Background(), "i1", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "i1", inc.ID)
	assert.Equal(t, "server down", inc.Title)
}

func TestIncidentStoreFindByIDNotFound(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	mock.ExpectQuery("SELECT (.+) FROM incidents WHERE id").
		WithArgs("nope", "a@x.com").
		WillReturnRows(incidentRows(t))

	_, err := store.FindByID(context.Background(), "nope", "a@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIncidentStoreList(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT (.+) FROM incidents").
		WithArgs("a@x.com", 10, 0).
		WillReturnRows(incidentRows(t, "i1", "i2"))

	incidents, total, err := store.List(context.Background(), "a@x.com", 10, 0)
	require.NoError(t, err)
	assert.Len(t, incidents, 2)
	assert.Equal(t, 12, total)
}

func TestIncidentStoreListAll(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	// Empty creator lists every incident (view-all path).
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM incidents").
		WithArgs(10, 0).
		WillReturnRows(incidentRows(t, "i1", "i2", "i3"))

	incidents, total, err := store.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, incidents, 3)
	assert.Equal(t, 3, total)
}

func TestIncidentStoreUpdate(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	title := "server restored"
	status := "Resolved"

	mock.ExpectExec("UPDATE incidents SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM incidents WHERE id").
		WithArgs("i1").
		WillReturnRows(incidentRows(t, "i1"))

	inc, err := store.Update(context.Background(), "i1",
		storage.IncidentUpdate{Title: &title, Status: &status}, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "i1", inc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncidentStoreUpdateNoFields(t *testing.T) {
	store, _ := newIncidentStoreForTest(t)

	_, err := store.Update(context.Background(), "i1", storage.IncidentUpdate{}, "a@x.com")
	assert.Error(t, err)
}

func TestIncidentStoreUpdateNotFound(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	title := "x"
	mock.ExpectExec("UPDATE incidents SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.Update(context.Background(), "gone", storage.IncidentUpdate{Title: &title}, "a@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIncidentStoreSoftDelete(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	mock.ExpectExec("UPDATE incidents SET is_deleted").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SoftDelete(context.Background(), "i1", "a@x.com", "a@x.com")
	require.NoError(t, err)
}

func TestIncidentStoreSoftDeleteNotFound(t *testing.T) {
	store, mock := newIncidentStoreForTest(t)

	mock.ExpectExec("UPDATE incidents SET is_deleted").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SoftDelete(context.Background(), "gone", "a@x.com", "a@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
