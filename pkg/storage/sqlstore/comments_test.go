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

func newCommentStoreForTest(t *testing.T) (*CommentStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS incident_comments").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewCommentStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestCommentStoreInsert(t *testing.T) {
	store, mock := newCommentStoreForTest(t)

	mock.ExpectExec("INSERT INTO incident_comments").
		WithArgs("c1", "i1", nil, "a@x.com", "looking into it", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), &storage.Comment{
		ID:         "c1",
		IncidentID: "i1",
		Email:      "a@x.com",
		Body:       "looking into it",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentStoreInsertReply(t *testing.T) {
	store, mock := newCommentStoreForTest(t)

	mock.ExpectExec("INSERT INTO incident_comments").
		WithArgs("c2", "i1", "c1", "b@x.com", "same here", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), &storage.Comment{
		ID:         "c2",
		IncidentID: "i1",
		ParentID:   "c1",
		Email:      "b@x.com",
		Body:       "same here",
	})
	require.NoError(t, err)
}

func TestCommentStoreListByIncident(t *testing.T) {
	store, mock := newCommentStoreForTest(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "incident_id", "parent_id", "email", "body", "created_on", "is_deleted"}).
		AddRow("c1", "i1", nil, "a@x.com", "looking into it", now, false).
		AddRow("c2", "i1", "c1", "b@x.com", "same here", now, false)

	mock.ExpectQuery("SELECT (.+) FROM incident_comments").
		WithArgs("i1").
		WillReturnRows(rows)

	comments, err := store.ListByIncident(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Empty(t, comments[0].ParentID)
	assert.Equal(t, "c1", comments[1].ParentID)
}
