package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

type fakeCommentStore struct {
	comments []*storage.Comment
}

func (s *fakeCommentStore) Insert(ctx context.Context, c *storage.Comment) error {
	s.comments = append(s.comments, c)
	return nil
}

func (s *fakeCommentStore) ListByIncident(ctx context.Context, incidentID string) ([]*storage.Comment, error) {
	var out []*storage.Comment
	for _, c := range s.comments {
		if c.IncidentID == incidentID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeIncidentStore struct {
	incidents map[string]*storage.Incident
}

func (s *fakeIncidentStore) Insert(ctx context.Context, inc *storage.Incident) error {
	s.incidents[inc.ID] = inc
	return nil
}

func (s *fakeIncidentStore) FindByID(ctx context.Context, id, createdBy string) (*storage.Incident, error) {
	inc, ok := s.incidents[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if createdBy != "" && inc.CreatedBy != createdBy {
		return nil, storage.ErrNotFound
	}
	return inc, nil
}

func (s *fakeIncidentStore) List(ctx context.Context, createdBy string, limit, offset int) ([]*storage.Incident, int, error) {
	return nil, 0, nil
}

func (s *fakeIncidentStore) Update(ctx context.Context, id string, upd storage.IncidentUpdate, updatedBy string) (*storage.Incident, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeIncidentStore) SoftDelete(ctx context.Context, id, deletedBy, createdBy string) error {
	return storage.ErrNotFound
}

func viewer(email string) *auth.AuthContext {
	return &auth.AuthContext{
		Email:       email,
		UserID:      "uid-" + email,
		Permissions: rbac.Encode(rbac.PermissionsForRole(rbac.RoleUser)),
	}
}

func newServiceForTest(t *testing.T) (*Service, *fakeCommentStore) {
	t.Helper()
	comments := &fakeCommentStore{}
	incidents := &fakeIncidentStore{incidents: map[string]*storage.Incident{
		"i1": {ID: "i1", Title: "server down", CreatedBy: "a@x.com"},
	}}
	return NewService(comments, incidents, nil, nil, nil), comments
}

func TestPost(t *testing.T) {
	svc, store := newServiceForTest(t)

	comment, err := svc.Post(context.Background(), viewer("a@x.com"), "i1", "", "looking into it")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "a@x.com", comment.Email)
	require.Len(t, store.comments, 1)
	assert.Empty(t, store.comments[0].ParentID)
}

func TestPostReply(t *testing.T) {
	svc, store := newServiceForTest(t)

	parent, err := svc.Post(context.Background(), viewer("a@x.com"), "i1", "", "first")
	require.NoError(t, err)

	reply, err := svc.Post(context.Background(), viewer("a@x.com"), "i1", parent.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, store.comments[1].ParentID)
	assert.NotEqual(t, parent.ID, reply.ID)
}

func TestPostEmptyBody(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, err := svc.Post(context.Background(), viewer("a@x.com"), "i1", "", "")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestPostUnknownParent(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, err := svc.Post(context.Background(), viewer("a@x.com"), "i1", "ghost", "reply")
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestPostNestedReplyRejected(t *testing.T) {
	svc, _ := newServiceForTest(t)
	v := viewer("a@x.com")

	parent, err := svc.Post(context.Background(), v, "i1", "", "first")
	require.NoError(t, err)
	reply, err := svc.Post(context.Background(), v, "i1", parent.ID, "second")
	require.NoError(t, err)

	_, err = svc.Post(context.Background(), v, "i1", reply.ID, "third")
	assert.ErrorIs(t, err, ErrNestedReply)
}

func TestPostOnInvisibleIncident(t *testing.T) {
	svc, _ := newServiceForTest(t)

	// The incident belongs to a@x.com; b cannot see it.
	_, err := svc.Post(context.Background(), viewer("b@x.com"), "i1", "", "hello")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestThread(t *testing.T) {
	svc, _ := newServiceForTest(t)
	v := viewer("a@x.com")

	first, err := svc.Post(context.Background(), v, "i1", "", "first")
	require.NoError(t, err)
	second, err := svc.Post(context.Background(), v, "i1", "", "second")
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), v, "i1", first.ID, "reply to first")
	require.NoError(t, err)

	thread, err := svc.Thread(context.Background(), v, "i1")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "reply to first", thread[0].Replies[0].Body)
	assert.Equal(t, second.ID, thread[1].ID)
	assert.Empty(t, thread[1].Replies)
}

func TestThreadRequiresPermission(t *testing.T) {
	svc, _ := newServiceForTest(t)

	noPerms := &auth.AuthContext{
		Email:       "c@x.com",
		UserID:      "u3",
		Permissions: rbac.EncodeMask(1 << rbac.PermViewIncident),
	}
	_, err := svc.Thread(context.Background(), noPerms, "i1")
	assert.ErrorIs(t, err, rbac.ErrPermissionDenied)
}
