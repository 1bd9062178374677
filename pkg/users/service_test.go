package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
	"github.com/thevoid12/incident-tracker/pkg/storage/sqlstore"
)

type fakeUserStore struct {
	users map[string]*storage.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*storage.User)}
}

func (s *fakeUserStore) Insert(ctx context.Context, u *storage.User) error {
	if _, exists := s.users[u.Email]; exists {
		return sqlstore.ErrDuplicateEmail
	}
	s.users[u.Email] = u
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*storage.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*storage.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUserStore) ListEmails(ctx context.Context) ([]string, error) {
	emails := make([]string, 0, len(s.users))
	for email := range s.users {
		emails = append(emails, email)
	}
	return emails, nil
}

func newServiceForTest(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	tm := auth.NewTokenManager(auth.Config{
		Secret:     "unit-test-secret",
		CookieName: "auth_token",
		TTL:        10 * time.Minute,
	})
	store := newFakeUserStore()
	return NewService(store, tm, nil, nil, nil), store
}

func TestRegister(t *testing.T) {
	svc, store := newServiceForTest(t)

	user, token, err := svc.Register(context.Background(), "a@x.com", "secret", "secret", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret", user.Password)

	// Default role snapshot grants the regular user set.
	assert.True(t, rbac.HasPermission(user.Role, rbac.PermCreateIncident))
	assert.False(t, rbac.HasPermission(user.Role, rbac.PermDeleteIncident))

	stored, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterAdminRole(t *testing.T) {
	svc, _ := newServiceForTest(t)

	user, _, err := svc.Register(context.Background(), "admin@x.com", "secret", "secret", rbac.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, rbac.Sentinel, user.Role)
	assert.True(t, rbac.HasPermission(user.Role, rbac.PermDeleteIncident))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "a@x.com", "secret", "other", "")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "a@x.com", "secret", "secret", "")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "a@x.com", "secret", "secret", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "a@x.com", "secret", "secret", "Superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRegisterEmptyFields(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "", "secret", "secret", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Register(context.Background(), "a@x.com", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "a@x.com", "secret", "secret", "")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "a@x.com", "secret", "secret", "")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Login(context.Background(), "ghost@x.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListEmails(t *testing.T) {
	svc, _ := newServiceForTest(t)

	_, _, err := svc.Register(context.Background(), "a@x.com", "secret", "secret", "")
	require.NoError(t, err)
	_, _, err = svc.Register(context.Background(), "b@x.com", "secret", "secret", "")
	require.NoError(t, err)

	emails, err := svc.ListEmails(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, emails)
}
