// Package users implements registration, login, and user lookup.
//
// Passwords are stored as bcrypt hashes. Each user row carries a permission
// blob snapshotted from the role table at registration time, so later role
// edits do not retroactively change existing users.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/thevoid12/incident-tracker/pkg/audit"
	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
	"github.com/thevoid12/incident-tracker/pkg/storage/sqlstore"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch means password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnknownRole means the requested role has no permission set.
	ErrUnknownRole = errors.New("unknown role")
)

// Service implements user registration and login.
type Service struct {
	store   storage.UserStore
	tokens  *auth.TokenManager
	audit   *audit.Service
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates the user service.
func NewService(store storage.UserStore, tokens *auth.TokenManager, auditSvc *audit.Service, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		tokens:  tokens,
		audit:   auditSvc,
		logger:  logger,
		metrics: metrics,
	}
}

// Register creates a user with the given role and returns it together
// with a fresh session token.
func (s *Service) Register(ctx context.Context, email, password, confirm, role string) (*storage.User, string, error) {
	if email == "" || password == "" {
		s.countRegistration("invalid")
		return nil, "", ErrInvalidCredentials
	}
	if password != confirm {
		s.countRegistration("mismatch")
		return nil, "", ErrPasswordMismatch
	}
	if role == "" {
		role = rbac.RoleUser
	}

	perms := rbac.PermissionsForRole(role)
	if perms == nil {
		s.countRegistration("invalid")
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.countRegistration("error")
		return nil, "", err
	}

	id := uuid.NewString()
	user := &storage.User{
		ID:        id,
		Email:     email,
		Password:  hash,
		Role:      rbac.Encode(perms),
		CreatedBy: id,
		UpdatedBy: id,
	}

	if err := s.store.Insert(ctx, user); err != nil {
		if errors.Is(err, sqlstore.ErrDuplicateEmail) {
			s.countRegistration("duplicate")
			return nil, "", ErrEmailTaken
		}
		s.countRegistration("error")
		return nil, "", err
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return nil, "", err
	}

	s.countRegistration("success")
	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionCreateUser, "registered "+email, email, id)
	}
	if s.logger != nil {
		s.logger.WithField("email", email).Info("user registered")
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*storage.User, string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.countLogin("failure")
			return nil, "", ErrInvalidCredentials
		}
		s.countLogin("error")
		return nil, "", err
	}

	ok, err := auth.VerifyPassword(password, user.Password)
	if err != nil {
		s.countLogin("error")
		return nil, "", err
	}
	if !ok {
		s.countLogin("failure")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return nil, "", err
	}

	s.countLogin("success")
	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionLogin, "", email, user.ID)
	}
	return user, token, nil
}

// ListEmails returns every registered email address.
func (s *Service) ListEmails(ctx context.Context) ([]string, error) {
	return s.store.ListEmails(ctx)
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countRegistration(outcome string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}
