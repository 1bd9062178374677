// Package chat implements threaded comments on incidents.
//
// Threads are one level deep: a comment either starts a thread or replies
// to a thread starter. Replies to replies are rejected.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thevoid12/incident-tracker/pkg/audit"
	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

var (
	// ErrEmptyBody means the comment has no text.
	ErrEmptyBody = errors.New("comment body is required")
	// ErrParentNotFound means the reply target does not exist on this incident.
	ErrParentNotFound = errors.New("parent comment not found")
	// ErrNestedReply means the reply target is itself a reply.
	ErrNestedReply = errors.New("cannot reply to a reply")
)

// Comment is the API shape of a comment with its replies.
type Comment struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Body      string     `json:"body"`
	CreatedOn string     `json:"created_on"`
	Replies   []*Comment `json:"replies,omitempty"`
}

// Service implements incident comments.
type Service struct {
	comments  storage.CommentStore
	incidents storage.IncidentStore
	audit     *audit.Service
	logger    *observability.Logger
	metrics   *observability.Metrics
}

// NewService creates the chat service.
func NewService(comments storage.CommentStore, incidents storage.IncidentStore, auditSvc *audit.Service, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		comments:  comments,
		incidents: incidents,
		audit:     auditSvc,
		logger:    logger,
		metrics:   metrics,
	}
}

// Post adds a comment to an incident the caller can see. A non-empty
// parentID makes it a reply to that thread starter.
func (s *Service) Post(ctx context.Context, viewer *auth.AuthContext, incidentID, parentID, body string) (*Comment, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermCreateComment); err != nil {
		return nil, err
	}
	if body == "" {
		return nil, ErrEmptyBody
	}

	if _, err := s.incidents.FindByID(ctx, incidentID, s.incidentScope(viewer)); err != nil {
		return nil, err
	}

	if parentID != "" {
		if err := s.checkParent(ctx, incidentID, parentID); err != nil {
			return nil, err
		}
	}

	comment := &storage.Comment{
		ID:         uuid.NewString(),
		IncidentID: incidentID,
		ParentID:   parentID,
		Email:      viewer.Email,
		Body:       body,
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CommentsCreatedTotal.Inc()
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionCreateComment, "commented on incident "+incidentID, viewer.Email, viewer.UserID)
	}
	return toAPI(comment), nil
}

// Thread returns the comment tree for an incident the caller can see.
// Top-level comments keep storage order (oldest first); replies nest under
// their parent.
func (s *Service) Thread(ctx context.Context, viewer *auth.AuthContext, incidentID string) ([]*Comment, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermViewComment); err != nil {
		return nil, err
	}

	if _, err := s.incidents.FindByID(ctx, incidentID, s.incidentScope(viewer)); err != nil {
		return nil, err
	}

	flat, err := s.comments.ListByIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Comment, len(flat))
	var roots []*Comment
	for _, c := range flat {
		api := toAPI(c)
		byID[c.ID] = api
		if c.ParentID == "" {
			roots = append(roots, api)
		}
	}
	for _, c := range flat {
		if c.ParentID == "" {
			continue
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			// Orphaned reply, surface it as top-level rather than drop it.
			roots = append(roots, byID[c.ID])
			continue
		}
		parent.Replies = append(parent.Replies, byID[c.ID])
	}
	return roots, nil
}

func (s *Service) checkParent(ctx context.Context, incidentID, parentID string) error {
	flat, err := s.comments.ListByIncident(ctx, incidentID)
	if err != nil {
		return err
	}
	for _, c := range flat {
		if c.ID != parentID {
			continue
		}
		if c.ParentID != "" {
			return ErrNestedReply
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
}

func (s *Service) incidentScope(viewer *auth.AuthContext) string {
	if rbac.HasPermission(viewer.Permissions, rbac.PermViewAllIncident) {
		return ""
	}
	return viewer.Email
}

func toAPI(c *storage.Comment) *Comment {
	created := c.CreatedOn
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &Comment{
		ID:        c.ID,
		Email:     c.Email,
		Body:      c.Body,
		CreatedOn: created.UTC().Format(time.RFC3339),
	}
}
