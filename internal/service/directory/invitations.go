package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"apexcrm/internal/domain"
)

// InvitationService manages role registry entries ahead of first login.
type InvitationService struct {
	invites domain.InvitationRepository
	users   domain.UserRepository
	audit   domain.ActivityRepository
	logger  *slog.Logger
}

func NewInvitationService(invites domain.InvitationRepository, users domain.UserRepository, audit domain.ActivityRepository, logger *slog.Logger) *InvitationService {
	return &InvitationService{
		invites: invites,
		users:   users,
		audit:   audit,
		logger:  logger.With("component", "invitations"),
	}
}

// Create pre-registers an email to a role. Re-inviting an email that already
// has an account record is refused; use ChangeRole instead.
func (s *InvitationService) Create(ctx context.Context, req domain.CreateInvitationRequest) (*domain.Invitation, error) {
	if err := require(ctx, domain.ActionInviteUser); err != nil {
		return nil, err
	}
	role, err := req.Validate()
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var notFound *domain.NotFoundError
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrConflict("%s already has an account; change their role instead", email)
	} else if !errors.As(err, &notFound) {
		return nil, err
	}

	inv := &domain.Invitation{Email: email, Role: role}
	if err := s.invites.Put(ctx, inv); err != nil {
		return nil, err
	}

	s.logActivity(ctx, domain.ActivityUserInvited, fmt.Sprintf("Invited %s as %s", email, role))
	return s.invites.GetByEmail(ctx, email)
}

func (s *InvitationService) List(ctx context.Context, page domain.PageRequest) ([]domain.Invitation, int64, error) {
	if err := require(ctx, domain.ActionInviteUser); err != nil {
		return nil, 0, err
	}
	return s.invites.List(ctx, page)
}

func (s *InvitationService) Delete(ctx context.Context, email string) error {
	if err := require(ctx, domain.ActionInviteUser); err != nil {
		return err
	}
	return s.invites.Delete(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *InvitationService) logActivity(ctx context.Context, activityType, description string) {
	ident, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return
	}
	err := s.audit.Insert(ctx, &domain.Activity{
		ID:          newActivityID(),
		Type:        activityType,
		Description: description,
		ActorEmail:  ident.Email,
		ActorName:   ident.Name,
	})
	if err != nil {
		s.logger.Warn("activity write failed", "type", activityType, "error", err)
	}
}
