// Package directory implements user administration: listing accounts,
// changing roles, restricting access, and managing role registry entries.
package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"apexcrm/internal/domain"
)

type UserService struct {
	users   domain.UserRepository
	invites domain.InvitationRepository
	idp     domain.IdentityProvider
	audit   domain.ActivityRepository
	logger  *slog.Logger
}

func NewUserService(users domain.UserRepository, invites domain.InvitationRepository, idp domain.IdentityProvider, audit domain.ActivityRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:   users,
		invites: invites,
		idp:     idp,
		audit:   audit,
		logger:  logger.With("component", "directory"),
	}
}

func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	if err := require(ctx, domain.ActionManageUsers); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, page)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := require(ctx, domain.ActionManageUsers); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// ChangeRole updates the account record and its role registry entry together.
// The dev role is allow-list only and can never be assigned here.
func (s *UserService) ChangeRole(ctx context.Context, id string, role string) error {
	if err := require(ctx, domain.ActionManageUsers); err != nil {
		return err
	}
	parsed, err := domain.ParseAssignableRole(role)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleDev {
		return domain.ErrValidation("developer accounts cannot be reassigned")
	}
	if user.Role == parsed {
		return nil
	}

	if err := s.users.SetRole(ctx, id, user.Email, parsed); err != nil {
		return err
	}
	s.logActivity(ctx, domain.ActivityRoleChange,
		fmt.Sprintf("Changed %s from %s to %s", user.Email, user.Role, parsed))
	return nil
}

// SetRestricted toggles the disabled flag. A restricted account keeps its
// record and role but is denied at resolution and on every request.
func (s *UserService) SetRestricted(ctx context.Context, id string, restricted bool) error {
	if err := require(ctx, domain.ActionManageUsers); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ident, ok := domain.IdentityFromContext(ctx); ok && ident.UserID == id && restricted {
		return domain.ErrValidation("you cannot restrict your own account")
	}

	if err := s.users.SetDisabled(ctx, id, restricted); err != nil {
		return err
	}
	verb := "Unrestricted"
	if restricted {
		verb = "Restricted"
	}
	s.logActivity(ctx, domain.ActivityUserStatusChange, fmt.Sprintf("%s %s", verb, user.Email))
	return nil
}

// Delete removes the account record, its registry entry, and the credential
// account, so the email can be re-invited from a clean slate.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := require(ctx, domain.ActionManageUsers); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ident, ok := domain.IdentityFromContext(ctx); ok && ident.UserID == id {
		return domain.ErrValidation("you cannot delete your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.invites.Delete(ctx, user.Email); err != nil {
		s.logger.Warn("registry entry cleanup failed", "email", user.Email, "error", err)
	}
	if err := s.idp.Delete(ctx, id); err != nil {
		s.logger.Warn("credential account cleanup failed", "user_id", id, "error", err)
	}
	s.logActivity(ctx, domain.ActivityUserDeleted, fmt.Sprintf("Deleted %s", user.Email))
	return nil
}

// Profile returns the signed-in user's own account record.
func (s *UserService) Profile(ctx context.Context) (*domain.User, error) {
	ident, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("not signed in")
	}
	return s.users.GetByID(ctx, ident.UserID)
}

// UpdateProfile applies self-service profile edits for the signed-in user.
func (s *UserService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.User, error) {
	ident, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("not signed in")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, ident.UserID, req); err != nil {
		return nil, err
	}
	s.logActivity(ctx, domain.ActivityProfileUpdated, fmt.Sprintf("%s updated their profile", ident.Email))
	return s.users.GetByID(ctx, ident.UserID)
}

// logActivity records an audit entry attributed to the real signed-in
// account. Attribution never follows an impersonation overlay.
func (s *UserService) logActivity(ctx context.Context, activityType, description string) {
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

func newActivityID() string {
	return uuid.NewString()
}

// require checks the effective role's capability for the action.
func require(ctx context.Context, action domain.Action) error {
	ident, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return domain.ErrAccessDenied("not signed in")
	}
	if !ident.Can(action) {
		return domain.ErrAccessDenied("role %s may not %s", ident.EffectiveRole(), action)
	}
	return nil
}
