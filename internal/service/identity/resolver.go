// Package identity implements the role resolution flow: turning an
// authenticated principal into a resolved identity with a role, materializing
// the account record on first login from the role registry.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"apexcrm/internal/domain"
)

// Resolver resolves principals into identities. It owns every rule that sits
// between "credentials are valid" and "this person may use the application".
type Resolver struct {
	idp        domain.IdentityProvider
	users      domain.UserRepository
	invites    domain.InvitationRepository
	developers map[string]bool
	logger     *slog.Logger
}

// NewResolver creates a resolver. devAllowlist holds the emails mapped to the
// dev role without an invitation or a verified email.
func NewResolver(idp domain.IdentityProvider, users domain.UserRepository, invites domain.InvitationRepository, devAllowlist []string, logger *slog.Logger) *Resolver {
	developers := make(map[string]bool, len(devAllowlist))
	for _, email := range devAllowlist {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			developers[email] = true
		}
	}
	return &Resolver{
		idp:        idp,
		users:      users,
		invites:    invites,
		developers: developers,
		logger:     logger.With("component", "resolver"),
	}
}

// IsDeveloper reports whether the email is on the developer allow-list.
func (r *Resolver) IsDeveloper(email string) bool {
	return r.developers[strings.ToLower(email)]
}

// Resolve runs the full resolution flow for a principal id and returns the
// resolved identity. A *DenialError means login is refused for an
// account-state reason; any other error is an infrastructure failure.
//
// The returned identity carries the real role and no impersonation overlay.
func (r *Resolver) Resolve(ctx context.Context, principalID string) (*domain.Identity, error) {
	// Fresh read: verification completes out-of-band, so the flag from an
	// earlier sign-in cannot be trusted.
	principal, err := r.idp.Reload(ctx, principalID)
	if err != nil {
		return nil, err
	}

	isDev := r.IsDeveloper(principal.Email)

	if !isDev && !principal.EmailVerified {
		return nil, ErrUnverified()
	}

	user, err := r.users.GetByID(ctx, principal.ID)
	var nf *domain.NotFoundError
	switch {
	case err == nil:
		// Existing account record.
	case errors.As(err, &nf):
		user, err = r.materialize(ctx, principal, isDev)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if user.Disabled {
		return nil, ErrRestricted()
	}

	// Verification state is owned by the provider; mirror it onto the record
	// so listings show it without a provider round-trip. Never fatal.
	if principal.EmailVerified && !user.EmailVerified {
		if err := r.users.SetEmailVerified(ctx, user.ID, true); err != nil {
			r.logger.Warn("verification flag sync failed", "user_id", user.ID, "error", err)
		}
	}

	// The allow-list wins over the stored role on every resolution, so
	// promoting an existing account to dev is a config change, not a write.
	role := user.Role
	if isDev {
		role = domain.RoleDev
	}

	return &domain.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   role,
	}, nil
}

// materialize creates the account record on first login. The role comes from
// the registry entry for the email, or dev for allow-listed developers. A
// principal with neither is not invited: the orphaned credential account is
// removed so the email stays available for a future invite.
func (r *Resolver) materialize(ctx context.Context, principal *domain.Principal, isDev bool) (*domain.User, error) {
	role := domain.RoleDev
	if !isDev {
		inv, err := r.invites.GetByEmail(ctx, principal.Email)
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			if delErr := r.idp.Delete(ctx, principal.ID); delErr != nil {
				r.logger.Warn("orphaned account cleanup failed", "principal_id", principal.ID, "error", delErr)
			}
			return nil, ErrNotInvited()
		}
		if err != nil {
			return nil, err
		}
		role = inv.Role
	}

	name := strings.TrimSpace(principal.DisplayName)
	if name == "" {
		name, _, _ = strings.Cut(principal.Email, "@")
	}

	user, err := r.users.Create(ctx, &domain.User{
		ID:            principal.ID,
		Name:          name,
		Email:         principal.Email,
		Role:          role,
		EmailVerified: true,
	})
	if err != nil {
		// A concurrent login may have won the race; reuse its record.
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			if existing, getErr := r.users.GetByID(ctx, principal.ID); getErr == nil {
				return existing, nil
			}
		}
		r.logger.Error("account materialization failed", "principal_id", principal.ID, "error", err)
		return nil, ErrSetupFailed()
	}

	r.logger.Info("account materialized", "user_id", user.ID, "role", user.Role)
	return user, nil
}
