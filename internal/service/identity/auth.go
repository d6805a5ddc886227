package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"apexcrm/internal/domain"
)

// AuthService orchestrates sign-up, login, and email verification on top of
// the identity provider and the resolver.
type AuthService struct {
	idp      domain.IdentityProvider
	invites  domain.InvitationRepository
	resolver *Resolver
	tokens   TokenMinter
	audit    domain.ActivityRepository
	logger   *slog.Logger
}

// TokenMinter issues session tokens for resolved principals.
type TokenMinter interface {
	Issue(pr *domain.Principal) (token string, expiresAt time.Time, err error)
}

func NewAuthService(idp domain.IdentityProvider, invites domain.InvitationRepository, resolver *Resolver, tokens TokenMinter, audit domain.ActivityRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		idp:      idp,
		invites:  invites,
		resolver: resolver,
		tokens:   tokens,
		audit:    audit,
		logger:   logger.With("component", "auth"),
	}
}

// SignupRequest holds parameters for self-service registration.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Signup registers credentials and pre-registers the requested role, then
// sends the verification mail. The caller stays signed out until verified.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	role := domain.RoleSales
	if req.Role != "" {
		parsed, err := domain.ParseAssignableRole(req.Role)
		if err != nil {
			return err
		}
		role = parsed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	principal, err := s.idp.CreateAccount(ctx, email, req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		return err
	}

	// Allow-listed developers resolve to dev on first login; a registry entry
	// would shadow that with a lesser role.
	if !s.resolver.IsDeveloper(email) {
		if err := s.invites.Put(ctx, &domain.Invitation{Email: email, Role: role}); err != nil {
			s.logger.Error("registry entry write failed", "email", email, "error", err)
			if delErr := s.idp.Delete(ctx, principal.ID); delErr != nil {
				s.logger.Warn("signup rollback failed", "principal_id", principal.ID, "error", delErr)
			}
			return err
		}
	}

	if err := s.idp.SendVerificationEmail(ctx, email); err != nil {
		s.logger.Warn("verification mail failed", "email", email, "error", err)
	}
	return nil
}

// LoginResult is a successful login: the session token plus the identity.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

// Login checks credentials, runs the resolution flow, and mints a session
// token. The result carries no impersonation overlay.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	principal, err := s.idp.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	ident, err := s.resolver.Resolve(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Identity: *ident}, nil
}

// Verify completes email verification for the account holding the token.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	principal, err := s.idp.Verify(ctx, token)
	if err != nil {
		return err
	}
	s.logger.Info("email verified", "email", principal.Email)
	return nil
}

// ResendVerification re-sends the verification mail. Succeeds silently for
// unknown or already-verified emails.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	return s.idp.SendVerificationEmail(ctx, email)
}
