package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "apexcrm/internal/db"
	"apexcrm/internal/db/repository"
	"apexcrm/internal/domain"
	"apexcrm/internal/idp"
)

type resolverFixture struct {
	resolver *Resolver
	provider *idp.LocalProvider
	users    *repository.UserRepo
	invites  *repository.InvitationRepo
}

func setupResolver(t *testing.T, devAllowlist []string) *resolverFixture {
	t.Helper()
	db, rdb := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := repository.NewUserRepo(db, rdb)
	invites := repository.NewInvitationRepo(db, rdb)
	provider := idp.NewLocalProvider(db, idp.NewLogMailSender(logger), "http://localhost:8080", logger)

	return &resolverFixture{
		resolver: NewResolver(provider, users, invites, devAllowlist, logger),
		provider: provider,
		users:    users,
		invites:  invites,
	}
}

// signUp registers an account and optionally verifies it.
func (f *resolverFixture) signUp(t *testing.T, email string, verified bool) *domain.Principal {
	t.Helper()
	principal, err := f.provider.CreateAccount(context.Background(), email, "hunter2hunter2", "Test Person")
	require.NoError(t, err)
	if verified {
		require.NoError(t, f.provider.MarkVerified(context.Background(), email))
	}
	return principal
}

func TestResolve_UnverifiedDenied(t *testing.T) {
	f := setupResolver(t, nil)
	ctx := context.Background()

	require.NoError(t, f.invites.Put(ctx, &domain.Invitation{Email: "ann@example.com", Role: domain.RoleSales}))
	principal := f.signUp(t, "ann@example.com", false)

	_, err := f.resolver.Resolve(ctx, principal.ID)
	var denial *DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, ReasonVerifyEmail, denial.Reason)

	// No account record is created for unverified principals.
	_, err = f.users.GetByID(ctx, principal.ID)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestResolve_NotInvitedDeniedAndCleanedUp(t *testing.T) {
	f := setupResolver(t, nil)
	ctx := context.Background()

	principal := f.signUp(t, "stranger@example.com", true)

	_, err := f.resolver.Resolve(ctx, principal.ID)
	var denial *DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, ReasonNotInvited, denial.Reason)

	// No account record, and the orphaned credential account is gone so the
	// email can be invited later.
	_, err = f.users.GetByEmail(ctx, "stranger@example.com")
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
	_, err = f.provider.Reload(ctx, principal.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestResolve_FirstLoginMaterializes(t *testing.T) {
	f := setupResolver(t, nil)
	ctx := context.Background()

	require.NoError(t, f.invites.Put(ctx, &domain.Invitation{Email: "bob@example.com", Role: domain.RoleProposal}))
	principal := f.signUp(t, "bob@example.com", true)

	ident, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProposal, ident.Role)
	assert.Equal(t, "Test Person", ident.Name)
	assert.Equal(t, principal.ID, ident.UserID)

	user, err := f.users.GetByID(ctx, principal.ID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.Disabled)

	// Registry entry survives materialization as history.
	_, err = f.invites.GetByEmail(ctx, "bob@example.com")
	assert.NoError(t, err)

	// Second resolution reuses the record instead of re-materializing.
	again, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, ident.UserID, again.UserID)
	assert.Equal(t, ident.Role, again.Role)
}

func TestResolve_NameFallsBackToEmailLocalPart(t *testing.T) {
	f := setupResolver(t, nil)
	ctx := context.Background()

	require.NoError(t, f.invites.Put(ctx, &domain.Invitation{Email: "carol.baker@example.com", Role: domain.RoleHR}))
	principal, err := f.provider.CreateAccount(ctx, "carol.baker@example.com", "hunter2hunter2", "")
	require.NoError(t, err)
	require.NoError(t, f.provider.MarkVerified(ctx, "carol.baker@example.com"))

	ident, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol.baker", ident.Name)
}

func TestResolve_DeveloperExemption(t *testing.T) {
	f := setupResolver(t, []string{"dev@example.com"})
	ctx := context.Background()

	// Unverified, no registry entry: still resolves, as dev.
	principal := f.signUp(t, "dev@example.com", false)

	ident, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDev, ident.Role)
	assert.False(t, ident.Impersonating())
}

func TestResolve_AllowlistPromotesExistingAccount(t *testing.T) {
	f := setupResolver(t, nil)
	ctx := context.Background()

	// Materialize a plain sales account first.
	require.NoError(t, f.invites.Put(ctx, &domain.Invitation{Email: "erin@example.com", Role: domain.RoleSales}))
	principal := f.signUp(t, "erin@example.com", true)
	ident, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSales, ident.Role)

	// Adding the email to the allow-list promotes the next resolution to dev
	// without touching the stored record.
	promoted := NewResolver(f.provider, f.users, f.invites, []string{"erin@example.com"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	ident, err = promoted.Resolve(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDev, ident.Role)

	user, err := f.users.GetByID(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSales, user.Role)
}

func TestResolve_DisabledOverridesRole(t *testing.T) {
	f := setupResolver(t, []string{"dev@example.com"})
	ctx := context.Background()

	principal := f.signUp(t, "dev@example.com", true)
	_, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.SetDisabled(ctx, principal.ID, true))

	_, err = f.resolver.Resolve(ctx, principal.ID)
	var denial *DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, ReasonRestricted, denial.Reason)
}

func TestResolve_SyncsVerificationFlag(t *testing.T) {
	f := setupResolver(t, nil)
	ctx := context.Background()

	require.NoError(t, f.invites.Put(ctx, &domain.Invitation{Email: "dana@example.com", Role: domain.RoleSales}))
	principal := f.signUp(t, "dana@example.com", true)

	_, err := f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)

	// Simulate drift: the record claims unverified while the provider says
	// verified. Resolution patches the record.
	require.NoError(t, f.users.SetEmailVerified(ctx, principal.ID, false))

	_, err = f.resolver.Resolve(ctx, principal.ID)
	require.NoError(t, err)

	user, err := f.users.GetByID(ctx, principal.ID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestResolve_UnknownPrincipal(t *testing.T) {
	f := setupResolver(t, nil)

	_, err := f.resolver.Resolve(context.Background(), "no-such-id")
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
