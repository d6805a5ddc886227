package domain

import (
	"context"
	"time"
)

// Principal is the authenticated account as reported by the identity provider:
// the raw input to the role resolution flow, before any account record exists.
type Principal struct {
	ID            string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// IdentityProvider is the credential/session collaborator. The application
// consumes this surface only; credential storage and token formats are the
// provider's concern.
type IdentityProvider interface {
	// CreateAccount registers credentials and returns the new principal.
	CreateAccount(ctx context.Context, email, password, displayName string) (*Principal, error)
	// SignIn checks credentials and returns the principal.
	SignIn(ctx context.Context, email, password string) (*Principal, error)
	// Reload re-reads the principal, refreshing the verification flag.
	// Verification completes out-of-band, so cached flags must not be trusted.
	Reload(ctx context.Context, principalID string) (*Principal, error)
	// SendVerificationEmail issues a fresh verification token for the account.
	SendVerificationEmail(ctx context.Context, email string) error
	// Verify completes email verification for the account holding the token.
	Verify(ctx context.Context, token string) (*Principal, error)
	// Delete removes the account. Used to roll back an uninvited first login so
	// the email can be reused by a legitimate future invite.
	Delete(ctx context.Context, principalID string) error
}

// MailSender delivers verification mail. The default implementation logs the
// link instead of sending it.
type MailSender interface {
	SendVerification(ctx context.Context, email, link string) error
}

// UserRepository provides operations on account records (the users collection).
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page PageRequest) ([]User, int64, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) error
	SetEmailVerified(ctx context.Context, id string, verified bool) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	// SetRole updates the account record's role together with the role registry
	// entry in a single transaction.
	SetRole(ctx context.Context, id, email string, role Role) error
	Delete(ctx context.Context, id string) error
}

// InvitationRepository provides operations on role registry entries
// (the user_roles collection, keyed by email).
type InvitationRepository interface {
	Put(ctx context.Context, inv *Invitation) error
	GetByEmail(ctx context.Context, email string) (*Invitation, error)
	List(ctx context.Context, page PageRequest) ([]Invitation, int64, error)
	Delete(ctx context.Context, email string) error
}

// CustomerRepository provides CRUD operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, page PageRequest) ([]Customer, int64, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
}

// EmployeeRepository provides CRUD operations for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) (*Employee, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context, page PageRequest) ([]Employee, int64, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
}

// LeadRepository provides operations for leads and proposals.
type LeadRepository interface {
	Create(ctx context.Context, l *Lead) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	ListByType(ctx context.Context, leadType LeadType, page PageRequest) ([]Lead, int64, error)
	SetStatus(ctx context.Context, id string, status LeadStatus) error
	SetProposal(ctx context.Context, id string, content string, status *LeadStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, leadType *LeadType) (map[LeadStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// ActivityRepository provides operations for the audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]Activity, int64, error)
}
