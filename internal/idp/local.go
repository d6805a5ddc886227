// Package idp implements the credential side of authentication: a local
// account store with hashed passwords and email verification tokens. The
// application talks to it through domain.IdentityProvider, so a hosted
// provider can replace it without touching the resolution flow.
package idp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"apexcrm/internal/domain"
)

var _ domain.IdentityProvider = (*LocalProvider)(nil)

// LocalProvider stores accounts in the idp_accounts table.
type LocalProvider struct {
	db     *sql.DB
	mail   domain.MailSender
	base   string
	logger *slog.Logger
}

// NewLocalProvider creates a provider backed by the given database. baseURL is
// used to build verification links handed to the mail sender.
func NewLocalProvider(db *sql.DB, mail domain.MailSender, baseURL string, logger *slog.Logger) *LocalProvider {
	return &LocalProvider{
		db:     db,
		mail:   mail,
		base:   strings.TrimRight(baseURL, "/"),
		logger: logger.With("component", "idp"),
	}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrValidation("invalid email address")
	}
	if len(password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO idp_accounts (id, email, password_hash, display_name) VALUES (?, ?, ?, ?)`,
		id, email, string(hash), displayName)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("an account with email %s already exists", email)
		}
		return nil, err
	}

	return &domain.Principal{ID: id, Email: email, DisplayName: displayName}, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		pr   domain.Principal
		hash string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, email_verified, password_hash FROM idp_accounts WHERE email = ?`,
		email).Scan(&pr.ID, &pr.Email, &pr.DisplayName, &pr.EmailVerified, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a comparison so missing accounts cost the same as bad passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, domain.ErrAccessDenied("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, domain.ErrAccessDenied("invalid email or password")
	}
	return &pr, nil
}

func (p *LocalProvider) Reload(ctx context.Context, principalID string) (*domain.Principal, error) {
	var pr domain.Principal
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, email_verified FROM idp_accounts WHERE id = ?`,
		principalID).Scan(&pr.ID, &pr.Email, &pr.DisplayName, &pr.EmailVerified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("account %s not found", principalID)
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (p *LocalProvider) SendVerificationEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	token, tokenHash, err := newVerifyToken()
	if err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx,
		`UPDATE idp_accounts SET verify_token_hash = ? WHERE email = ? AND email_verified = 0`,
		tokenHash, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Already verified or unknown. Report success either way so the
		// endpoint does not reveal which emails have accounts.
		p.logger.Debug("verification email skipped", "email", email)
		return nil
	}

	link := fmt.Sprintf("%s/v1/auth/verify?token=%s", p.base, token)
	return p.mail.SendVerification(ctx, email, link)
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrValidation("verification token is required")
	}
	tokenHash := hashToken(token)

	var pr domain.Principal
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, display_name FROM idp_accounts WHERE verify_token_hash = ?`,
		tokenHash).Scan(&pr.ID, &pr.Email, &pr.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("verification token is invalid or already used")
	}
	if err != nil {
		return nil, err
	}

	_, err = p.db.ExecContext(ctx,
		`UPDATE idp_accounts SET email_verified = 1, verify_token_hash = NULL WHERE id = ?`, pr.ID)
	if err != nil {
		return nil, err
	}
	pr.EmailVerified = true
	return &pr, nil
}

// MarkVerified flips the verification flag without a token round-trip. Used
// by seeding; not part of the IdentityProvider surface.
func (p *LocalProvider) MarkVerified(ctx context.Context, email string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE idp_accounts SET email_verified = 1, verify_token_hash = NULL WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return err
}

func (p *LocalProvider) Delete(ctx context.Context, principalID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM idp_accounts WHERE id = ?`, principalID)
	return err
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize timing
// for sign-ins against unknown emails.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	return h
}()

func newVerifyToken() (token, tokenHash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, hashToken(token), nil
}

// hashToken stores only a digest so a leaked database cannot be replayed
// against the verify endpoint.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
