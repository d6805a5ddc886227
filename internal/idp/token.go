package idp

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"apexcrm/internal/domain"
)

// TokenIssuer mints HS256 session tokens for principals signed in through the
// local provider. Tokens carry the principal id as the subject; role and
// account state are resolved per request, never baked into the token.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl}
}

// Issue returns a signed session token and its expiry.
func (t *TokenIssuer) Issue(pr *domain.Principal) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":   pr.ID,
		"iss":   t.issuer,
		"aud":   t.audience,
		"email": pr.Email,
		"name":  pr.DisplayName,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}
