package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "apexcrm/internal/db"
	"apexcrm/internal/db/repository"
	"apexcrm/internal/domain"
)

// stubValidator accepts any token and returns fixed claims, keyed by token
// string so tests can map tokens to subjects.
type stubValidator struct {
	subjects map[string]string
}

func (v *stubValidator) Validate(_ context.Context, tokenString string) (*JWTClaims, error) {
	sub, ok := v.subjects[tokenString]
	if !ok {
		return nil, errors.New("token verification failed")
	}
	return &JWTClaims{Subject: sub}, nil
}

func setupAuth(t *testing.T) (*Authenticator, *repository.UserRepo, *stubValidator) {
	t.Helper()
	db, rdb := internaldb.OpenTestSQLite(t)
	users := repository.NewUserRepo(db, rdb)
	validator := &stubValidator{subjects: map[string]string{}}
	auth := NewAuthenticator(validator, users, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return auth, users, validator
}

func identityEcho(t *testing.T, captured *domain.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := domain.IdentityFromContext(r.Context())
		require.True(t, ok)
		*captured = ident
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(auth *Authenticator, next http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	if next == nil {
		next = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	auth.Middleware(next).ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingToken(t *testing.T) {
	auth, _, _ := setupAuth(t)
	rec := doRequest(auth, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["message"], "bearer token")
}

func TestAuth_InvalidToken(t *testing.T) {
	auth, _, _ := setupAuth(t)
	rec := doRequest(auth, nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_TokenOutlivesAccount(t *testing.T) {
	auth, _, validator := setupAuth(t)
	validator.subjects["tok"] = "deleted-user"
	rec := doRequest(auth, nil, map[string]string{"Authorization": "Bearer tok"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RestrictedAccount(t *testing.T) {
	auth, users, validator := setupAuth(t)
	_, err := users.Create(context.Background(), &domain.User{
		ID: "u1", Name: "A", Email: "a@example.com", Role: domain.RoleSales, Disabled: true,
	})
	require.NoError(t, err)
	validator.subjects["tok"] = "u1"

	rec := doRequest(auth, nil, map[string]string{"Authorization": "Bearer tok"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_IdentityInContext(t *testing.T) {
	auth, users, validator := setupAuth(t)
	_, err := users.Create(context.Background(), &domain.User{
		ID: "u1", Name: "Riley", Email: "riley@example.com", Role: domain.RoleSales,
	})
	require.NoError(t, err)
	validator.subjects["tok"] = "u1"

	var ident domain.Identity
	rec := doRequest(auth, identityEcho(t, &ident), map[string]string{"Authorization": "Bearer tok"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", ident.UserID)
	assert.Equal(t, domain.RoleSales, ident.Role)
	assert.False(t, ident.Impersonating())
}

func TestAuth_ActAsHonoredForDevOnly(t *testing.T) {
	auth, users, validator := setupAuth(t)
	_, err := users.Create(context.Background(), &domain.User{
		ID: "dev-1", Name: "Dev", Email: "dev@example.com", Role: domain.RoleDev,
	})
	require.NoError(t, err)
	_, err = users.Create(context.Background(), &domain.User{
		ID: "s-1", Name: "Sales", Email: "sales@example.com", Role: domain.RoleSales,
	})
	require.NoError(t, err)
	validator.subjects["dev-tok"] = "dev-1"
	validator.subjects["sales-tok"] = "s-1"

	var ident domain.Identity
	rec := doRequest(auth, identityEcho(t, &ident), map[string]string{
		"Authorization": "Bearer dev-tok",
		ActAsHeader:     "hr",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleDev, ident.Role)
	assert.Equal(t, domain.RoleHR, ident.EffectiveRole())
	assert.True(t, ident.Impersonating())

	// Anyone else sending the header keeps their real role.
	rec = doRequest(auth, identityEcho(t, &ident), map[string]string{
		"Authorization": "Bearer sales-tok",
		ActAsHeader:     "admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleSales, ident.EffectiveRole())
	assert.False(t, ident.Impersonating())
}

func TestAuth_AllowlistPromotesToDevPerRequest(t *testing.T) {
	db, rdb := internaldb.OpenTestSQLite(t)
	users := repository.NewUserRepo(db, rdb)
	validator := &stubValidator{subjects: map[string]string{"tok": "u1"}}
	isDeveloper := func(email string) bool { return email == "rep@example.com" }
	auth := NewAuthenticator(validator, users, isDeveloper, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// The account materialized as sales before the allow-list entry existed.
	_, err := users.Create(context.Background(), &domain.User{
		ID: "u1", Name: "Rep", Email: "rep@example.com", Role: domain.RoleSales,
	})
	require.NoError(t, err)

	var ident domain.Identity
	rec := doRequest(auth, identityEcho(t, &ident), map[string]string{"Authorization": "Bearer tok"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleDev, ident.Role)

	// Promotion includes the impersonation privilege.
	rec = doRequest(auth, identityEcho(t, &ident), map[string]string{
		"Authorization": "Bearer tok",
		ActAsHeader:     "hr",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleHR, ident.EffectiveRole())
	assert.True(t, ident.Impersonating())
}

func TestHS256Validator_RoundTrip(t *testing.T) {
	validator, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"iss":   "http://localhost:8080",
		"aud":   "apexcrm",
		"email": "u1@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := validator.Validate(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, []string{"apexcrm"}, claims.Audience)
	require.NotNil(t, claims.Email)
	assert.Equal(t, "u1@example.com", *claims.Email)
}

func TestHS256Validator_RejectsBadSignature(t *testing.T) {
	validator, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := tok.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), signed)
	assert.Error(t, err)

	_, err = validator.Validate(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
