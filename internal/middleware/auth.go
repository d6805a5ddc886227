package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"apexcrm/internal/domain"
)

// ActAsHeader carries a per-request impersonation request. Honored only when
// the signed-in account's real role is dev; silently ignored otherwise.
const ActAsHeader = "X-Act-As-Role"

// Authenticator turns a bearer token into a resolved identity in the request
// context. The account record is re-read on every request, so a restriction
// or role change takes effect immediately rather than at token expiry.
type Authenticator struct {
	validator   JWTValidator
	users       domain.UserRepository
	isDeveloper func(email string) bool
	logger      *slog.Logger
}

// NewAuthenticator creates the middleware. isDeveloper reports whether an
// email is on the developer allow-list; pass nil when there is none.
func NewAuthenticator(validator JWTValidator, users domain.UserRepository, isDeveloper func(email string) bool, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		validator:   validator,
		users:       users,
		isDeveloper: isDeveloper,
		logger:      logger.With("component", "auth_middleware"),
	}
}

// Middleware authenticates the request and stores the identity in context.
// Missing or invalid tokens get 401; restricted accounts get 403.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized: provide a bearer token")
			return
		}

		claims, err := a.validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
		if err != nil || claims.Subject == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized: invalid token")
			return
		}

		user, err := a.users.GetByID(r.Context(), claims.Subject)
		if err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				// Token outlived the account record.
				writeAuthError(w, http.StatusUnauthorized, "unauthorized: account not found")
				return
			}
			a.logger.Error("account lookup failed", "subject", claims.Subject, "error", err)
			writeAuthError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user.Disabled {
			writeAuthError(w, http.StatusForbidden, "this account has been restricted; contact an administrator")
			return
		}

		// Allow-listed emails act as dev regardless of the stored role,
		// matching the resolver's per-login promotion.
		role := user.Role
		if a.isDeveloper != nil && a.isDeveloper(user.Email) {
			role = domain.RoleDev
		}

		ident := domain.Identity{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   role,
		}

		if actAs := r.Header.Get(ActAsHeader); actAs != "" {
			if role, err := domain.ParseRole(actAs); err == nil {
				ident = ident.Impersonate(role)
			}
		}

		ctx := domain.WithIdentity(r.Context(), ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
