package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mwicker/ledgerpass/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// AccountContextKey is the key for storing the authenticated account in context
	AccountContextKey contextKey = "account"
	// TokenContextKey is the key for storing the presented access token in context
	TokenContextKey contextKey = "access_token"
)

// Authenticator resolves an access token to the account it belongs to.
// Every failure mode (bad signature, expiry, revocation, missing account)
// comes back as models.ErrUnauthorized; callers must not distinguish them.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*models.Account, error)
}

// RequireAuth validates the request's access token and injects the account
// and the raw token into the request context. The token is read from the
// Authorization header or, failing that, the access_token cookie.
func RequireAuth(authn Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			account, err := authn.Authenticate(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), AccountContextKey, account)
			ctx = context.WithValue(ctx, TokenContextKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces the admin role. Must run after RequireAuth.
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := AccountFromContext(r)
			if account == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if account.Role != models.RoleAdmin {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccountFromContext extracts the authenticated account from the request context.
func AccountFromContext(r *http.Request) *models.Account {
	account, ok := r.Context().Value(AccountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}

// TokenFromContext extracts the presented access token from the request context.
func TokenFromContext(r *http.Request) string {
	token, ok := r.Context().Value(TokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if token, err := GetAccessTokenCookie(r); err == nil {
		return token
	}

	return ""
}
