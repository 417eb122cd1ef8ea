package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/listenupapp/staff-directory/internal/auth"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// accountIDKey is the context key for the authenticated account ID.
const accountIDKey ctxKey = "accountID"

// GetAccountID returns the authenticated account ID from context.
// Returns 401 error if the request is not authenticated.
func GetAccountID(ctx context.Context) (string, error) {
	accountID := accountIDFrom(ctx)
	if accountID == "" {
		return "", domainerrors.Unauthorized("Authentication required.")
	}
	return accountID, nil
}

// accountIDFrom returns the viewer's account ID, or "" for anonymous viewers.
func accountIDFrom(ctx context.Context) string {
	accountID, _ := ctx.Value(accountIDKey).(string)
	return accountID
}

// setAccountID stores the account ID in context.
func setAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// accountFromRequest resolves the account for plain chi handlers.
func accountFromRequest(r *http.Request) (string, bool) {
	id := accountIDFrom(r.Context())
	return id, id != ""
}

// authMiddleware returns a middleware that validates Bearer tokens and stores the account ID in context.
// If no token is present or invalid, continues without an account in context.
// Handlers use GetAccountID to check authentication.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyAccessToken(authHeader[len("Bearer "):])
			if err != nil {
				// Invalid token - continue without an account (handler will reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setAccountID(r.Context(), claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
