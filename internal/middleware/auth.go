package middleware

import (
	"context"
	"net/http"
	"strings"

	"project-workspaces/backend/internal/auth"
)

type contextKey string

const userEmailKey contextKey = "userEmail"

// Auth validates the Bearer token and stores the caller's identity in the
// request context. It only establishes who the caller is; whether they own
// the resource at hand is decided later by the ownership resolver.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.ValidateJWT(secret, tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserEmail returns the identity stored by Auth, or "" outside an
// authenticated request.
func UserEmail(ctx context.Context) string {
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}
