// Package middleware provides HTTP middlewares for session checks and logging.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionReader exposes the logged-in email.
type SessionReader interface {
	Current(ctx context.Context) (string, bool, error)
}

// AdminChecker reports whether the logged-in user is an administrator.
type AdminChecker interface {
	IsCurrentAdmin(ctx context.Context) (bool, error)
}

// RequireSession is a middleware that only lets requests through while a
// user is logged in.
//
// On success it stores the session email in the request context, so it can
// be used downstream as the acting user.
func RequireSession(session SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok, err := session.Current(r.Context())
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "login required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is a middleware that rejects requests unless the logged-in
// user is an administrator. Anonymous requests get 401, regular users 403.
func RequireAdmin(session SessionReader, admins AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireSession(session)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isAdmin, err := admins.IsCurrentAdmin(r.Context())
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !isAdmin {
				http.Error(w, "admin access only", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// GetUserEmailFromContext extracts the session email stored by
// RequireSession. Returns an empty string if not found.
func GetUserEmailFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
