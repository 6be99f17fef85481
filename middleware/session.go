// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Anikhe00/alx-polling-app/models"
)

// SessionCookie is the cookie checked when no Authorization header is sent.
const SessionCookie = "session"

// UserLookup resolves a session token to its user.
type UserLookup interface {
	GetUser(ctx context.Context, token string) (models.User, error)
}

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// Protected and auth-only path prefixes for RouteGuard.
var (
	ProtectedPrefixes = []string{"/dashboard", "/profile", "/polls/create"}
	AuthOnlyPrefixes  = []string{"/auth/login", "/auth/register"}
)

// BearerToken returns the session token from the Authorization header or
// the session cookie.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// WithSession resolves the caller's session, if any, and stores the user in
// the request context. Invalid or revoked tokens are treated as anonymous.
func WithSession(users UserLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := users.GetUser(r.Context(), token)
		if err != nil {
			slog.Debug("ignoring session", "error", err, "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// TokenFromContext returns the validated session token, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// RequireUser rejects requests without a valid session with 401.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}

// RouteGuard redirects anonymous requests away from protected paths to the
// login page, and signed-in requests away from the login and register pages
// to the dashboard. It must run after WithSession.
func RouteGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn := UserFromContext(r.Context())
		path := r.URL.Path

		if !signedIn && matchesAny(path, ProtectedPrefixes) {
			target := "/auth/login?redirectedFrom=" + url.QueryEscape(path)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		if signedIn && matchesAny(path, AuthOnlyPrefixes) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
