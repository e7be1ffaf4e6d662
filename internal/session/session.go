// Package session implements the opaque-token session model and the access
// gate that guards user-scoped routes.
//
// HOW IDENTITY WORKS HERE:
// There is no login and no password. Registering an account mints an opaque
// token (a random UUID), stores it on the user row, and hands it back in an
// HttpOnly cookie. Presenting that cookie on a later request IS the
// authentication: the gate looks the token up and the owning user becomes
// the caller.
//
// The token is deliberately opaque — unlike a JWT it encodes nothing and
// proves nothing by itself; the users table is the single source of truth
// for which tokens are live. That costs one indexed lookup per request and
// buys instant revocation (delete the row, the token is dead).
//
// Only this package and the handlers touch the cookie. Services receive
// the token (or the resolved user ID) as plain values, so nothing below
// the HTTP boundary knows the transport is a cookie at all.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/daily-diet/internal/model"
)

const (
	// CookieName is the session cookie, scoped to the whole site.
	CookieName = "sessionID"

	// TTL is the cookie validity window. Renewed each time a token is
	// issued, not on every request.
	TTL = 7 * 24 * time.Hour
)

// contextKey is an unexported type for context keys in this package.
// A package-private type prevents collisions: only this package can create
// a key of this type, so only this package can read or write the value.
type contextKey string

const userIDKey contextKey = "userID"

// Resolver maps an opaque session token to its owning user.
// Satisfied by service.UserService; an interface here keeps the middleware
// testable with a stub and avoids an import cycle with the service layer.
type Resolver interface {
	ResolveSession(ctx context.Context, token string) (*model.User, error)
}

// NewToken mints a fresh opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// TokenFromRequest extracts the session token from the request cookie.
// Returns "" when no cookie is present — the resolver treats that as the
// missing-session case.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — the client never registered (or cleared it)
		return ""
	}
	return cookie.Value
}

// SetCookie writes the session cookie on a response.
//
// HttpOnly keeps JavaScript away from the token (it is a credential);
// SameSite=Lax stops cross-site requests from riding the session while
// still letting top-level navigation through.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Require is the access gate: middleware that resolves the session cookie
// to a user and refuses the request with 401 when it can't.
//
// It runs before the wrapped handler, so no mutating side effect of a
// guarded operation can happen on an unauthenticated request. The resolved
// user's ID lands in the request context for handlers to read via
// UserIDFromContext.
//
// Missing cookie and unresolvable token are both 401, but the body message
// differs so clients can tell "register first" from "your session is stale".
func Require(users Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.ResolveSession(r.Context(), TokenFromRequest(r))
			if err != nil {
				logger.Debug("session rejected",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				writeUnauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated caller's ID.
// Returns ("", false) on routes that didn't pass through Require.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// writeUnauthorized emits the standard error JSON shape without importing
// the handler package (which imports this one).
func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": err.Error(),
	})
}
