package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// SessionCookie is read when a request carries no Authorization header
const SessionCookie = "session_token"

// Authenticator resolves a session token to its user and session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, *entities.Session, error)
}

type userKey struct{}
type sessionKey struct{}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *entities.User {
	u, _ := ctx.Value(userKey{}).(*entities.User)
	return u
}

// SessionFromContext returns the authenticated session, or nil
func SessionFromContext(ctx context.Context) *entities.Session {
	s, _ := ctx.Value(sessionKey{}).(*entities.Session)
	return s
}

// WithIdentity stores user and session on ctx
func WithIdentity(ctx context.Context, user *entities.User, session *entities.Session) context.Context {
	ctx = context.WithValue(ctx, userKey{}, user)
	ctx = context.WithValue(ctx, sessionKey{}, session)
	if user != nil {
		ctx = observability.WithUserID(ctx, user.ID)
	}
	return ctx
}

// Auth authenticates requests with bearer session tokens
type Auth struct {
	authenticator Authenticator
}

// NewAuth creates the auth middleware
func NewAuth(authenticator Authenticator) *Auth {
	return &Auth{authenticator: authenticator}
}

// OptionalSession attaches the caller's identity when a valid token is
// present and lets every request through.
func (a *Auth) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token != "" {
			if user, session, err := a.authenticator.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), user, session))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests without a valid session with 401
func (a *Auth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, apperrors.NewUnauthorizedError("Not logged in"))
			return
		}
		user, session, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user, session)))
	})
}

// RequireRoles authenticates the request and rejects callers whose role is
// not in roles with 403.
func (a *Auth) RequireRoles(roles ...entities.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !slices.Contains(roles, user.Role) {
				writeError(w, apperrors.NewForbiddenError("You do not have access to this resource"))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.HTTPStatus(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": apperrors.MessageOf(err),
	})
}
