package auth

import (
	"context"
	"net/http"
	"time"

	"restaurant-storefront/internal/models"
	"restaurant-storefront/internal/web"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session_token"

type sessionKeyType struct{}

var sessionKey sessionKeyType

// SessionFromContext returns the resolved session for the request. Always
// non-nil once the middleware has run.
func SessionFromContext(ctx context.Context) *models.Session {
	if sess, ok := ctx.Value(sessionKey).(*models.Session); ok {
		return sess
	}
	return &models.Session{}
}

// Middleware resolves the session cookie before handlers run.
type Middleware struct {
	service *Service
}

// NewMiddleware creates the session-resolving middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// ResolveSession attaches the caller's session (or an anonymous one) to the
// request context.
func (m *Middleware) ResolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			token = cookie.Value
		}
		session := m.service.ResolveSession(r.Context(), token)
		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EnsureSession guarantees the caller holds a session row, creating a guest
// session and setting the cookie when needed. Used on cart routes so
// anonymous shoppers can own a cart.
func (m *Middleware) EnsureSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session.Token == "" {
			guest, err := m.service.StartGuestSession(r.Context())
			if err != nil {
				web.WriteError(w, http.StatusInternalServerError, "internal server error", web.RequestID(r))
				return
			}
			SetSessionCookie(w, guest)
			ctx := context.WithValue(r.Context(), sessionKey, guest)
			r = r.WithContext(ctx)
		}
		next(w, r)
	}
}

// RequireAuth rejects anonymous callers with 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).IsAuthenticated() {
			web.WriteError(w, http.StatusUnauthorized, "authentication required", web.RequestID(r))
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects non-admin callers with 403.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if !session.IsAuthenticated() {
			web.WriteError(w, http.StatusUnauthorized, "authentication required", web.RequestID(r))
			return
		}
		if !session.IsAdmin() {
			web.WriteError(w, http.StatusForbidden, "forbidden", web.RequestID(r))
			return
		}
		next(w, r)
	}
}

// SetSessionCookie writes the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
