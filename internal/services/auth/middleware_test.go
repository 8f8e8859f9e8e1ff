package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

func sessionStore(sessions map[string]*models.Session) *fakeStore {
	return &fakeStore{
		GetSessionFn: func(ctx context.Context, token string) (*models.Session, error) {
			if sess, ok := sessions[token]; ok {
				return sess, nil
			}
			return nil, models.ErrNotFound
		},
		CreateSessionFn: func(ctx context.Context, session *models.Session, userID *int64) error {
			sessions[session.Token] = session
			return nil
		},
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestResolveSession_AttachesSessionFromCookie(t *testing.T) {
	sessions := map[string]*models.Session{
		"tok": {
			Token:     "tok",
			User:      &models.User{ID: 7, Role: models.RoleCustomer},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	mw := NewMiddleware(NewService(sessionStore(sessions), testConfig(), logger.New("test")))

	var got *models.Session
	handler := mw.ResolveSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	require.True(t, got.IsAuthenticated())
	require.Equal(t, int64(7), got.UserID())

	// no cookie resolves to an anonymous session, not an error
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.False(t, got.IsAuthenticated())
}

func TestEnsureSession_CreatesGuestCookie(t *testing.T) {
	sessions := map[string]*models.Session{}
	mw := NewMiddleware(NewService(sessionStore(sessions), testConfig(), logger.New("test")))

	handler := mw.ResolveSession(http.HandlerFunc(mw.EnsureSession(okHandler)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/items", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.Contains(t, sessions, cookies[0].Value)
}

func TestRequireAuth(t *testing.T) {
	mw := NewMiddleware(NewService(sessionStore(map[string]*models.Session{}), testConfig(), logger.New("test")))

	handler := mw.ResolveSession(http.HandlerFunc(mw.RequireAuth(okHandler)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	sessions := map[string]*models.Session{
		"customer": {
			Token:     "customer",
			User:      &models.User{ID: 7, Role: models.RoleCustomer},
			ExpiresAt: time.Now().Add(time.Hour),
		},
		"admin": {
			Token:     "admin",
			User:      &models.User{ID: 1, Role: models.RoleAdmin},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	mw := NewMiddleware(NewService(sessionStore(sessions), testConfig(), logger.New("test")))
	handler := mw.ResolveSession(http.HandlerFunc(mw.RequireAdmin(okHandler)))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous gets 401", "", http.StatusUnauthorized},
		{"customer gets 403", "customer", http.StatusForbidden},
		{"admin passes", "admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestExpiredSessionResolvesAnonymous(t *testing.T) {
	deleted := []string{}
	sessions := map[string]*models.Session{
		"stale": {
			Token:     "stale",
			User:      &models.User{ID: 7, Role: models.RoleCustomer},
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}
	store := sessionStore(sessions)
	store.DeleteSessionFn = func(ctx context.Context, token string) error {
		deleted = append(deleted, token)
		return nil
	}
	mw := NewMiddleware(NewService(store, testConfig(), logger.New("test")))

	handler := mw.ResolveSession(http.HandlerFunc(mw.RequireAuth(okHandler)))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, []string{"stale"}, deleted)
}
