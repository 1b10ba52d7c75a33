package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/config"
	"pitchpulse/internal/middleware"
)

func configDisabled() config.AuthConfig {
	return config.AuthConfig{
		Enabled:    false,
		SessionTTL: time.Hour,
		CookieName: "pitchpulse_session",
	}
}

func TestRequireSessionAllowsValidCookie(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	session, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)

	var gotUsername string
	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername, _ = r.Context().Value(middleware.UsernameKey).(string)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/data/leagues", nil)
	req.AddCookie(svc.SessionCookie(session, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "analyst", gotUsername)
}

func TestRequireSessionAllowsBearerToken(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	session, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)

	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/data/leagues", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/leagues", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestRequireSessionRejectsExpiredSession(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Millisecond)

	session, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/data/leagues", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_EXPIRED")
}

func TestRequireSessionDisabledPassesThrough(t *testing.T) {
	svc, err := NewService(configDisabled(), nil)
	require.NoError(t, err)

	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/leagues", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredCookieClearsSession(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	cookie := svc.ExpiredCookie()
	assert.Equal(t, "pitchpulse_session", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
