package auth

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pitchpulse/internal/config"
)

func writeUsersFile(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "users.yaml")
	content := "users:\n  - username: analyst\n    password_hash: " + string(hash) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestService(t *testing.T, password string, ttl time.Duration) *Service {
	t.Helper()

	cfg := config.AuthConfig{
		Enabled:    true,
		UsersFile:  writeUsersFile(t, password),
		SessionTTL: ttl,
		CookieName: "pitchpulse_session",
	}

	svc, err := NewService(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	session, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "analyst", session.Username)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	_, err := svc.Login("analyst", "battery-staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	_, err := svc.Login("nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateAndLogout(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	session, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)

	got, err := svc.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "analyst", got.Username)
	assert.Equal(t, 1, svc.ActiveSessions())

	svc.Logout(session.Token)
	_, err = svc.Validate(session.Token)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 0, svc.ActiveSessions())
}

func TestValidateExpiredSession(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Millisecond)

	session, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Validate(session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Expired sessions are removed on first validation.
	_, err = svc.Validate(session.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestValidateEmptyToken(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Hour)

	_, err := svc.Validate("")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestNewServiceMissingUsersFile(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:    true,
		UsersFile:  filepath.Join(t.TempDir(), "absent.yaml"),
		SessionTTL: time.Hour,
		CookieName: "pitchpulse_session",
	}

	_, err := NewService(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestNewServiceDisabledSkipsUsersFile(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:    false,
		UsersFile:  "does-not-exist.yaml",
		SessionTTL: time.Hour,
		CookieName: "pitchpulse_session",
	}

	svc, err := NewService(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.False(t, svc.Enabled())
}

func TestSweepExpired(t *testing.T) {
	svc := newTestService(t, "correct-horse", time.Millisecond)

	_, err := svc.Login("analyst", "correct-horse")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	svc.sweepExpired()

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	assert.Empty(t, svc.sessions)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}
