// Package auth provides session based authentication backed by a YAML
// credentials file. Passwords are stored as bcrypt hashes and sessions
// live in memory for the lifetime of the process.
package auth

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"

	"pitchpulse/internal/config"
)

// dummyHash is compared against when the username is unknown so that
// login timing does not reveal which usernames exist.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// janitorInterval controls how often expired sessions are swept.
const janitorInterval = 5 * time.Minute

// usersFile is the on-disk shape of the credentials file.
type usersFile struct {
	Users []userEntry `yaml:"users"`
}

type userEntry struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// Session represents an authenticated browser session.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its TTL.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Service verifies credentials and manages sessions.
type Service struct {
	cfg    config.AuthConfig
	logger *slog.Logger

	mu       sync.RWMutex
	users    map[string]string
	sessions map[string]*Session

	stopJanitor chan struct{}
	janitorOnce sync.Once
}

// NewService loads the users file and returns a ready service.
// A missing users file is an error when auth is enabled.
func NewService(cfg config.AuthConfig, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:         cfg,
		logger:      logger.With(slog.String("component", "auth")),
		users:       make(map[string]string),
		sessions:    make(map[string]*Session),
		stopJanitor: make(chan struct{}),
	}

	if cfg.Enabled {
		if err := s.loadUsers(cfg.UsersFile); err != nil {
			return nil, err
		}
		go s.janitor()
	}

	return s, nil
}

// Enabled reports whether the login gate is active.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

// CookieName returns the configured session cookie name.
func (s *Service) CookieName() string {
	return s.cfg.CookieName
}

func (s *Service) loadUsers(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read users file %s: %w", path, err)
	}

	var file usersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse users file %s: %w", path, err)
	}

	if len(file.Users) == 0 {
		return fmt.Errorf("users file %s contains no users", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range file.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return fmt.Errorf("users file %s has an entry with empty username or password_hash", path)
		}
		s.users[u.Username] = u.PasswordHash
	}

	s.logger.Info("loaded user credentials",
		slog.String("file", path),
		slog.Int("users", len(s.users)))
	return nil
}

// Login verifies the credentials and creates a new session on success.
func (s *Service) Login(username, password string) (*Session, error) {
	s.mu.RLock()
	hash, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		// Burn the same bcrypt cost as a real comparison.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.logger.Warn("failed login attempt", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &Session{
		Token:     uuid.New().String(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("session created",
		slog.String("username", username),
		slog.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// Validate returns the session for the token, removing it if expired.
func (s *Service) Validate(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNoSession
	}

	if session.Expired() {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Logout removes the session for the token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	if ok {
		delete(s.sessions, token)
	}
	s.mu.Unlock()

	if ok {
		s.logger.Info("session ended", slog.String("username", session.Username))
	}
}

// ActiveSessions returns the number of live sessions.
func (s *Service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, session := range s.sessions {
		if !session.Expired() {
			count++
		}
	}
	return count
}

// Close stops the background session sweeper.
func (s *Service) Close() {
	s.janitorOnce.Do(func() {
		close(s.stopJanitor)
	})
}

func (s *Service) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopJanitor:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *Service) sweepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.Expired() {
			delete(s.sessions, token)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug("swept expired sessions", slog.Int("removed", removed))
	}
}

// HashPassword produces a bcrypt hash suitable for the users file.
// Used by the web binary's user provisioning flag.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
