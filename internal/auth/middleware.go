package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apierrors "pitchpulse/internal/errors"
	"pitchpulse/internal/middleware"
)

// RequireSession gates requests behind a valid session cookie.
// The authenticated username is placed on the request context for
// downstream handlers and the audit log. When auth is disabled the
// middleware passes every request through unchanged.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		token := s.tokenFromRequest(r)
		session, err := s.Validate(token)
		if err != nil {
			s.renderUnauthorized(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), middleware.UsernameKey, session.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest reads the session token from the cookie, falling
// back to a bearer token for non-browser clients.
func (s *Service) tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}

func (s *Service) renderUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierrors.ErrUnauthorized
	switch {
	case errors.Is(err, ErrSessionExpired):
		apiErr = apierrors.ErrSessionExpired
	case errors.Is(err, ErrNoSession):
		apiErr = apierrors.ErrUnauthorized
	}

	s.logger.DebugContext(r.Context(), "rejected unauthenticated request",
		slog.String("path", r.URL.Path),
		slog.String("reason", err.Error()))

	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// SessionCookie builds the Set-Cookie value for a new session.
func (s *Service) SessionCookie(session *Session, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a Set-Cookie value that clears the session cookie.
func (s *Service) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
