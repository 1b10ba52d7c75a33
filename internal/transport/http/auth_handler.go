package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pitchpulse/internal/auth"
	apierrors "pitchpulse/internal/errors"
)

// AuthHandler handles session login and logout
type AuthHandler struct {
	service      *auth.Service
	secureCookie bool
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAuthHandler creates a new auth handler. secureCookie marks session
// cookies Secure and should be true whenever the server sits behind TLS.
func NewAuthHandler(service *auth.Service, secureCookie bool, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AuthHandler {
	return &AuthHandler{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger.With(slog.String("component", "auth_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the auth routes
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		render.JSON(w, r, map[string]interface{}{
			"status":  "success",
			"enabled": false,
		})
		return
	}

	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.Username == "" || req.Password == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("credentials", "username and password are required"))
		return
	}

	session, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.errorHandler.HandleError(w, r, apierrors.ErrInvalidCredentials)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, h.service.SessionCookie(session, h.secureCookie))
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"enabled": true,
		"session": session,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.service.CookieName()); err == nil {
		h.service.Logout(cookie.Value)
	}

	http.SetCookie(w, h.service.ExpiredCookie())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

// Session handles GET /api/auth/session, reporting whether the caller's
// session cookie is still valid.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		render.JSON(w, r, map[string]interface{}{
			"authenticated": true,
			"enabled":       false,
		})
		return
	}

	cookie, err := r.Cookie(h.service.CookieName())
	if err != nil {
		render.JSON(w, r, map[string]interface{}{
			"authenticated": false,
			"enabled":       true,
		})
		return
	}

	session, err := h.service.Validate(cookie.Value)
	if err != nil {
		render.JSON(w, r, map[string]interface{}{
			"authenticated": false,
			"enabled":       true,
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"authenticated": true,
		"enabled":       true,
		"session":       session,
	})
}
