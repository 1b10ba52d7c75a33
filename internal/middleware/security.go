package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SecureHeaders provides configurable security headers
type SecureHeaders struct {
	// HSTS settings
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	// CSP settings
	ContentSecurityPolicy string

	// Frame options
	XFrameOptions string

	// Other security headers
	XContentTypeOptions string
	XSSProtection       string
	ReferrerPolicy      string
	PermissionsPolicy   string

	// Development mode (relaxes some policies)
	DevMode bool
}

// DefaultSecureHeaders returns secure headers with default settings
func DefaultSecureHeaders() *SecureHeaders {
	return &SecureHeaders{
		HSTSMaxAge:            63072000, // 2 years
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		XSSProtection:         "1; mode=block",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// Handler returns the middleware handler
func (sh *SecureHeaders) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip security headers for WebSocket upgrades
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if sh.HSTSMaxAge > 0 && (r.TLS != nil || sh.DevMode) {
			hsts := fmt.Sprintf("max-age=%d", sh.HSTSMaxAge)
			if sh.HSTSIncludeSubdomains {
				hsts += "; includeSubDomains"
			}
			if sh.HSTSPreload {
				hsts += "; preload"
			}
			w.Header().Set("Strict-Transport-Security", hsts)
		}

		if sh.ContentSecurityPolicy != "" {
			w.Header().Set("Content-Security-Policy", sh.ContentSecurityPolicy)
		} else if !sh.DevMode {
			w.Header().Set("Content-Security-Policy", sh.defaultCSP())
		}

		if sh.XFrameOptions != "" {
			w.Header().Set("X-Frame-Options", sh.XFrameOptions)
		}

		if sh.XContentTypeOptions != "" {
			w.Header().Set("X-Content-Type-Options", sh.XContentTypeOptions)
		}

		if sh.XSSProtection != "" {
			w.Header().Set("X-XSS-Protection", sh.XSSProtection)
		}

		if sh.ReferrerPolicy != "" {
			w.Header().Set("Referrer-Policy", sh.ReferrerPolicy)
		}

		if sh.PermissionsPolicy != "" {
			w.Header().Set("Permissions-Policy", sh.PermissionsPolicy)
		} else if !sh.DevMode {
			w.Header().Set("Permissions-Policy", sh.defaultPermissionsPolicy())
		}

		next.ServeHTTP(w, r)
	})
}

// defaultCSP returns the default Content Security Policy
func (sh *SecureHeaders) defaultCSP() string {
	policies := []string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com",
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com",
		"img-src 'self' data: https: blob:",
		"font-src 'self' https://cdnjs.cloudflare.com",
		"connect-src 'self' ws: wss:",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"upgrade-insecure-requests",
	}

	if sh.DevMode {
		policies = []string{
			"default-src 'self'",
			"script-src 'self' 'unsafe-inline' 'unsafe-eval' *",
			"style-src 'self' 'unsafe-inline' *",
			"img-src * data: blob:",
			"font-src *",
			"connect-src *",
		}
	}

	return strings.Join(policies, "; ")
}

// defaultPermissionsPolicy returns the default Permissions Policy
func (sh *SecureHeaders) defaultPermissionsPolicy() string {
	policies := []string{
		"accelerometer=()",
		"camera=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
		"interest-cohort=()",
	}
	return strings.Join(policies, ", ")
}

// AuditLog provides audit logging middleware for sensitive operations
func AuditLog(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			ww := &auditResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			var username string
			if u, ok := ctx.Value(UsernameKey).(string); ok {
				username = u
			}

			logger.InfoContext(ctx, "audit log",
				"event_type", "api_access",
				"username", username,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.Query().Encode(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			next.ServeHTTP(ww, r)

			logger.InfoContext(ctx, "audit log complete",
				"event_type", "api_response",
				"username", username,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// auditResponseWriter captures the response status code
type auditResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (w *auditResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *auditResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}
