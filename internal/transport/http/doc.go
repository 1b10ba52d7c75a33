// Package http implements the HTTP handlers for the analytics dashboard.
// Handlers stay thin: they parse and validate the request, call the
// service layer, and render the result with go-chi/render. Service errors
// are mapped to RFC 7807 problem responses through the shared error
// handler, so a handler never writes an error payload by hand.
//
// Each handler exposes a Routes() chi.Router that the application mounts
// under /api; the handlers themselves never know their mount point.
package http
