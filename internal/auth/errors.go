package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession is returned when no session exists for a token.
	ErrNoSession = errors.New("no active session")

	// ErrSessionExpired is returned when a session is past its TTL.
	ErrSessionExpired = errors.New("session expired")
)
