package shared

import "errors"

var (
	// ErrSessionNotFound reported by stores when no payload exists for the ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
