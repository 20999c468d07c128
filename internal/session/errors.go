package session

import "errors"

var (
	// ErrMalformedToken indicates the token cannot be decoded or carries no expiry
	ErrMalformedToken = errors.New("malformed session token")

	// ErrTokenExpired indicates the token expiry is at or before the current time
	ErrTokenExpired = errors.New("session token expired")

	// ErrNoPersistedToken indicates the token store holds nothing under the key
	ErrNoPersistedToken = errors.New("no persisted token")

	// ErrLoginRequired indicates a protected command was invoked without a session
	ErrLoginRequired = errors.New("login required: run `p10 login`")

	// ErrSessionNotRestored indicates the guard was consulted before Restore completed
	ErrSessionNotRestored = errors.New("session not restored yet")
)
