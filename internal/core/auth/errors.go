package auth

import "errors"

// Authentication errors. Missing, malformed, and unknown keys all map to
// UNAUTHENTICATED so responses do not confirm whether a key exists;
// revoked keys map to PERMISSION_DENIED.
var (
	ErrMissingKey       = errors.New("API key required in x-api-key metadata")
	ErrInvalidKeyFormat = errors.New("invalid API key format")
	ErrUnknownKey       = errors.New("unknown secret ID")
	ErrInvalidKey       = errors.New("invalid API key")
	ErrKeyRevoked       = errors.New("API key has been revoked")

	// errDatabase marks lookup failures, reported as UNAVAILABLE.
	errDatabase = errors.New("database error")
)
