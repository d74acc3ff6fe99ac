package storage

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("key not found")
	ErrInvalidKey     = errors.New("invalid store key")
	ErrClosed         = errors.New("store closed")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrMissingDSN     = errors.New("postgres dsn is required")
)
