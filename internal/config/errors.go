package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	ErrInvalidConfig = errors.New("invalid trackmeet config")
	ErrLoadConfig    = errors.New("cannot load trackmeet config")
)
