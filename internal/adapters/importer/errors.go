package importer

import "errors"

// Sentinel kinds for import errors.
var (
	ErrEmptyInput     = errors.New("please enter CSV data")
	ErrMissingColumns = errors.New(`roster must have "name" and "tier" columns`)
	ErrInvalidRow     = errors.New("invalid roster row")
	ErrUnsupported    = errors.New("unsupported roster format")
)
