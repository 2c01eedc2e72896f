package capability

import "errors"

// Sentinel errors for the capability registry.
var (
	ErrNotFound      = errors.New("unknown capability")
	ErrAlreadyExists = errors.New("capability already registered")
	ErrEmptyName     = errors.New("capability name is empty")
)
