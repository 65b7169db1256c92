package engine

import "errors"

var (
	// ErrInvalidSchema is returned by New when the validator cannot describe a
	// usable form.
	ErrInvalidSchema = errors.New("engine: invalid schema")
	// ErrInvalidMode is returned by New when an unknown mode is configured.
	ErrInvalidMode = errors.New("engine: invalid mode")
)
