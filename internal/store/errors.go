package store

import "errors"

var (
	// ErrDuplicateKey means an insert or update collided with the email or
	// username unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound means no record matched the given id or key.
	ErrNotFound = errors.New("not found")
)
