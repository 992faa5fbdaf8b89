package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the write would violate a uniqueness constraint,
	// e.g. a duplicate email or an already-existing friend request pair.
	ErrConflict = errors.New("record conflict")
)
