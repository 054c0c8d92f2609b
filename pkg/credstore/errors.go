package credstore

import "errors"

var (
	// ErrNotFound is returned by Load when no credentials are stored.
	// It is the "absent" answer, not a failure.
	ErrNotFound = errors.New("credstore: not found")

	// ErrUnavailable is returned when the underlying storage cannot be
	// read or written. It is never collapsed into ErrNotFound so callers
	// can degrade to "credentials not remembered" instead of silently
	// treating a broken disk as an empty store.
	ErrUnavailable = errors.New("credstore: storage unavailable")

	// ErrIncomplete is returned by Save when the username or password is
	// empty. The store only ever holds a complete pair or nothing.
	ErrIncomplete = errors.New("credstore: incomplete credential pair")

	// ErrBadSecret is returned when the encryption secret is shorter
	// than 32 bytes.
	ErrBadSecret = errors.New("credstore: secret must be 32+ bytes")
)
