package credstore

import "context"

// Credentials is the opt-in "stay signed in" pair.
// It is loaded only for the duration of a login or renewal handshake and
// never kept in memory afterwards.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Store persists the credential pair and the last known session mode.
//
// Implementations must be atomic at pair granularity: a reader never
// observes a half-written pair. Clear is idempotent.
type Store interface {
	// Save overwrites the stored pair. Returns ErrIncomplete if either
	// field is empty.
	Save(ctx context.Context, creds Credentials) error

	// Load returns the stored pair or ErrNotFound.
	Load(ctx context.Context) (Credentials, error)

	// Clear removes the stored pair. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error

	// SaveMode persists the last known session mode so the application
	// can render the right affordances before the first round trip.
	SaveMode(ctx context.Context, mode string) error

	// LoadMode returns the persisted mode, or ErrNotFound if none was
	// ever saved.
	LoadMode(ctx context.Context) (string, error)
}
