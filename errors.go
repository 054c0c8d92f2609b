package campus

import (
	"errors"

	"github.com/dmitrymomot/campus/pkg/authclient"
	"github.com/dmitrymomot/campus/pkg/credstore"
)

// Errors in the client-observable taxonomy. This closed set is the only
// thing the surrounding application is allowed to branch on; raw transport
// errors never escape the manager.
var (
	// ErrNoSession means the renewal path is exhausted and the only fix
	// is a fresh login. It is the sole error that should redirect a
	// screen to the login flow.
	ErrNoSession = errors.New("campus: no session")

	// ErrUnavailableSession means the backend refuses this operation even
	// with a freshly renewed token. Re-authenticating will not fix it, so
	// it must never trigger a login redirect.
	ErrUnavailableSession = errors.New("campus: session unavailable for this operation")

	// ErrInvalidCredentials is returned from Login only and is surfaced
	// as a form-level error. It never tears down an existing session.
	ErrInvalidCredentials = authclient.ErrInvalidCredentials

	// ErrUnreachable means no network path to the backend. Recoverable
	// by the user; never mutates session state.
	ErrUnreachable = authclient.ErrUnreachable

	// ErrGeneric collapses every other unexpected condition, preserving
	// the original diagnostics for logs.
	ErrGeneric = authclient.ErrGeneric

	// ErrTokenRejected is the signal domain request code returns (via
	// authclient.ResponseError) when the backend rejects the presented
	// token. The wrapper consumes it: one rejection triggers renewal, and
	// a rejection of the renewed token surfaces joined under
	// ErrUnavailableSession, with the rejection still inspectable.
	ErrTokenRejected = authclient.ErrTokenRejected

	// ErrStorageUnavailable means the secure credential storage cannot be
	// read or written. Login degrades to "credentials not remembered".
	ErrStorageUnavailable = credstore.ErrUnavailable
)

// toTaxonomy maps an arbitrary failure into the client-observable set.
// Malformed backend payloads are a backend defect, not something callers
// can act on, so they surface as ErrGeneric.
func toTaxonomy(err error) error {
	switch {
	case errors.Is(err, credstore.ErrUnavailable):
		return err
	case errors.Is(err, authclient.ErrMalformedResponse) && !errors.Is(err, ErrGeneric):
		return errors.Join(ErrGeneric, err)
	default:
		return authclient.Classify(err)
	}
}
