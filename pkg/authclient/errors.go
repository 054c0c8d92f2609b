package authclient

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidCredentials is returned when the backend explicitly
	// rejects the username/password pair at login.
	ErrInvalidCredentials = errors.New("authclient: invalid credentials")

	// ErrRenewalRejected is returned when the backend definitively will
	// not reissue a token (expired grant, revoked account). It is the
	// signal that forces a full re-login.
	ErrRenewalRejected = errors.New("authclient: renewal rejected")

	// ErrTokenRejected is returned when the backend rejects a single
	// authenticated request because the presented token is expired or
	// invalid. The request layer reacts by renewing and retrying once.
	ErrTokenRejected = errors.New("authclient: token rejected")

	// ErrUnreachable is returned when no network path to the backend
	// exists (DNS failure, connection refused, timeout). It carries no
	// verdict about the session.
	ErrUnreachable = errors.New("authclient: backend unreachable")

	// ErrMalformedResponse is returned when the backend returns data the
	// client cannot parse. Treated as a backend defect, never as a
	// credentials problem.
	ErrMalformedResponse = errors.New("authclient: malformed response")

	// ErrGeneric wraps unexpected conditions (unknown status codes,
	// unexpected payloads) while preserving the original diagnostics.
	ErrGeneric = errors.New("authclient: request failed")
)

// APIError carries the backend's diagnostic payload for an unexpected
// response. It is always wrapped in ErrGeneric; callers branch on the
// sentinel and reach for APIError only when logging.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error returns a human-readable description of the backend failure.
func (e *APIError) Error() string {
	if e.Message != "" {
		return "backend error " + e.Code + ": " + e.Message
	}
	return "backend returned status " + strconv.Itoa(e.Status)
}
