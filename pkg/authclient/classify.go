package authclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
)

// Classify maps an arbitrary failure from a backend call into the closed
// error taxonomy. Errors that already belong to the taxonomy pass through
// unchanged, transport-level failures become ErrUnreachable, and anything
// else collapses into ErrGeneric with the original error preserved.
//
// context.Canceled passes through untouched: the caller canceled the
// operation itself and should not see it disguised as a network problem.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrRenewalRejected),
		errors.Is(err, ErrTokenRejected),
		errors.Is(err, ErrUnreachable),
		errors.Is(err, ErrMalformedResponse),
		errors.Is(err, ErrGeneric):
		return err
	case isTransportError(err):
		return errors.Join(ErrUnreachable, err)
	default:
		return errors.Join(ErrGeneric, err)
	}
}

// ResponseError converts a non-2xx response from a domain API call into a
// classified error. Domain request code calls this instead of inventing
// its own status mapping, so the request wrapper can recognize auth
// rejections uniformly.
func ResponseError(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrTokenRejected
	default:
		return statusError(resp)
	}
}

// isTransportError reports whether err is a connection-level failure:
// DNS resolution, connection refused, TLS handshake, timeout. Everything
// http.Client.Do returns that is not a context cancellation falls in this
// bucket.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return !errors.Is(urlErr.Err, context.Canceled)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
