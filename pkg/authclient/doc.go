// Package authclient performs the network handshakes that exchange
// credentials (or a refresh grant) for a portal session token, and maps
// every failure into a small closed error taxonomy.
//
// Login and Renew are the only places the authentication endpoints are
// called; the rest of the application reaches the backend through the
// request wrapper in the root campus package, which never talks to the
// auth endpoints directly.
//
// # Error taxonomy
//
// Callers branch on sentinel errors only:
//
//   - ErrInvalidCredentials: the backend rejected the username/password
//     pair at login. A form-level error, never an auto-logout.
//   - ErrRenewalRejected: the backend definitively refuses to reissue a
//     token. Forces a full re-login.
//   - ErrTokenRejected: a single authenticated request was rejected; the
//     request wrapper renews and retries once.
//   - ErrUnreachable: no network path to the backend. Says nothing about
//     the session.
//   - ErrMalformedResponse: undecodable backend payload, a backend-side
//     defect.
//   - ErrGeneric: everything else, wrapping an *APIError with the
//     backend's diagnostics.
//
// # Usage
//
//	client, err := authclient.NewHTTPClient("https://portal.example.edu/api",
//		authclient.WithCredentialSource(func(ctx context.Context) (credstore.Credentials, error) {
//			return store.Load(ctx)
//		}),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	sess, err := client.Login(ctx, "jdoe", "hunter2")
//	switch {
//	case errors.Is(err, authclient.ErrInvalidCredentials):
//		// show form error
//	case errors.Is(err, authclient.ErrUnreachable):
//		// offer retry
//	}
package authclient
