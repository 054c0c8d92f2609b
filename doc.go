// Package campus manages the session lifecycle of a university
// student-portal client: establishing, caching, renewing, and invalidating
// the authenticated connection to the portal backend, and distinguishing
// guest from authenticated operating modes.
//
// The Manager is the contract the rest of the application builds on. Every
// domain API call goes through WithSession (or the typed Do), which
// attaches the current token, renews it at most once on an auth rejection,
// and maps every failure into a small closed error taxonomy. Screens
// branch on that taxonomy only: ErrNoSession redirects to login,
// ErrUnreachable shows a retry toast, ErrUnavailableSession shows a
// feature-specific error, and ErrGeneric falls back to a generic message.
//
// Renewal is single-flight: when N concurrent operations observe an
// expired token, exactly one renewal handshake runs and its result fans
// out to all of them. An explicit logout always wins over a renewal in
// flight.
//
// # Usage
//
//	cfg, err := campus.LoadConfig("campus.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	mgr, err := campus.NewFromConfig(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := mgr.Login(ctx, username, password, rememberMe)
//	switch {
//	case errors.Is(err, campus.ErrInvalidCredentials):
//		// form-level error
//	case errors.Is(err, campus.ErrUnreachable):
//		// retry toast
//	}
//
//	grades, err := campus.Do(ctx, mgr, func(ctx context.Context, token string) ([]Grade, error) {
//		return fetchGrades(ctx, token) // returns authclient.ResponseError on non-2xx
//	})
//	if errors.Is(err, campus.ErrNoSession) {
//		// redirect to login
//	}
//
//	ch, cancel := mgr.ObserveSession()
//	defer cancel()
//	go func() {
//		for s := range ch {
//			updateAvatar(s.Mode)
//		}
//	}()
package campus
