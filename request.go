package campus

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/campus/pkg/authclient"
	"github.com/dmitrymomot/campus/pkg/session"
)

// Operation is a backend call parameterized by the current token.
// It reports an auth rejection by returning authclient.ErrTokenRejected
// (domain request code gets this from authclient.ResponseError).
type Operation func(ctx context.Context, token string) error

// WithSession executes op with the current token, renewing and retrying
// once on an auth rejection. It is the sole entry point for authenticated
// domain calls.
func (m *Manager) WithSession(ctx context.Context, op Operation) error {
	_, err := Do(ctx, m, func(ctx context.Context, token string) (struct{}, error) {
		return struct{}{}, op(ctx, token)
	})
	return err
}

// Do is the typed variant of WithSession for operations that return a
// value.
//
// Behavior, in order:
//
//  1. Guest mode fails immediately with ErrNoSession, before any network
//     call, so callers can redirect to login without spending a round trip.
//  2. A token past its estimated expiry is renewed proactively.
//  3. On an auth rejection the session is renewed (single-flight across
//     all concurrent operations) and the call retried exactly once.
//  4. A second rejection with a fresh token is ErrUnavailableSession: the
//     backend is refusing this operation, not asking for a re-login.
//  5. Transport failures surface as ErrUnreachable and never touch the
//     session state.
func Do[T any](ctx context.Context, m *Manager, fn func(ctx context.Context, token string) (T, error)) (T, error) {
	var zero T

	sess := m.state.Current()
	if !sess.Authenticated() {
		return zero, ErrNoSession
	}

	if sess.Expired() {
		fresh, err := m.renew(ctx, sess)
		if err != nil {
			return zero, err
		}
		sess = fresh
	}

	v, err := fn(ctx, sess.Token)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, authclient.ErrTokenRejected) {
		return zero, toTaxonomy(err)
	}

	// Expiry confirmed empirically; the estimate was optimistic.
	fresh, err := m.renew(ctx, sess)
	if err != nil {
		return zero, err
	}

	v, err = fn(ctx, fresh.Token)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, authclient.ErrTokenRejected) {
		return zero, errors.Join(ErrUnavailableSession, err)
	}
	return zero, toTaxonomy(err)
}

// renew performs the single-flight renewal handshake. All operations that
// observe a stale token while a renewal is underway wait on that one
// flight instead of starting their own; the shared result fans out to
// every waiter.
//
// stale is the session the caller observed failing. If the current session
// already differs when the flight runs, someone else renewed first and no
// handshake is needed.
func (m *Manager) renew(ctx context.Context, stale session.Session) (session.Session, error) {
	v, err, _ := m.renewals.Do("renew", func() (any, error) {
		// The flight's result fans out to every queued waiter, so the
		// handshake must not die with the first caller's context. The
		// HTTP client's own timeout still bounds the round trip.
		ctx := context.WithoutCancel(ctx)

		cur, epoch := m.state.Snapshot()
		if !cur.Authenticated() {
			// Logged out while this caller was queueing.
			return nil, ErrNoSession
		}
		if cur.Token != stale.Token {
			return cur, nil
		}

		if !m.state.BeginRenewal() {
			return nil, errors.Join(ErrGeneric, errors.New("renewal already in flight"))
		}
		defer m.state.EndRenewal()

		m.logger.InfoContext(ctx, "renewing session",
			slog.String("mode", cur.Mode.String()))

		fresh, err := m.client.Renew(ctx, cur)
		if err != nil {
			if errors.Is(err, authclient.ErrRenewalRejected) {
				m.logger.WarnContext(ctx, "renewal rejected, resetting to guest")
				m.resetIdentity(ctx, epoch)
				return nil, errors.Join(ErrNoSession, err)
			}
			return nil, toTaxonomy(err)
		}

		if !m.state.ReplaceIfEpoch(fresh, epoch) {
			// An explicit logout (or a new login) won the race; the
			// renewed token must not resurrect the old identity.
			return nil, ErrNoSession
		}

		m.logger.InfoContext(ctx, "session renewed",
			slog.String("mode", fresh.Mode.String()))
		return fresh, nil
	})
	if err != nil {
		return session.Session{}, err
	}
	return v.(session.Session), nil
}

// resetIdentity drops to guest and wipes credentials after a definitive
// renewal refusal. Skipped entirely if the identity changed since epoch:
// a logout already cleaned up, and a new login's credentials must survive.
func (m *Manager) resetIdentity(ctx context.Context, epoch uint64) {
	if !m.state.ReplaceIfEpoch(session.NewGuest(), epoch) {
		return
	}
	if err := m.creds.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear credentials after renewal rejection",
			slog.String("error", err.Error()))
	}
	m.persistMode(ctx, session.ModeGuest)
}
