package campus

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/campus/pkg/authclient"
	"github.com/dmitrymomot/campus/pkg/credstore"
	"github.com/dmitrymomot/campus/pkg/logger"
	"github.com/dmitrymomot/campus/pkg/session"
)

// Manager owns the authenticated connection to the portal backend: it
// establishes, caches, renews, and invalidates the session, and wraps
// every domain API call through WithSession/Do.
type Manager struct {
	client   authclient.Client
	creds    credstore.Store
	state    *session.State
	logger   *slog.Logger
	renewals singleflight.Group
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithCredentialStore sets the store for the opt-in "stay signed in" pair.
// Defaults to an in-memory store, i.e. nothing survives a restart.
func WithCredentialStore(store credstore.Store) Option {
	return func(m *Manager) {
		if store != nil {
			m.creds = store
		}
	}
}

// WithObserverBuffer sets the channel buffer for ObserveSession
// subscribers.
func WithObserverBuffer(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.state = session.NewState(session.WithObserverBuffer(n))
		}
	}
}

// New creates a Manager starting in guest mode.
func New(client authclient.Client, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		creds:  credstore.NewMemoryStore(),
		state:  session.NewState(),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login performs the authentication handshake and replaces the current
// session on success. With remember set, the credential pair is persisted
// for silent renewal; a broken credential store degrades to "not
// remembered" instead of failing the login.
func (m *Manager) Login(ctx context.Context, username, password string, remember bool) (session.Session, error) {
	sess, err := m.client.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, toTaxonomy(err)
	}

	m.state.Replace(sess)
	m.logger.InfoContext(ctx, "logged in",
		slog.String("mode", sess.Mode.String()),
		slog.Bool("remember", remember),
	)

	if remember {
		if err := m.creds.Save(ctx, credstore.Credentials{Username: username, Password: password}); err != nil {
			m.logger.WarnContext(ctx, "credential store unavailable, not remembering",
				slog.String("error", err.Error()))
		}
	} else {
		// A previous user's opted-in pair must not silently renew the
		// new identity.
		if err := m.creds.Clear(ctx); err != nil {
			m.logger.WarnContext(ctx, "failed to clear remembered credentials",
				slog.String("error", err.Error()))
		}
	}
	m.persistMode(ctx, sess.Mode)

	return sess, nil
}

// LoginAsGuest switches to an unauthenticated session. Always succeeds
// locally; remembered credentials are kept so the user can switch back.
func (m *Manager) LoginAsGuest(ctx context.Context) session.Session {
	sess := m.client.GuestSession()
	m.state.Replace(sess)
	m.persistMode(ctx, sess.Mode)
	m.logger.InfoContext(ctx, "switched to guest session")
	return sess
}

// Logout resets the session to guest and wipes stored credentials
// unconditionally. A renewal in flight cannot resurrect the old identity
// afterwards. The returned error reports credential-store trouble only;
// the in-memory reset always happens.
func (m *Manager) Logout(ctx context.Context) error {
	m.state.Replace(session.NewGuest())
	m.logger.InfoContext(ctx, "logged out")

	err := m.creds.Clear(ctx)
	m.persistMode(ctx, session.ModeGuest)
	if err != nil {
		return toTaxonomy(err)
	}
	return nil
}

// Current returns the in-memory session.
func (m *Manager) Current() session.Session {
	return m.state.Current()
}

// ObserveSession returns a stream of identity changes for UI elements that
// must react without polling. The cancel function unsubscribes and closes
// the channel.
func (m *Manager) ObserveSession() (<-chan session.Session, func()) {
	return m.state.Subscribe()
}

// LastKnownMode returns the persisted session mode so the application can
// pick the right affordances before the first network round trip. Returns
// ModeGuest when nothing was persisted or storage is unavailable.
func (m *Manager) LastKnownMode(ctx context.Context) session.Mode {
	mode, err := m.creds.LoadMode(ctx)
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			m.logger.WarnContext(ctx, "failed to load persisted mode",
				slog.String("error", err.Error()))
		}
		return session.ModeGuest
	}
	return session.ParseMode(mode)
}

// loadCredentials is the CredentialSource handed to the auth client.
func (m *Manager) loadCredentials(ctx context.Context) (credstore.Credentials, error) {
	return m.creds.Load(ctx)
}

func (m *Manager) persistMode(ctx context.Context, mode session.Mode) {
	if err := m.creds.SaveMode(ctx, mode.String()); err != nil {
		m.logger.WarnContext(ctx, "failed to persist session mode",
			slog.String("error", err.Error()))
	}
}

// CredentialSource returns a source backed by the manager's credential
// store, for wiring into authclient.WithCredentialSource.
func (m *Manager) CredentialSource() authclient.CredentialSource {
	return m.loadCredentials
}
