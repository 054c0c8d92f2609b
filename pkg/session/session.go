package session

import (
	"time"
)

// Mode identifies who the current session belongs to.
// The backend reports the account type at login; the client never guesses it.
type Mode int

const (
	// ModeGuest is the default mode before any login succeeds.
	ModeGuest Mode = iota
	// ModeStudent is an authenticated student account.
	ModeStudent
	// ModeEmployee is an authenticated employee account.
	ModeEmployee
)

// String returns the persisted representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStudent:
		return "student"
	case ModeEmployee:
		return "employee"
	default:
		return "guest"
	}
}

// ParseMode converts a persisted mode value back to a Mode.
// Unknown values map to ModeGuest so a corrupted value can never
// unlock authenticated UI affordances.
func ParseMode(s string) Mode {
	switch s {
	case "student":
		return ModeStudent
	case "employee":
		return ModeEmployee
	default:
		return ModeGuest
	}
}

// Session represents the current identity against the portal backend.
//
// ExpiresAt is an estimate used to proactively refresh obviously-stale
// tokens. The authoritative expiry signal remains an auth rejection from
// the backend, so a zero ExpiresAt simply disables the proactive check.
type Session struct {
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Token        string // Opaque bearer credential; empty in guest mode.
	RefreshToken string // Optional renewal grant issued by the backend.
	Mode         Mode
}

// NewGuest returns an unauthenticated session.
func NewGuest() Session {
	return Session{Mode: ModeGuest, IssuedAt: time.Now()}
}

// New creates an authenticated session with the given token.
// A zero ttl leaves ExpiresAt unset, disabling proactive expiry checks.
func New(mode Mode, token, refreshToken string, ttl time.Duration) Session {
	now := time.Now()
	s := Session{
		Mode:         mode,
		Token:        token,
		RefreshToken: refreshToken,
		IssuedAt:     now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Authenticated returns true if the session carries an identity.
func (s Session) Authenticated() bool {
	return s.Mode != ModeGuest && s.Token != ""
}

// Expired returns true if the session's estimated expiry has passed.
// Always false for sessions without an estimate.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
