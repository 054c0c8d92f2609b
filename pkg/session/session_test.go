package session

import (
	"testing"
	"time"
)

func TestMode_String(t *testing.T) {
	cases := []struct {
		want string
		mode Mode
	}{
		{"guest", ModeGuest},
		{"student", ModeStudent},
		{"employee", ModeEmployee},
		{"guest", Mode(99)},
	}
	for _, tc := range cases {
		if got := tc.mode.String(); got != tc.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"student", ModeStudent},
		{"employee", ModeEmployee},
		{"guest", ModeGuest},
		{"", ModeGuest},
		{"admin", ModeGuest},
	}
	for _, tc := range cases {
		if got := ParseMode(tc.in); got != tc.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewGuest(t *testing.T) {
	s := NewGuest()

	if s.Mode != ModeGuest {
		t.Errorf("Mode = %v, want ModeGuest", s.Mode)
	}
	if s.Token != "" {
		t.Errorf("Token = %q, want empty", s.Token)
	}
	if s.Authenticated() {
		t.Error("Authenticated() = true for guest session")
	}
}

func TestNew(t *testing.T) {
	s := New(ModeStudent, "tok", "refresh", time.Hour)

	if !s.Authenticated() {
		t.Error("Authenticated() = false, want true")
	}
	if s.ExpiresAt.IsZero() {
		t.Error("ExpiresAt is zero, want estimate")
	}
	if s.Expired() {
		t.Error("Expired() = true for fresh session")
	}

	noTTL := New(ModeEmployee, "tok", "", 0)
	if !noTTL.ExpiresAt.IsZero() {
		t.Error("ExpiresAt set despite zero ttl")
	}
	if noTTL.Expired() {
		t.Error("Expired() = true without estimate")
	}
}

func TestSession_Expired(t *testing.T) {
	s := New(ModeStudent, "tok", "", time.Nanosecond)
	time.Sleep(time.Millisecond)

	if !s.Expired() {
		t.Error("Expired() = false past estimated expiry")
	}
}

func TestSession_Authenticated_EmptyToken(t *testing.T) {
	s := Session{Mode: ModeStudent}
	if s.Authenticated() {
		t.Error("Authenticated() = true with empty token")
	}
}
