package session

import (
	"sync"
)

const defaultObserverBuffer = 4

// State holds the process-wide current session.
//
// It is the single serialization point for identity changes: callers never
// mutate a Session in place, they swap the whole value through Replace. The
// renewal flag lets the request layer guarantee that at most one renewal
// handshake is in flight at a time.
type State struct {
	observers map[uint64]chan Session
	current   Session
	epoch     uint64
	nextID    uint64
	buffer    int
	renewing  bool
	mu        sync.Mutex
}

// StateOption configures the State.
type StateOption func(*State)

// WithObserverBuffer sets the channel buffer size for subscribers.
func WithObserverBuffer(n int) StateOption {
	return func(st *State) {
		if n > 0 {
			st.buffer = n
		}
	}
}

// NewState creates a State holding a guest session.
func NewState(opts ...StateOption) *State {
	st := &State{
		current:   NewGuest(),
		observers: make(map[uint64]chan Session),
		buffer:    defaultObserverBuffer,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Current returns the in-memory session.
func (st *State) Current() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Snapshot returns the current session together with the epoch it was
// observed at, as a single atomic read.
func (st *State) Snapshot() (Session, uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current, st.epoch
}

// Epoch returns a counter that increments on every Replace.
// Callers capture it before a slow operation and pass it to ReplaceIfEpoch
// to detect that the identity changed underneath them.
func (st *State) Epoch() uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.epoch
}

// Replace atomically swaps the current session and notifies observers.
func (st *State) Replace(s Session) {
	st.mu.Lock()
	st.current = s
	st.epoch++
	st.notifyLocked(s)
	st.mu.Unlock()
}

// ReplaceIfEpoch swaps the current session only if no other Replace happened
// since the given epoch was observed. Returns true if the swap was applied.
// An explicit logout bumps the epoch, so a renewal that finishes afterwards
// cannot resurrect the previous identity.
func (st *State) ReplaceIfEpoch(s Session, epoch uint64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.epoch != epoch {
		return false
	}
	st.current = s
	st.epoch++
	st.notifyLocked(s)
	return true
}

// BeginRenewal atomically checks-and-sets the renewal flag.
// Returns true to exactly one caller until EndRenewal is called.
func (st *State) BeginRenewal() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.renewing {
		return false
	}
	st.renewing = true
	return true
}

// EndRenewal clears the renewal flag.
func (st *State) EndRenewal() {
	st.mu.Lock()
	st.renewing = false
	st.mu.Unlock()
}

// RenewalInFlight reports whether a renewal handshake is currently running.
func (st *State) RenewalInFlight() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.renewing
}

// Subscribe registers an observer for identity changes.
// The returned cancel function removes the observer and closes its channel.
// Sends are non-blocking: a subscriber that stops draining misses updates
// instead of blocking identity changes for the whole process.
func (st *State) Subscribe() (<-chan Session, func()) {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	ch := make(chan Session, st.buffer)
	st.observers[id] = ch
	st.mu.Unlock()

	cancel := func() {
		st.mu.Lock()
		if ch, ok := st.observers[id]; ok {
			delete(st.observers, id)
			close(ch)
		}
		st.mu.Unlock()
	}
	return ch, cancel
}

func (st *State) notifyLocked(s Session) {
	for _, ch := range st.observers {
		select {
		case ch <- s:
		default:
		}
	}
}
