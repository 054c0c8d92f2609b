// Package session holds the in-memory representation of "who is currently
// authenticated" against the portal backend.
//
// A Session is an immutable value: identity changes always go through
// State.Replace, which swaps the whole session atomically and notifies
// subscribers. This keeps concurrent request goroutines from ever observing
// a half-updated identity (for example an authenticated mode with an empty
// token).
//
// The package performs no network or storage I/O; it is pure coordination
// state shared by the request wrapper in the root campus package.
//
// # Usage
//
//	st := session.NewState()
//
//	st.Replace(session.New(session.ModeStudent, "token", "", 15*time.Minute))
//
//	cur := st.Current()
//	if cur.Authenticated() {
//		// attach cur.Token to a request
//	}
//
//	// React to identity changes without polling:
//	ch, cancel := st.Subscribe()
//	defer cancel()
//	for s := range ch {
//		fmt.Println("now:", s.Mode)
//	}
package session
