// Package credstore provides durable, encrypted-at-rest storage for the
// opt-in "stay signed in" credential pair and the last known session mode.
//
// The store is pure storage with no business logic and no network access.
// Two invariants hold for every implementation:
//
//   - The store contains a complete {username, password} pair or nothing,
//     never a partial pair.
//   - Storage failures surface as ErrUnavailable and are never collapsed
//     into ErrNotFound, so callers can distinguish "nothing remembered"
//     from "storage is broken" and degrade gracefully.
//
// # Usage
//
//	store, err := credstore.NewFileStore("/var/lib/campus/creds", secret)
//	if err != nil {
//		// handle error
//	}
//
//	if err := store.Save(ctx, credstore.Credentials{
//		Username: "jdoe",
//		Password: "hunter2",
//	}); err != nil {
//		// handle error
//	}
//
//	creds, err := store.Load(ctx)
//	switch {
//	case errors.Is(err, credstore.ErrNotFound):
//		// nothing remembered
//	case err != nil:
//		// storage degraded
//	}
package credstore
