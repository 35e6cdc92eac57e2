// Package state holds the client-side copies of backend data that the UI
// renders.
//
// # Overview
//
// The backend owns every record. Containers here are caches with a simple
// lifecycle: filled on fetch, mutated optimistically on user action,
// overwritten wholesale by the next successful fetch and discarded on
// logout (Containers.Reset).
//
// # Containers
//
//   - Store: dashboard snapshot refreshed by the poller (unread count,
//     recent notifications, progress, mood summary, badges)
//   - Chat: sessions and the messages of the open session
//   - Forum: posts of the open forum, with like and best-answer toggles
//   - Journals: journal entries, with the AI-sharing toggle
//   - Playlists: playlists and their songs
//   - Notifications: notification list and unread count
//   - Blocked: the caller's block list
//   - Wellbeing: mood check-ins, summary and breathing sessions
//
// # Concurrency Model
//
// Requests run on Bubble Tea command goroutines and the poller, so every
// container guards its data with a sync.RWMutex. The lock is never held
// across network I/O. Accessors return copies.
//
// # Optimistic Updates
//
// Mutations go through optimistic.Perform. The local change is applied under
// the container's lock together with a full snapshot of the affected slice;
// if the server write fails the snapshot is restored, an error toast is
// shown and the error is returned:
//
//	err := forum.ToggleLike(ctx, postID)
//	// posts already show the new like state; on failure they are
//	// restored exactly and a toast explains why
//
// A 401 from any call marks the Session as expired so the header can prompt
// for a new login.
//
// # Parallel Fetches
//
// FetchDashboard and Wellbeing.Load issue their requests concurrently with
// errgroup. The first failure cancels the others and nothing is stored.
package state
