// Package app is haven's composition root.
//
// Run loads configuration, opens the log file, builds the API client and
// service set, creates the state containers and starts the dashboard poller
// before handing control to the TUI. It blocks until the UI exits or the
// context is cancelled.
//
// # Polling
//
// The poller refreshes the dashboard (unread count, recent notifications,
// progress, weekly mood summary, badges) at the configured interval while a
// session is signed in. Consecutive failures back off exponentially up to
// 30 seconds; previous data stays visible and the header shows the offline
// state. A 401 marks the session expired and stops polling until the user
// signs in again.
//
// # Errors
//
// Configuration, log file and client construction failures are fatal and
// returned from Run. Poll failures are logged and retried.
package app
