// Package ui implements haven's Bubble Tea terminal interface.
//
// The root Model owns navigation, the help overlay and at most one modal
// form. Views read the state containers directly: every getter returns a
// copy, so rendering never races with the commands that mutate them. Work
// that touches the network runs in tea.Cmd functions that report back with
// a message (loadedMsg, actionMsg, formResultMsg and friends).
//
// Mutations such as liking a post or toggling journal sharing are
// optimistic inside the containers. The UI only asks for them and shows the
// toast queue; a failed mutation has already been rolled back and toasted
// by the time its actionMsg arrives.
//
// Forms show validation and API errors inline. A 401 from any call marks
// the session expired and the header says so until the user signs in
// again with L.
//
// Theme, article page size and article category are persisted with the
// prefs package.
package ui
