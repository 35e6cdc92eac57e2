package state

// Containers bundles every feature container around one set of Deps.
type Containers struct {
	Deps          Deps
	Dashboard     *Store
	Chat          *Chat
	Forum         *Forum
	Journals      *Journals
	Playlists     *Playlists
	Notifications *Notifications
	Blocked       *Blocked
	Wellbeing     *Wellbeing
}

// NewContainers builds empty containers.
func NewContainers(deps Deps) *Containers {
	return &Containers{
		Deps:          deps,
		Dashboard:     &Store{},
		Chat:          NewChat(deps),
		Forum:         NewForum(deps),
		Journals:      NewJournals(deps),
		Playlists:     NewPlaylists(deps),
		Notifications: NewNotifications(deps),
		Blocked:       NewBlocked(deps),
		Wellbeing:     NewWellbeing(deps),
	}
}

// Reset discards every cached copy, as on logout.
func (c *Containers) Reset() {
	c.Dashboard.Reset()
	c.Chat.Reset()
	c.Forum.Reset()
	c.Journals.Reset()
	c.Playlists.Reset()
	c.Notifications.Reset()
	c.Blocked.Reset()
	c.Wellbeing.Reset()
}
