package state

import (
	"context"
	"sync"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/optimistic"
	"github.com/five82/haven/internal/services"
)

// Notifications caches the first page of notifications and the unread count.
type Notifications struct {
	deps Deps

	mu     sync.RWMutex
	items  []models.Notification
	unread int
}

// NewNotifications returns an empty container.
func NewNotifications(deps Deps) *Notifications {
	return &Notifications{deps: deps}
}

// Load refreshes the list and the unread count.
func (n *Notifications) Load(ctx context.Context) error {
	token := n.deps.token()
	page, err := n.deps.Services.Notifications.List(ctx, token, services.NotificationQuery{PageQuery: services.PageQuery{Limit: 20}})
	if err != nil {
		n.deps.observe(err)
		return err
	}
	count, err := n.deps.Services.Notifications.UnreadCount(ctx, token)
	if err != nil {
		n.deps.observe(err)
		return err
	}
	n.Set(page.Data, count)
	return nil
}

// Set replaces the cache with values fetched elsewhere.
func (n *Notifications) Set(items []models.Notification, unread int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = clone(items)
	n.unread = unread
}

// Items returns a copy of the cached notifications.
func (n *Notifications) Items() []models.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return clone(n.items)
}

// Unread returns the unread count.
func (n *Notifications) Unread() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.unread
}

func notificationByID(id int64) func(models.Notification) bool {
	return func(x models.Notification) bool { return x.ID == id }
}

// markRead flags notification id read and returns its rollback, which also
// gives back the unread count it took.
func (n *Notifications) markRead(id int64) func() {
	counted := false
	undo := optimistic.Edit(&n.items, notificationByID(id),
		func(x *models.Notification) {
			if !x.IsRead && n.unread > 0 {
				n.unread--
				counted = true
			}
			x.IsRead = true
		},
		func(x *models.Notification, before models.Notification) { x.IsRead = before.IsRead })
	return optimistic.Join(undo, func() {
		if counted {
			n.unread++
		}
	})
}

// MarkRead marks id read and decrements the unread count.
func (n *Notifications) MarkRead(ctx context.Context, id int64) error {
	return n.deps.mutate(ctx, &n.mu, optimistic.Mutation{
		Label: "mark notification read",
		Apply: func() func() {
			return n.markRead(id)
		},
		Commit: func(ctx context.Context) error {
			return n.deps.Services.Notifications.MarkRead(ctx, n.deps.token(), id)
		},
	})
}

// MarkAllRead clears the unread state, then reconciles the count.
func (n *Notifications) MarkAllRead(ctx context.Context) error {
	return n.deps.mutate(ctx, &n.mu, optimistic.Mutation{
		Label: "mark notifications read",
		Apply: func() func() {
			var undo []func()
			for _, x := range n.items {
				if !x.IsRead {
					undo = append(undo, n.markRead(x.ID))
				}
			}
			// Unread items beyond the cached page.
			rest := n.unread
			n.unread = 0
			undo = append(undo, func() { n.unread += rest })
			return optimistic.Join(undo...)
		},
		Commit: func(ctx context.Context) error {
			return n.deps.Services.Notifications.MarkAllRead(ctx, n.deps.token())
		},
		Reconcile: func(ctx context.Context) error {
			count, err := n.deps.Services.Notifications.UnreadCount(ctx, n.deps.token())
			if err != nil {
				return err
			}
			n.mu.Lock()
			n.unread = count
			n.mu.Unlock()
			return nil
		},
	})
}

// Reset drops the cache.
func (n *Notifications) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = nil
	n.unread = 0
}
