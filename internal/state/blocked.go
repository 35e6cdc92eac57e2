package state

import (
	"context"
	"slices"
	"sync"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/optimistic"
)

// Blocked caches the caller's block list.
type Blocked struct {
	deps Deps

	mu    sync.RWMutex
	users []models.BlockedUser
}

// NewBlocked returns an empty container.
func NewBlocked(deps Deps) *Blocked {
	return &Blocked{deps: deps}
}

// Load replaces the cache.
func (b *Blocked) Load(ctx context.Context) error {
	users, err := b.deps.Services.Moderation.ListBlocked(ctx, b.deps.token())
	if err != nil {
		b.deps.observe(err)
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = clone(users)
	return nil
}

// Users returns a copy of the block list.
func (b *Blocked) Users() []models.BlockedUser {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clone(b.users)
}

// IsBlocked reports whether userID is on the list.
func (b *Blocked) IsBlocked(userID int64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.ContainsFunc(b.users, blockedByID(userID))
}

func blockedByID(userID int64) func(models.BlockedUser) bool {
	return func(u models.BlockedUser) bool { return u.UserID == userID }
}

// Block adds userID and reloads the list on success.
func (b *Blocked) Block(ctx context.Context, userID int64, username string) error {
	return b.deps.mutate(ctx, &b.mu, optimistic.Mutation{
		Label: "block user",
		Apply: func() func() {
			if slices.ContainsFunc(b.users, blockedByID(userID)) {
				return nil
			}
			return optimistic.Append(&b.users, models.BlockedUser{UserID: userID, Username: username}, blockedByID(userID))
		},
		Commit: func(ctx context.Context) error {
			return b.deps.Services.Moderation.Block(ctx, b.deps.token(), userID)
		},
		Reconcile: b.Load,
	})
}

// Unblock removes userID before the server confirms.
func (b *Blocked) Unblock(ctx context.Context, userID int64) error {
	return b.deps.mutate(ctx, &b.mu, optimistic.Mutation{
		Label: "unblock user",
		Apply: func() func() {
			return optimistic.Remove(&b.users, blockedByID(userID))
		},
		Commit: func(ctx context.Context) error {
			return b.deps.Services.Moderation.Unblock(ctx, b.deps.token(), userID)
		},
	})
}

// Reset drops the cache.
func (b *Blocked) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = nil
}
