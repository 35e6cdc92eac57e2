// Package notify holds user-facing toast notifications and the rate-limit
// cooldown that throttles them.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level classifies a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a short-lived message shown in the status area.
type Toast struct {
	ID      uint64
	Level   Level
	Message string
	At      time.Time
}

const (
	// RateLimitMessage is shown when the backend answers 429.
	RateLimitMessage = "You're doing that too often. Please wait a moment and try again."

	defaultTTL       = 4 * time.Second
	defaultMaxToasts = 5
)

// Center queues toasts for the UI. It implements api.RateLimitNotifier.
type Center struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    uint64
	ttl       time.Duration
	max       int
	now       func() time.Time
	rateLimit *Cooldown
	logger    *slog.Logger
}

// CenterOption customizes a Center.
type CenterOption func(*Center)

// WithClock injects the time source.
func WithClock(now func() time.Time) CenterOption {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCooldown replaces the rate-limit cooldown.
func WithCooldown(cd *Cooldown) CenterOption {
	return func(c *Center) {
		if cd != nil {
			c.rateLimit = cd
		}
	}
}

// WithTTL sets how long a toast stays active.
func WithTTL(d time.Duration) CenterOption {
	return func(c *Center) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithLogger mirrors pushed toasts to a logger.
func WithLogger(l *slog.Logger) CenterOption {
	return func(c *Center) { c.logger = l }
}

// NewCenter builds an empty Center.
func NewCenter(opts ...CenterOption) *Center {
	c := &Center{
		ttl:       defaultTTL,
		max:       defaultMaxToasts,
		now:       time.Now,
		rateLimit: NewCooldown(DefaultRateLimitCooldown),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push queues a toast and returns its id. The oldest toast is dropped once
// the queue is full.
func (c *Center) Push(level Level, message string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := Toast{ID: c.nextID, Level: level, Message: message, At: c.now()}
	c.toasts = append(c.toasts, t)
	if len(c.toasts) > c.max {
		c.toasts = append([]Toast(nil), c.toasts[len(c.toasts)-c.max:]...)
	}
	if c.logger != nil {
		c.logger.Info("toast", "level", level.String(), "message", message)
	}
	return t.ID
}

func (c *Center) Info(message string) uint64    { return c.Push(LevelInfo, message) }
func (c *Center) Success(message string) uint64 { return c.Push(LevelSuccess, message) }
func (c *Center) Warn(message string) uint64    { return c.Push(LevelWarning, message) }
func (c *Center) Error(message string) uint64   { return c.Push(LevelError, message) }

// RateLimited shows the rate-limit toast unless one was shown within the
// cooldown. The cooldown is shared by every endpoint using this Center.
func (c *Center) RateLimited() {
	if !c.rateLimit.ShouldNotify(c.now()) {
		return
	}
	c.Push(LevelWarning, RateLimitMessage)
}

// Active returns toasts younger than the TTL, oldest first, and prunes the
// expired ones.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Sub(t.At) < c.ttl {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
	if len(kept) == 0 {
		return nil
	}
	return append([]Toast(nil), kept...)
}

// Dismiss removes a toast by id.
func (c *Center) Dismiss(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return
		}
	}
}

// Clear removes every toast and resets the rate-limit cooldown.
func (c *Center) Clear() {
	c.mu.Lock()
	c.toasts = nil
	c.mu.Unlock()
	c.rateLimit.Reset()
}
