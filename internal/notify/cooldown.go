package notify

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRateLimitCooldown is the minimum gap between two rate-limit toasts.
const DefaultRateLimitCooldown = 5 * time.Second

// Cooldown admits at most one event per interval. The caller supplies the
// current time so tests can drive it without sleeping.
type Cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	limiter  *rate.Limiter
}

// NewCooldown builds a Cooldown; a non-positive interval uses the default.
func NewCooldown(interval time.Duration) *Cooldown {
	if interval <= 0 {
		interval = DefaultRateLimitCooldown
	}
	c := &Cooldown{interval: interval}
	c.limiter = c.newLimiter()
	return c
}

func (c *Cooldown) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(c.interval), 1)
}

// ShouldNotify reports whether at least one interval has passed since the
// last admitted event. Rejected calls do not push the window forward.
func (c *Cooldown) ShouldNotify(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limiter.AllowN(now, 1)
}

// Interval returns the configured gap.
func (c *Cooldown) Interval() time.Duration {
	return c.interval
}

// Reset forgets the last admitted event.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limiter = c.newLimiter()
}
