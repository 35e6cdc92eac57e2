package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestCooldown_AdmitsOncePerInterval(t *testing.T) {
	clock := newClock()
	cd := NewCooldown(5 * time.Second)

	assert.True(t, cd.ShouldNotify(clock.Now()))
	clock.Advance(1 * time.Second)
	assert.False(t, cd.ShouldNotify(clock.Now()))
	clock.Advance(3 * time.Second)
	assert.False(t, cd.ShouldNotify(clock.Now()))
	// Rejections do not extend the window: 5s after the admitted event.
	clock.Advance(1 * time.Second)
	assert.True(t, cd.ShouldNotify(clock.Now()))
}

func TestCooldown_Reset(t *testing.T) {
	clock := newClock()
	cd := NewCooldown(0)
	assert.Equal(t, DefaultRateLimitCooldown, cd.Interval())

	require.True(t, cd.ShouldNotify(clock.Now()))
	require.False(t, cd.ShouldNotify(clock.Now()))
	cd.Reset()
	assert.True(t, cd.ShouldNotify(clock.Now()))
}

func TestCenter_RateLimitedWithinCooldownShowsOneToast(t *testing.T) {
	clock := newClock()
	c := NewCenter(WithClock(clock.Now), WithTTL(time.Minute))

	c.RateLimited()
	clock.Advance(4900 * time.Millisecond)
	c.RateLimited()

	toasts := c.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, LevelWarning, toasts[0].Level)
	assert.Equal(t, RateLimitMessage, toasts[0].Message)
}

func TestCenter_RateLimitedAfterCooldownShowsTwoToasts(t *testing.T) {
	clock := newClock()
	c := NewCenter(WithClock(clock.Now), WithTTL(time.Minute))

	c.RateLimited()
	clock.Advance(5100 * time.Millisecond)
	c.RateLimited()

	assert.Len(t, c.Active(), 2)
}

func TestCenter_ExpiresAndCaps(t *testing.T) {
	clock := newClock()
	c := NewCenter(WithClock(clock.Now), WithTTL(2*time.Second))

	for i := 0; i < 7; i++ {
		c.Info("hello")
	}
	toasts := c.Active()
	require.Len(t, toasts, defaultMaxToasts)
	assert.Equal(t, uint64(3), toasts[0].ID)

	clock.Advance(3 * time.Second)
	assert.Empty(t, c.Active())
}

func TestCenter_DismissAndClear(t *testing.T) {
	clock := newClock()
	c := NewCenter(WithClock(clock.Now))

	first := c.Error("failed")
	c.Success("saved")
	c.Dismiss(first)

	toasts := c.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, "saved", toasts[0].Message)
	assert.Equal(t, "success", toasts[0].Level.String())

	c.RateLimited()
	c.Clear()
	assert.Empty(t, c.Active())
	c.RateLimited()
	assert.Len(t, c.Active(), 1)
}
