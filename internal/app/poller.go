package app

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/logging"
	"github.com/five82/haven/internal/state"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// StartPoller launches a background goroutine that refreshes the dashboard
// while a session is signed in. It returns immediately.
func StartPoller(ctx context.Context, c *state.Containers, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			_ = refresh(ctx, c)
			timer.Reset(calculateBackoff(c.Dashboard.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// refresh fetches the dashboard once. Polling is skipped while signed out or
// after the session has expired.
func refresh(ctx context.Context, c *state.Containers) error {
	session := c.Deps.Session
	if session == nil || !session.SignedIn() {
		return nil
	}

	logger := c.Deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	d, err := state.FetchDashboard(ctx, c.Deps.Services, session.Token())
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			session.MarkExpired()
		}
		c.Dashboard.Update(nil, err)
		logger.Warn("dashboard poll failed", "error", err,
			"failures", c.Dashboard.Snapshot().ConsecutiveFailures)
		return err
	}
	c.Dashboard.Update(d, nil)
	return nil
}
