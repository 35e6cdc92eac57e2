package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/services"
)

// Dashboard is the data shown on the home view and refreshed by the poller.
type Dashboard struct {
	UnreadCount   int
	Notifications []models.Notification
	Progress      models.UserProgress
	Mood          models.MoodSummary
	Badges        []models.Badge
}

// Snapshot represents the latest dashboard data available to the UI.
type Snapshot struct {
	Dashboard
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Unauthorized reports whether the last refresh was rejected with a 401.
func (s Snapshot) Unauthorized() bool {
	var apiErr *api.APIError
	return s.LastError != nil && errors.As(s.LastError, &apiErr) && apiErr.IsUnauthorized()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored dashboard. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(d *Dashboard, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if d != nil {
		s.snapshot.Dashboard = cloneDashboard(*d)
		s.snapshot.HasData = true
	} else {
		s.snapshot.HasData = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Dashboard = cloneDashboard(s.snapshot.Dashboard)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Reset forgets everything, as on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

func cloneDashboard(d Dashboard) Dashboard {
	d.Notifications = clone(d.Notifications)
	d.Badges = clone(d.Badges)
	if d.Mood.ByScore != nil {
		byScore := make(map[string]int, len(d.Mood.ByScore))
		for k, v := range d.Mood.ByScore {
			byScore[k] = v
		}
		d.Mood.ByScore = byScore
	}
	return d
}

// FetchDashboard loads every dashboard section in parallel. The first
// failure cancels the rest and no partial dashboard is returned.
func FetchDashboard(ctx context.Context, svc *services.Set, token string) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := svc.Notifications.UnreadCount(gctx, token)
		d.UnreadCount = n
		return err
	})
	g.Go(func() error {
		page, err := svc.Notifications.List(gctx, token, services.NotificationQuery{PageQuery: services.PageQuery{Limit: 5}})
		d.Notifications = page.Data
		return err
	})
	g.Go(func() error {
		p, err := svc.Gamification.Progress(gctx, token)
		d.Progress = p
		return err
	})
	g.Go(func() error {
		m, err := svc.Mood.Summary(gctx, token, 7)
		d.Mood = m
		return err
	})
	g.Go(func() error {
		b, err := svc.Gamification.Badges(gctx, token)
		d.Badges = b
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
