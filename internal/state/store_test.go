package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	d := &Dashboard{
		UnreadCount:   2,
		Notifications: []models.Notification{{ID: 1}, {ID: 2}},
		Mood:          models.MoodSummary{ByScore: map[string]int{"3": 1}},
	}

	before := time.Now()
	s.Update(d, nil)

	snap := s.Snapshot()
	if !snap.HasData || snap.UnreadCount != 2 {
		t.Fatalf("snapshot = %#v, want unread=2 HasData=true", snap)
	}
	if len(snap.Notifications) != 2 || snap.Notifications[0].ID != 1 {
		t.Fatalf("snapshot notifications = %#v, want 2 items", snap.Notifications)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Notifications[0].ID = 999
	snap.Mood.ByScore["3"] = 42
	d.Notifications[1].ID = 777
	snap2 := s.Snapshot()
	if snap2.Notifications[0].ID != 1 || snap2.Notifications[1].ID != 2 {
		t.Fatalf("Snapshot should clone notifications; got %#v", snap2.Notifications)
	}
	if snap2.Mood.ByScore["3"] != 1 {
		t.Fatalf("Snapshot should clone mood map; got %v", snap2.Mood.ByScore)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&Dashboard{UnreadCount: 1, Progress: models.UserProgress{Points: 50}}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.HasData != prev.HasData || snap.UnreadCount != prev.UnreadCount || snap.Progress != prev.Progress {
		t.Fatalf("dashboard changed on error: got %#v want %#v", snap.Dashboard, prev.Dashboard)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store: failures=%d offline=%v, want 0 false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.Update(nil, errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("IsOffline() = %v after %d failures, want %v", snap.IsOffline(), i+1, wantOffline)
		}
	}

	// Success resets counter
	s.Update(&Dashboard{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v, want 0 false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestSnapshot_Unauthorized(t *testing.T) {
	var s Store
	s.Update(nil, api.NewAPIError("expired", "UNAUTHORIZED", 401, nil, ""))
	if !s.Snapshot().Unauthorized() {
		t.Fatal("Unauthorized() = false, want true for a 401")
	}

	s.Update(nil, api.NewAPIError("busy", "", 503, nil, ""))
	if s.Snapshot().Unauthorized() {
		t.Fatal("Unauthorized() = true, want false for a 503")
	}
}

func TestStore_Reset(t *testing.T) {
	var s Store
	s.Update(&Dashboard{UnreadCount: 3}, nil)
	s.Reset()
	if snap := s.Snapshot(); snap.HasData || snap.UnreadCount != 0 {
		t.Fatalf("Reset left data behind: %#v", snap)
	}
}
