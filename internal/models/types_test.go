package models

import (
	"testing"
	"time"
)

func TestParseTimeLayouts(t *testing.T) {
	if ParseTime("2026-02-13T10:11:12Z").IsZero() {
		t.Fatalf("ParseTime should parse RFC3339")
	}
	got := ParseTime("2026-02-13 10:11:12")
	if got.IsZero() {
		t.Fatalf("ParseTime should parse backend timestamp")
	}
	if got.Year() != 2026 || got.Month() != time.February || got.Day() != 13 {
		t.Fatalf("ParseTime = %v, want 2026-02-13", got)
	}
	if !ParseTime("yesterday").IsZero() || !ParseTime("").IsZero() {
		t.Fatalf("ParseTime should return zero time for unknown input")
	}
}

func TestUserIsModerator(t *testing.T) {
	for role, want := range map[string]bool{"admin": true, "moderator": true, "member": false, "": false} {
		if got := (User{Role: role}).IsModerator(); got != want {
			t.Fatalf("IsModerator(%q) = %v, want %v", role, got, want)
		}
	}
}
