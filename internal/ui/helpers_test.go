package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours_only", 2*60*60 + 10, "2h"},
		{"hours_minutes", 2*60*60 + 3*60, "2h 3m"},
		{"days", 24 * 60 * 60, "1d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(timeSeconds(tc.in))
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := relativeTime("2026-03-01T11:55:00Z", now); got != "5m ago" {
		t.Fatalf("relativeTime = %q, want 5m ago", got)
	}
	if got := relativeTime("2026-03-01T12:00:00Z", now); got != "just now" {
		t.Fatalf("relativeTime = %q, want just now", got)
	}
	if got := relativeTime("yesterday", now); got != "yesterday" {
		t.Fatalf("relativeTime unparseable = %q, want input back", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/home/river/.local/state/haven/haven.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("got %q (%d runes), want 20", got, len([]rune(got)))
	}
	if got[len(got)-4:] != ".log" {
		t.Fatalf("got %q, want the tail kept", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("truncate = %q, want hello", got)
	}
	if got := truncate("breathing exercise", 9); got != "breath..." {
		t.Fatalf("truncate = %q, want breath...", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate limit 0 = %q, want abc", got)
	}
}

func TestClampAndPlural(t *testing.T) {
	if got := clamp(5, 0, 3); got != 3 {
		t.Fatalf("clamp high = %d", got)
	}
	if got := clamp(-1, 0, 3); got != 0 {
		t.Fatalf("clamp low = %d", got)
	}
	if got := clamp(2, 0, -1); got != 0 {
		t.Fatalf("clamp empty range = %d, want 0", got)
	}
	if got := plural(1, "badge"); got != "1 badge" {
		t.Fatalf("plural(1) = %q", got)
	}
	if got := plural(3, "badge"); got != "3 badges" {
		t.Fatalf("plural(3) = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := singleLine("one\n two\t\tthree "); got != "one two three" {
		t.Fatalf("singleLine = %q", got)
	}
}

func timeSeconds(sec int64) time.Duration {
	return time.Duration(sec) * time.Second
}
