package ui

import (
	"fmt"
	"time"

	"github.com/five82/haven/internal/models"
)

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h := int(d.Hours())
		if m := int(d.Minutes()) % 60; m > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// relativeTime renders a backend timestamp as "5m ago". Unparseable values
// are returned unchanged.
func relativeTime(ts string, now time.Time) string {
	t := models.ParseTime(ts)
	if t.IsZero() {
		return ts
	}
	d := now.Sub(t)
	if d < time.Second {
		return "just now"
	}
	return humanizeDuration(d) + " ago"
}
