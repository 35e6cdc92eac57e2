package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which side panels stack.
	LayoutCompactWidth = 100

	// LayoutSidebarWidth is the width of list panels beside a detail pane.
	LayoutSidebarWidth = 34
)

// Chrome occupies the header, command bar and toast line.
const chromeHeight = 3

// Log display limits.
const (
	// LogTailLines is how many lines of haven's log the logs view reads.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// RequestTimeout bounds a single UI-initiated operation on top of the
	// client's own request timeout.
	RequestTimeout = 45 * time.Second
)

// Paging limits for list views.
const (
	forumPageSize      = 20
	minArticlePageSize = 1
	maxArticlePageSize = 50
)
