// Package logtail reads the tail of haven's own log file for the logs view.
//
// Read returns the last N lines of a file using a ring buffer, so memory is
// bounded by N rather than the file size. A missing file yields no lines and
// no error.
//
// Level extracts the slog level from a record written by either the JSON
// handler ("level":"WARN") or the text handler (level=WARN). Filter keeps the
// records at or above a minimum level; lines with no recognisable level are
// kept so multi-line output is not swallowed.
package logtail
