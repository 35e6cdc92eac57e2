// Package optimistic applies local state changes ahead of the server write
// that makes them durable, and undoes them when that write fails.
package optimistic

import (
	"context"
	"log/slog"
	"slices"

	"github.com/pkg/errors"
)

// Mutation describes one optimistic change.
//
// Apply mutates local state and returns the closure that restores it. The
// closure must restore everything Apply touched and nothing else, since other
// mutations may have landed in between. Commit performs the server
// write. Reconcile, when set, runs after a successful Commit to refresh
// derived values from the server.
type Mutation struct {
	Label     string
	Apply     func() (rollback func())
	Commit    func(ctx context.Context) error
	Reconcile func(ctx context.Context) error
}

// Perform runs m. On Commit failure the rollback runs and the error is
// returned wrapped with m.Label. Reconcile failures are logged and leave the
// optimistic state in place.
func Perform(ctx context.Context, logger *slog.Logger, m Mutation) error {
	if m.Apply == nil || m.Commit == nil {
		return errors.Errorf("optimistic %q: Apply and Commit are required", m.Label)
	}
	rollback := m.Apply()

	if err := m.Commit(ctx); err != nil {
		if rollback != nil {
			rollback()
		}
		if logger != nil {
			logger.Warn("optimistic update rolled back", "mutation", m.Label, "error", err)
		}
		return errors.Wrap(err, m.Label)
	}

	if m.Reconcile != nil {
		if err := m.Reconcile(ctx); err != nil && logger != nil {
			logger.Warn("reconcile after optimistic update failed", "mutation", m.Label, "error", err)
		}
	}
	return nil
}

// Edit applies change to the first element of *items that match selects and
// returns the rollback. The rollback finds the element again and hands it to
// undo together with its value before change, so undo restores only the
// fields this edit touched. Edit returns nil when nothing matches.
func Edit[T any](items *[]T, match func(T) bool, change func(*T), undo func(cur *T, before T)) func() {
	i := slices.IndexFunc(*items, match)
	if i < 0 {
		return nil
	}
	before := (*items)[i]
	change(&(*items)[i])
	return func() {
		if j := slices.IndexFunc(*items, match); j >= 0 {
			undo(&(*items)[j], before)
		}
	}
}

// Remove deletes the first element of *items that match selects and returns
// the rollback that reinserts it at its old position, or at the end when the
// slice has since shrunk. The rollback does nothing if a matching element is
// back by then. Remove returns nil when nothing matches.
func Remove[T any](items *[]T, match func(T) bool) func() {
	i := slices.IndexFunc(*items, match)
	if i < 0 {
		return nil
	}
	removed := (*items)[i]
	*items = append(append([]T(nil), (*items)[:i]...), (*items)[i+1:]...)
	return func() {
		if slices.ContainsFunc(*items, match) {
			return
		}
		*items = slices.Insert(slices.Clone(*items), min(i, len(*items)), removed)
	}
}

// Append adds item to the end of *items and returns the rollback that removes
// the last element matching match.
func Append[T any](items *[]T, item T, match func(T) bool) func() {
	*items = append(slices.Clip(*items), item)
	return func() {
		for i := len(*items) - 1; i >= 0; i-- {
			if match((*items)[i]) {
				*items = append(append([]T(nil), (*items)[:i]...), (*items)[i+1:]...)
				return
			}
		}
	}
}

// Join combines rollbacks into one that runs them in reverse order. Nil
// entries are skipped.
func Join(rollbacks ...func()) func() {
	return func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			if rollbacks[i] != nil {
				rollbacks[i]()
			}
		}
	}
}
