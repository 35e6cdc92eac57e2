package state

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/optimistic"
	"github.com/five82/haven/internal/services"
)

// Toaster shows transient notifications. *notify.Center satisfies it.
type Toaster interface {
	Success(message string) uint64
	Error(message string) uint64
}

// Deps are shared by every container.
type Deps struct {
	Services *services.Set
	Session  *Session
	Toasts   Toaster
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}

func (d Deps) token() string {
	if d.Session == nil {
		return ""
	}
	return d.Session.Token()
}

// observe flags an expired session when err is a 401.
func (d Deps) observe(err error) {
	var apiErr *api.APIError
	if d.Session != nil && errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		d.Session.MarkExpired()
	}
}

// fail records err and shows it as an error toast prefixed with what.
func (d Deps) fail(what string, err error) error {
	d.observe(err)
	if d.Toasts != nil {
		d.Toasts.Error(fmt.Sprintf("%s: %s", what, Message(err)))
	}
	return err
}

// mutate runs an optimistic mutation whose local half is guarded by mu.
// Failures are toasted with label.
func (d Deps) mutate(ctx context.Context, mu *sync.RWMutex, m optimistic.Mutation) error {
	apply := m.Apply
	m.Apply = func() func() {
		mu.Lock()
		undo := apply()
		mu.Unlock()
		return func() {
			mu.Lock()
			defer mu.Unlock()
			if undo != nil {
				undo()
			}
		}
	}
	if err := optimistic.Perform(ctx, d.logger(), m); err != nil {
		return d.fail("Could not "+m.Label, err)
	}
	return nil
}

// Message returns the text to show a user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	var inErr *services.InputError
	if errors.As(err, &inErr) {
		return inErr.Message
	}
	return err.Error()
}

func clone[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return slices.Clone(items)
}
