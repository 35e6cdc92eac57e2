package state

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/optimistic"
	"github.com/five82/haven/internal/services"
)

// Wellbeing caches mood check-ins, their summary and breathing sessions.
type Wellbeing struct {
	deps Deps

	mu        sync.RWMutex
	entries   []models.MoodEntry
	summary   models.MoodSummary
	breathing []models.BreathingSession
}

// NewWellbeing returns an empty container.
func NewWellbeing(deps Deps) *Wellbeing {
	return &Wellbeing{deps: deps}
}

// Load fetches entries and the weekly summary in parallel. Nothing is
// stored unless both succeed.
func (w *Wellbeing) Load(ctx context.Context) error {
	token := w.deps.token()
	var (
		entries []models.MoodEntry
		summary models.MoodSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = w.deps.Services.Mood.ListEntries(gctx, token, services.MoodQuery{Limit: 30})
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = w.deps.Services.Mood.Summary(gctx, token, 7)
		return err
	})
	if err := g.Wait(); err != nil {
		w.deps.observe(err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = clone(entries)
	w.summary = summary
	return nil
}

// Entries returns a copy of the cached check-ins.
func (w *Wellbeing) Entries() []models.MoodEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return clone(w.entries)
}

// Summary returns the cached summary.
func (w *Wellbeing) Summary() models.MoodSummary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.summary
}

// Breathing returns sessions completed since the last Reset.
func (w *Wellbeing) Breathing() []models.BreathingSession {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return clone(w.breathing)
}

// LogMood records a check-in and prepends it on success.
func (w *Wellbeing) LogMood(ctx context.Context, in services.MoodInput) (models.MoodEntry, error) {
	entry, err := w.deps.Services.Mood.LogMood(ctx, w.deps.token(), in)
	if err != nil {
		w.deps.observe(err)
		return models.MoodEntry{}, err
	}
	w.mu.Lock()
	w.entries = append([]models.MoodEntry{entry}, w.entries...)
	w.mu.Unlock()
	if w.deps.Toasts != nil {
		w.deps.Toasts.Success("Mood logged")
	}
	return entry, nil
}

// CompleteBreathing shows the session as completed immediately and swaps in
// the stored record once the server confirms.
func (w *Wellbeing) CompleteBreathing(ctx context.Context, in services.BreathingInput) error {
	var stored models.BreathingSession
	placeholder := models.BreathingSession{Pattern: in.Pattern, DurationSeconds: in.DurationSeconds, Completed: true}
	isPlaceholder := func(s models.BreathingSession) bool { return s == placeholder }
	err := w.deps.mutate(ctx, &w.mu, optimistic.Mutation{
		Label: "save breathing session",
		Apply: func() func() {
			return optimistic.Append(&w.breathing, placeholder, isPlaceholder)
		},
		Commit: func(ctx context.Context) error {
			var err error
			stored, err = w.deps.Services.Mood.CompleteBreathing(ctx, w.deps.token(), in)
			return err
		},
	})
	if err != nil {
		return err
	}
	w.mu.Lock()
	if i := slices.IndexFunc(w.breathing, isPlaceholder); i >= 0 {
		w.breathing[i] = stored
	}
	w.mu.Unlock()
	return nil
}

// Reset drops the cache.
func (w *Wellbeing) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = nil
	w.summary = models.MoodSummary{}
	w.breathing = nil
}
