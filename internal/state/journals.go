package state

import (
	"context"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/optimistic"
	"github.com/five82/haven/internal/services"
)

// Journals caches the caller's journal entries, newest first.
type Journals struct {
	deps Deps

	mu      sync.RWMutex
	entries []models.Journal
}

// NewJournals returns an empty container.
func NewJournals(deps Deps) *Journals {
	return &Journals{deps: deps}
}

// Load replaces the cache with the server list.
func (j *Journals) Load(ctx context.Context) error {
	entries, err := j.deps.Services.Community.ListJournals(ctx, j.deps.token())
	if err != nil {
		j.deps.observe(err)
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = clone(entries)
	return nil
}

// Entries returns a copy of the cache.
func (j *Journals) Entries() []models.Journal {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return clone(j.entries)
}

func (j *Journals) indexOf(id int64) int {
	return slices.IndexFunc(j.entries, journalByID(id))
}

func journalByID(id int64) func(models.Journal) bool {
	return func(e models.Journal) bool { return e.ID == id }
}

// SetAIShare toggles whether the companion may read entry id.
func (j *Journals) SetAIShare(ctx context.Context, id int64, share bool) error {
	j.mu.RLock()
	found := j.indexOf(id) >= 0
	j.mu.RUnlock()
	if !found {
		return errors.Errorf("journal %d is not loaded", id)
	}
	return j.deps.mutate(ctx, &j.mu, optimistic.Mutation{
		Label: "update AI sharing",
		Apply: func() func() {
			return optimistic.Edit(&j.entries, journalByID(id),
				func(e *models.Journal) { e.ShareWithAI = share },
				func(e *models.Journal, before models.Journal) { e.ShareWithAI = before.ShareWithAI })
		},
		Commit: func(ctx context.Context) error {
			return j.deps.Services.Community.SetAIShare(ctx, j.deps.token(), id, share)
		},
	})
}

// Create stores a new entry and prepends it on success.
func (j *Journals) Create(ctx context.Context, in services.JournalInput) (models.Journal, error) {
	entry, err := j.deps.Services.Community.CreateJournal(ctx, j.deps.token(), in)
	if err != nil {
		j.deps.observe(err)
		return models.Journal{}, err
	}
	j.mu.Lock()
	j.entries = append([]models.Journal{entry}, j.entries...)
	j.mu.Unlock()
	return entry, nil
}

// Update replaces entry id on success.
func (j *Journals) Update(ctx context.Context, id int64, in services.JournalInput) (models.Journal, error) {
	entry, err := j.deps.Services.Community.UpdateJournal(ctx, j.deps.token(), id, in)
	if err != nil {
		j.deps.observe(err)
		return models.Journal{}, err
	}
	j.mu.Lock()
	if i := j.indexOf(id); i >= 0 {
		j.entries[i] = entry
	}
	j.mu.Unlock()
	return entry, nil
}

// Delete removes entry id locally before the server confirms.
func (j *Journals) Delete(ctx context.Context, id int64) error {
	return j.deps.mutate(ctx, &j.mu, optimistic.Mutation{
		Label: "delete journal",
		Apply: func() func() {
			return optimistic.Remove(&j.entries, journalByID(id))
		},
		Commit: func(ctx context.Context) error {
			return j.deps.Services.Community.DeleteJournal(ctx, j.deps.token(), id)
		},
	})
}

// Reset drops the cache.
func (j *Journals) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}
