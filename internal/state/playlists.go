package state

import (
	"context"
	"slices"
	"sync"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/optimistic"
	"github.com/five82/haven/internal/services"
)

// Playlists caches the caller's playlists.
type Playlists struct {
	deps Deps

	mu    sync.RWMutex
	lists []models.Playlist
}

// NewPlaylists returns an empty container.
func NewPlaylists(deps Deps) *Playlists {
	return &Playlists{deps: deps}
}

func clonePlaylists(lists []models.Playlist) []models.Playlist {
	out := clone(lists)
	for i := range out {
		out[i].Songs = clone(out[i].Songs)
	}
	return out
}

// Load replaces the cache.
func (p *Playlists) Load(ctx context.Context) error {
	lists, err := p.deps.Services.Songs.ListPlaylists(ctx, p.deps.token())
	if err != nil {
		p.deps.observe(err)
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists = clonePlaylists(lists)
	return nil
}

// Lists returns a deep copy of the cache.
func (p *Playlists) Lists() []models.Playlist {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return clonePlaylists(p.lists)
}

// Library lists songs that can be added to a playlist.
func (p *Playlists) Library(ctx context.Context, query services.SongQuery) ([]models.Song, error) {
	songs, err := p.deps.Services.Songs.ListSongs(ctx, p.deps.token(), query)
	if err != nil {
		p.deps.observe(err)
		return nil, err
	}
	return songs, nil
}

// Create adds an empty playlist on success.
func (p *Playlists) Create(ctx context.Context, name string) (models.Playlist, error) {
	pl, err := p.deps.Services.Songs.CreatePlaylist(ctx, p.deps.token(), services.PlaylistInput{Name: name})
	if err != nil {
		p.deps.observe(err)
		return models.Playlist{}, err
	}
	p.mu.Lock()
	p.lists = append(p.lists, pl)
	p.mu.Unlock()
	return pl, nil
}

// AddSong appends song to playlistID now and adopts the server's playlist
// once the write succeeds.
func (p *Playlists) AddSong(ctx context.Context, playlistID int64, song models.Song) error {
	var updated models.Playlist
	err := p.deps.mutate(ctx, &p.mu, optimistic.Mutation{
		Label: "add song",
		Apply: func() func() {
			return optimistic.Edit(&p.lists, playlistByID(playlistID),
				func(pl *models.Playlist) { pl.Songs = append(slices.Clip(pl.Songs), song) },
				func(pl *models.Playlist, _ models.Playlist) {
					if i := lastSong(pl.Songs, song.ID); i >= 0 {
						pl.Songs = slices.Delete(slices.Clone(pl.Songs), i, i+1)
					}
				})
		},
		Commit: func(ctx context.Context) error {
			var err error
			updated, err = p.deps.Services.Songs.AddToPlaylist(ctx, p.deps.token(), playlistID, song.ID)
			return err
		},
	})
	if err != nil {
		return err
	}
	p.replace(updated)
	return nil
}

// RemoveSong drops songID from playlistID before the server confirms.
func (p *Playlists) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	var updated models.Playlist
	err := p.deps.mutate(ctx, &p.mu, optimistic.Mutation{
		Label: "remove song",
		Apply: func() func() {
			return optimistic.Edit(&p.lists, playlistByID(playlistID),
				func(pl *models.Playlist) {
					pl.Songs = slices.DeleteFunc(slices.Clone(pl.Songs), songByID(songID))
				},
				func(pl *models.Playlist, before models.Playlist) {
					i := slices.IndexFunc(before.Songs, songByID(songID))
					if i < 0 || slices.ContainsFunc(pl.Songs, songByID(songID)) {
						return
					}
					pl.Songs = slices.Insert(slices.Clone(pl.Songs), min(i, len(pl.Songs)), before.Songs[i])
				})
		},
		Commit: func(ctx context.Context) error {
			var err error
			updated, err = p.deps.Services.Songs.RemoveFromPlaylist(ctx, p.deps.token(), playlistID, songID)
			return err
		},
	})
	if err != nil {
		return err
	}
	p.replace(updated)
	return nil
}

// Delete removes playlistID before the server confirms.
func (p *Playlists) Delete(ctx context.Context, playlistID int64) error {
	return p.deps.mutate(ctx, &p.mu, optimistic.Mutation{
		Label: "delete playlist",
		Apply: func() func() {
			return optimistic.Remove(&p.lists, playlistByID(playlistID))
		},
		Commit: func(ctx context.Context) error {
			return p.deps.Services.Songs.DeletePlaylist(ctx, p.deps.token(), playlistID)
		},
	})
}

func (p *Playlists) indexOf(id int64) int {
	return slices.IndexFunc(p.lists, playlistByID(id))
}

func playlistByID(id int64) func(models.Playlist) bool {
	return func(pl models.Playlist) bool { return pl.ID == id }
}

func songByID(id int64) func(models.Song) bool {
	return func(s models.Song) bool { return s.ID == id }
}

func lastSong(songs []models.Song, id int64) int {
	for i := len(songs) - 1; i >= 0; i-- {
		if songs[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Playlists) replace(pl models.Playlist) {
	if pl.ID == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(pl.ID); i >= 0 {
		p.lists[i] = pl
	}
}

// Reset drops the cache.
func (p *Playlists) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists = nil
}
