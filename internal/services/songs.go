package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// SongService covers the relaxation music library and playlists.
type SongService struct {
	c *api.Client
}

// SongQuery filters the library.
type SongQuery struct {
	Genre  string
	Search string
}

// ListSongs returns the library, optionally filtered.
func (s *SongService) ListSongs(ctx context.Context, token string, query SongQuery) ([]models.Song, error) {
	opts := authed(token)
	opts.Params = api.Params{
		"genre":  strings.TrimSpace(query.Genre),
		"search": strings.TrimSpace(query.Search),
	}
	resp, err := api.Get[api.Response[[]models.Song]](ctx, s.c, "/songs", opts)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPlaylists returns the caller's playlists with songs.
func (s *SongService) ListPlaylists(ctx context.Context, token string) ([]models.Playlist, error) {
	resp, err := api.Get[api.Response[[]models.Playlist]](ctx, s.c, "/playlists", authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PlaylistInput is the new-playlist form.
type PlaylistInput struct {
	Name string `json:"name" validate:"required,max=80"`
}

// CreatePlaylist creates an empty playlist.
func (s *SongService) CreatePlaylist(ctx context.Context, token string, in PlaylistInput) (models.Playlist, error) {
	if err := validateInput(in); err != nil {
		return models.Playlist{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.Playlist]](ctx, s.c, "/playlists", opts)
	if err != nil {
		return models.Playlist{}, err
	}
	return resp.Data, nil
}

// AddToPlaylist appends a song and returns the updated playlist.
func (s *SongService) AddToPlaylist(ctx context.Context, token string, playlistID, songID int64) (models.Playlist, error) {
	opts := authed(token)
	opts.Body = map[string]int64{"song_id": songID}
	resp, err := api.Post[api.Response[models.Playlist]](ctx, s.c, fmt.Sprintf("/playlists/%d/songs", playlistID), opts)
	if err != nil {
		return models.Playlist{}, err
	}
	return resp.Data, nil
}

// RemoveFromPlaylist drops a song and returns the updated playlist.
func (s *SongService) RemoveFromPlaylist(ctx context.Context, token string, playlistID, songID int64) (models.Playlist, error) {
	resp, err := api.Delete[api.Response[models.Playlist]](ctx, s.c, fmt.Sprintf("/playlists/%d/songs/%d", playlistID, songID), authed(token))
	if err != nil {
		return models.Playlist{}, err
	}
	return resp.Data, nil
}

// DeletePlaylist removes a playlist.
func (s *SongService) DeletePlaylist(ctx context.Context, token string, playlistID int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/playlists/%d", playlistID), authed(token), nil)
}
