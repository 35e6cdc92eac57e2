package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

// musicRow is one selectable line of the Music view: a playlist header, or
// one of its songs when song >= 0.
type musicRow struct {
	playlist models.Playlist
	song     int
}

func musicRows(lists []models.Playlist) []musicRow {
	var rows []musicRow
	for _, pl := range lists {
		rows = append(rows, musicRow{playlist: pl, song: -1})
		for i := range pl.Songs {
			rows = append(rows, musicRow{playlist: pl, song: i})
		}
	}
	return rows
}

func (m Model) handleMusicKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := musicRows(m.c.Playlists.Lists())
	if m.moveCursor(msg, len(rows)) {
		return m, nil
	}

	if key.Matches(msg, m.keys.New) {
		m.modal = m.newPlaylistForm()
		return m, nil
	}
	if len(rows) == 0 {
		return m, nil
	}
	row := rows[clamp(m.cursor[ViewMusic], 0, len(rows)-1)]

	switch {
	case key.Matches(msg, m.keys.AddSong):
		m.modal = m.addSongForm(row.playlist)
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if row.song < 0 {
			return m, m.action(ViewMusic, func(ctx context.Context, c *state.Containers) error {
				return c.Playlists.Delete(ctx, row.playlist.ID)
			})
		}
		songID := row.playlist.Songs[row.song].ID
		return m, m.action(ViewMusic, func(ctx context.Context, c *state.Containers) error {
			return c.Playlists.RemoveSong(ctx, row.playlist.ID, songID)
		})
	}
	return m, nil
}

func (m Model) newPlaylistForm() *formModal {
	c := m.c
	var form *formModal
	form = newFormModal("New playlist", []formField{
		{label: "Name", limit: 80},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			if _, err := c.Playlists.Create(ctx, values[0]); err != nil {
				return formResultMsg{form: form, err: err}
			}
			return formResultMsg{form: form, next: func() tea.Msg { return actionMsg{view: ViewMusic} }}
		})
	})
	return form
}

// addSongForm searches the library and adds the first match that is not
// already on pl.
func (m Model) addSongForm(pl models.Playlist) *formModal {
	c := m.c
	var form *formModal
	form = newFormModal("Add to "+pl.Name, []formField{
		{label: "Song title or artist", limit: 100},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			songs, err := c.Playlists.Library(ctx, services.SongQuery{Search: values[0]})
			if err != nil {
				return formResultMsg{form: form, err: err}
			}
			song, ok := pickSong(songs, pl.Songs, values[0])
			if !ok {
				return formResultMsg{form: form, err: errors.Errorf("no song matching %q to add", values[0])}
			}
			if err := c.Playlists.AddSong(ctx, pl.ID, song); err != nil {
				return formResultMsg{form: form, err: err}
			}
			return formResultMsg{form: form, next: func() tea.Msg { return actionMsg{view: ViewMusic} }}
		})
	})
	return form
}

// pickSong returns the first library song whose title or artist contains
// search and that has not been added yet.
func pickSong(library, current []models.Song, search string) (models.Song, bool) {
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, s := range library {
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.Title), needle) &&
			!strings.Contains(strings.ToLower(s.Artist), needle) {
			continue
		}
		added := false
		for _, have := range current {
			if have.ID == s.ID {
				added = true
				break
			}
		}
		if !added {
			return s, true
		}
	}
	return models.Song{}, false
}

func (m Model) renderMusic() string {
	styles := m.theme.Styles()
	rows := musicRows(m.c.Playlists.Lists())
	w, _ := m.contentSize()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Playlists"))
	b.WriteString("\n\n")

	if !m.loaded[ViewMusic] {
		b.WriteString(styles.MutedText.Render("Loading playlists..."))
		return b.String()
	}
	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render("No playlists yet. Press n to create one."))
		return b.String()
	}

	for i, row := range rows {
		selected := i == m.cursor[ViewMusic]
		if row.song < 0 {
			line := truncate(row.playlist.Name, w-20)
			if selected {
				b.WriteString(styles.Selected.Render(padRight("› "+line, w-18)))
			} else {
				b.WriteString(styles.Text.Bold(true).Render("  " + line))
			}
			b.WriteString(styles.FaintText.Render("  " + plural(len(row.playlist.Songs), "song")))
			b.WriteString("\n")
			continue
		}
		s := row.playlist.Songs[row.song]
		line := "    " + truncate(fmt.Sprintf("%s - %s", s.Title, s.Artist), w-16)
		if selected {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		if s.DurationSeconds > 0 {
			b.WriteString(styles.FaintText.Render("  " + trackLength(s.DurationSeconds)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("n new playlist · s add song · d delete playlist or song"))
	return b.String()
}

func trackLength(seconds int) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), seconds%60)
}
