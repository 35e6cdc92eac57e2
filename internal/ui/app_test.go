package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/apitest"
	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/notify"
	"github.com/five82/haven/internal/prefs"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

type harness struct {
	backend   *apitest.Backend
	toasts    *notify.Center
	c         *state.Containers
	prefsPath string
}

// newTestModel builds a sized model against the fake backend. An empty
// token starts signed out.
func newTestModel(t *testing.T, token string) (Model, harness) {
	t.Helper()
	backend := apitest.New(t)
	client, err := api.NewClient(backend.URL())
	require.NoError(t, err)
	toasts := notify.NewCenter()
	c := state.NewContainers(state.Deps{
		Services: services.New(client),
		Session:  state.NewSession(token),
		Toasts:   toasts,
	})
	h := harness{
		backend:   backend,
		toasts:    toasts,
		c:         c,
		prefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}
	m := New(Options{Containers: c, Toasts: toasts, PrefsPath: h.prefsPath})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}, nil)
	return m, h
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the model and the command it produced.
func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// step delivers msg and, when cmdOut is non-nil, stores the follow-up command.
func step(t *testing.T, m Model, msg tea.Msg, cmdOut *tea.Cmd) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	if cmdOut != nil {
		*cmdOut = cmd
	}
	return model
}

// settle runs cmd and feeds its message back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	var next tea.Cmd
	m = step(t, m, cmd(), &next)
	return m, next
}

func typeInto(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

func TestViewSwitchingLoadsOnFirstShow(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)

	m, cmd := press(t, m, runes("3"))
	assert.Equal(t, ViewForum, m.currentView)
	m, _ = settle(t, m, cmd)
	assert.True(t, m.loaded[ViewForum])
	assert.Len(t, h.c.Forum.Posts(), 3)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewJournals, m.currentView)
	require.NotNil(t, cmd)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewForum, m.currentView)
	assert.Nil(t, cmd, "loaded views are not refetched on switch")
	assert.Equal(t, 1, h.backend.Calls("GET", "/forums/1/posts"))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewDashboard, m.currentView)
}

func TestOffsetViewWraps(t *testing.T) {
	m, _ := newTestModel(t, "")
	assert.Equal(t, ViewLogs, m.offsetView(-1))
	m.currentView = ViewLogs
	assert.Equal(t, ViewDashboard, m.offsetView(1))
}

func TestHelpClosesOnAnyKey(t *testing.T) {
	m, _ := newTestModel(t, "")
	m, _ = press(t, m, runes("?"))
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = press(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestCycleThemePersistsPrefs(t *testing.T) {
	m, h := newTestModel(t, "")
	start := m.theme.Name

	m, _ = press(t, m, runes("T"))
	assert.Equal(t, NextTheme(start), m.theme.Name)

	saved, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, m.theme.Name, saved.Theme)
}

func TestSignedOutViewPromptsForLogin(t *testing.T) {
	m, h := newTestModel(t, "")

	m, cmd := press(t, m, runes("3"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Sign in to see your forum")
	assert.Zero(t, h.backend.Calls("GET", "/forums/1/posts"))
}

func TestLoginFormShowsErrorThenSignsIn(t *testing.T) {
	m, h := newTestModel(t, "")

	m, _ = press(t, m, runes("L"))
	form, ok := m.modal.(*formModal)
	require.True(t, ok)

	m = typeInto(t, m, "river@example.com")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, form.focus)

	m = typeInto(t, m, "wrong")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, form.pending)

	m, _ = settle(t, m, cmd)
	require.NotNil(t, m.modal, "a failed sign-in keeps the form open")
	assert.False(t, form.pending)
	assert.Equal(t, "Email or password is incorrect", form.err)
	assert.False(t, h.c.Deps.Session.SignedIn())

	form.inputs[1].SetValue("correct-horse")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, next := settle(t, m, cmd)
	assert.Nil(t, m.modal)
	assert.True(t, h.c.Deps.Session.SignedIn())
	assert.Equal(t, apitest.Token, h.c.Deps.Session.Token())

	m, next = settle(t, m, next)
	assert.NotNil(t, next, "signing in reloads the current view")

	active := h.toasts.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, "Welcome back, River", active[len(active)-1].Message)
	_ = m
}

func TestFormEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t, "")
	m, _ = press(t, m, runes("L"))
	require.NotNil(t, m.modal)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.modal)
	assert.Equal(t, ViewDashboard, m.currentView)
}

func TestForumLikeTogglesSelectedPost(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)
	m, cmd := press(t, m, runes("3"))
	m, _ = settle(t, m, cmd)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor[ViewForum])

	m, cmd = press(t, m, runes(" "))
	m, _ = settle(t, m, cmd)

	post := h.c.Forum.Posts()[1]
	assert.Equal(t, int64(2), post.ID)
	assert.True(t, post.IsLiked)
	assert.Equal(t, 4, post.LikesCount)
	assert.Equal(t, 1, h.backend.Calls("POST", "/posts/2/like"))
	assert.Empty(t, h.toasts.Active())
}

func TestBestAnswerRejectsQuestions(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)
	m, cmd := press(t, m, runes("3"))
	m, _ = settle(t, m, cmd)

	_, cmd = press(t, m, runes("b"))
	assert.Nil(t, cmd)
	active := h.toasts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelInfo, active[0].Level)
}

func TestArticlesPagingAndFilterPersist(t *testing.T) {
	m, h := newTestModel(t, "")

	m, cmd := press(t, m, runes("2"))
	require.NotNil(t, cmd, "articles load without a session")
	m, _ = settle(t, m, cmd)
	assert.Len(t, m.articles.list.Data, prefs.Default().ArticlePageSize)
	assert.Len(t, m.articles.categories, 2)
	assert.True(t, m.articles.list.HasMore())

	m, cmd = press(t, m, runes("]"))
	m, _ = settle(t, m, cmd)
	assert.Equal(t, 2, m.articles.page)
	assert.Len(t, m.articles.list.Data, 3)

	m, cmd = press(t, m, runes("c"))
	assert.Equal(t, 1, m.articles.page)
	m, _ = settle(t, m, cmd)
	assert.Len(t, m.articles.list.Data, 4)
	for _, a := range m.articles.list.Data {
		assert.Equal(t, int64(1), a.CategoryID)
	}
	assert.Contains(t, m.View(), "Anxiety")

	m, cmd = press(t, m, runes("-"))
	require.NotNil(t, cmd)

	saved, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ArticleCategory)
	assert.Equal(t, prefs.Default().ArticlePageSize-1, saved.ArticlePageSize)
}

func TestArticlesLoadErrorShowsRetry(t *testing.T) {
	m, h := newTestModel(t, "")
	h.backend.Fail("GET", "/articles", apitest.Failure{Status: 503, Code: "UNAVAILABLE", Message: "maintenance"})

	m, cmd := press(t, m, runes("2"))
	m, _ = settle(t, m, cmd)
	assert.Equal(t, "maintenance", m.loadErr[ViewArticles])
	assert.Contains(t, m.View(), "press r to retry")
}

func TestHeaderShowsDashboardCounters(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)
	m, _ = settle(t, m, m.refreshDashboardCmd())

	header := m.renderHeader()
	assert.Contains(t, header, "1 unread")
	assert.Contains(t, header, "Lv 2")
	assert.Contains(t, header, "120 pts")

	h.c.Deps.Session.MarkExpired()
	assert.Contains(t, m.renderHeader(), "SESSION EXPIRED")
}

func TestMusicViewEditsPlaylists(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)

	m, cmd := press(t, m, runes("8"))
	assert.Equal(t, ViewMusic, m.currentView)
	m, _ = settle(t, m, cmd)
	assert.Contains(t, m.View(), "Sleep")
	assert.Equal(t, 2, m.itemCount(ViewMusic), "playlist header plus one song")

	m, _ = press(t, m, runes("s"))
	form, ok := m.modal.(*formModal)
	require.True(t, ok)
	m = typeInto(t, m, "rain")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = settle(t, m, cmd)
	require.NotNil(t, m.modal, "songs already on the playlist are not added twice")
	assert.Contains(t, form.err, "no song matching")

	form.inputs[0].SetValue("ocean")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, next := settle(t, m, cmd)
	assert.Nil(t, m.modal)
	m, _ = settle(t, m, next)

	songs := h.c.Playlists.Lists()[0].Songs
	require.Len(t, songs, 2)
	assert.Equal(t, "Ocean Drift", songs[1].Title)
	assert.Equal(t, 1, h.backend.Calls("POST", "/playlists/1/songs"))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd = press(t, m, runes("d"))
	m, _ = settle(t, m, cmd)
	songs = h.c.Playlists.Lists()[0].Songs
	require.Len(t, songs, 1)
	assert.Equal(t, "Rainfall", songs[0].Title)
	assert.Equal(t, 1, h.backend.Calls("DELETE", "/playlists/1/songs/2"))
	assert.Empty(t, h.toasts.Active())
}

func TestForumBlockTogglesAuthor(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)
	m, cmd := press(t, m, runes("3"))
	m, _ = settle(t, m, cmd)
	require.Len(t, h.c.Blocked.Users(), 1)

	m, cmd = press(t, m, runes("X"))
	m, _ = settle(t, m, cmd)
	assert.True(t, h.c.Blocked.IsBlocked(1))
	assert.Equal(t, 1, h.backend.Calls("POST", "/users/1/block"))
	assert.Contains(t, m.View(), "hidden: you blocked this author")

	m, cmd = press(t, m, runes("X"))
	m, _ = settle(t, m, cmd)
	assert.False(t, h.c.Blocked.IsBlocked(1))
	assert.Equal(t, 1, h.backend.Calls("DELETE", "/users/1/block"))
	assert.NotContains(t, m.View(), "hidden: you blocked this author")
}

func TestForumReportSendsPostReport(t *testing.T) {
	m, h := newTestModel(t, apitest.Token)
	m, cmd := press(t, m, runes("3"))
	m, _ = settle(t, m, cmd)

	m, _ = press(t, m, runes("R"))
	form, ok := m.modal.(*formModal)
	require.True(t, ok)
	form.inputs[0].SetValue("rudeness")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeInto(t, m, "link spam")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = settle(t, m, cmd)
	require.NotNil(t, m.modal, "unknown reasons are rejected before sending")
	assert.NotEmpty(t, form.err)
	assert.Zero(t, h.backend.Calls("POST", "/moderation/reports"))

	form.inputs[0].SetValue("Spam")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = settle(t, m, cmd)
	assert.Nil(t, m.modal)
	h.backend.Lock()
	reports := append([]models.Report(nil), h.backend.Reports...)
	h.backend.Unlock()
	require.Len(t, reports, 1)
	report := reports[0]
	assert.Equal(t, "post", report.TargetType)
	assert.Equal(t, int64(1), report.TargetID)
	assert.Equal(t, "spam", report.Reason)
	assert.Equal(t, "link spam", report.Details)
}
