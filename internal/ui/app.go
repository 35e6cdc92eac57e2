package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/haven/internal/config"
	"github.com/five82/haven/internal/notify"
	"github.com/five82/haven/internal/prefs"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewArticles
	ViewForum
	ViewJournals
	ViewChat
	ViewNotifications
	ViewWellbeing
	ViewMusic
	ViewLogs
)

var viewOrder = []View{
	ViewDashboard, ViewArticles, ViewForum, ViewJournals,
	ViewChat, ViewNotifications, ViewWellbeing, ViewMusic, ViewLogs,
}

// String returns the tab label.
func (v View) String() string {
	switch v {
	case ViewArticles:
		return "Articles"
	case ViewForum:
		return "Forum"
	case ViewJournals:
		return "Journals"
	case ViewChat:
		return "Chat"
	case ViewNotifications:
		return "Inbox"
	case ViewWellbeing:
		return "Wellbeing"
	case ViewMusic:
		return "Music"
	case ViewLogs:
		return "Logs"
	default:
		return "Home"
	}
}

// needsSession reports whether the view's data requires a signed-in user.
func (v View) needsSession() bool {
	return v != ViewDashboard && v != ViewArticles && v != ViewLogs
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Containers *state.Containers
	Toasts     *notify.Center
	Config     *config.Config
	PollTick   time.Duration
	Prefs      prefs.Prefs
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	c         *state.Containers
	svc       *services.Set
	session   *state.Session
	toasts    *notify.Center
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	cursor      map[View]int
	loaded      map[View]bool
	loadErr     map[View]string
	forumID     int64

	articles articleState
	logState logState

	modal    Modal
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	p := opts.Prefs
	if p == (prefs.Prefs{}) {
		p = prefs.Default()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	toasts := opts.Toasts
	if toasts == nil {
		toasts = notify.NewCenter()
	}

	m := Model{
		ctx:         ctx,
		c:           opts.Containers,
		toasts:      toasts,
		config:      opts.Config,
		prefs:       p,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(p.Theme),
		currentView: ViewDashboard,
		cursor:      make(map[View]int),
		loaded:      make(map[View]bool),
		loadErr:     make(map[View]string),
		forumID:     1,
		articles:    articleState{page: 1},
		logState:    logState{follow: true},
	}
	if opts.Containers != nil {
		m.svc = opts.Containers.Deps.Services
		m.session = opts.Containers.Deps.Session
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.c != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.c.Dashboard))
		if m.signedIn() {
			cmds = append(cmds, m.whoAmICmd())
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if !m.snapshot.LastUpdated.IsZero() {
			m.lastUpdated = m.snapshot.LastUpdated
		}
		return m, nil

	case loadedMsg:
		m.loaded[msg.view] = msg.err == nil
		m.loadErr[msg.view] = ""
		if msg.err != nil {
			m.loadErr[msg.view] = state.Message(msg.err)
		}
		m.clampCursor(msg.view)
		return m, nil

	case actionMsg:
		m.clampCursor(msg.view)
		return m, nil

	case articlesMsg:
		m.handleArticles(msg)
		return m, nil

	case articleMsg:
		m.handleArticle(msg)
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case userMsg:
		return m.handleUser(msg)

	case formResultMsg:
		if msg.err != nil {
			msg.form.fail(state.Message(msg.err))
			return m, nil
		}
		if m.modal == Modal(msg.form) {
			m.modal = nil
		}
		return m, msg.next
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.logState.render(m.theme)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.offsetView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.offsetView(-1))

	case key.Matches(msg, m.keys.Views):
		idx := int(msg.String()[0] - '1')
		return m.switchView(viewOrder[idx])

	case key.Matches(msg, m.keys.Session):
		if m.signedIn() || (m.session != nil && m.session.Expired()) {
			return m, m.logoutCmd()
		}
		m.modal = m.loginForm()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCmd(m.currentView)

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewArticles && m.articles.reading {
			m.articles.reading = false
			return m, nil
		}
		m.currentView = ViewDashboard
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		return m, nil
	case ViewArticles:
		return m.handleArticlesKey(msg)
	case ViewForum:
		return m.handleForumKey(msg)
	case ViewJournals:
		return m.handleJournalsKey(msg)
	case ViewChat:
		return m.handleChatKey(msg)
	case ViewNotifications:
		return m.handleNotificationsKey(msg)
	case ViewWellbeing:
		return m.handleWellbeingKey(msg)
	case ViewMusic:
		return m.handleMusicKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) offsetView(delta int) View {
	n := len(viewOrder)
	return viewOrder[((int(m.currentView)+delta)%n+n)%n]
}

// switchView activates v and loads its data the first time it is shown.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, m.refreshLogs()
	}
	if m.loaded[v] {
		return m, nil
	}
	return m, m.reloadCmd(v)
}

// moveCursor applies list navigation keys to the current view's cursor.
// It reports whether msg was a navigation key.
func (m *Model) moveCursor(msg tea.KeyMsg, count int) bool {
	cur := m.cursor[m.currentView]
	switch {
	case key.Matches(msg, m.keys.Up):
		cur--
	case key.Matches(msg, m.keys.Down):
		cur++
	case key.Matches(msg, m.keys.Top):
		cur = 0
	case key.Matches(msg, m.keys.Bottom):
		cur = count - 1
	case key.Matches(msg, m.keys.PageUp):
		cur -= 10
	case key.Matches(msg, m.keys.PageDown):
		cur += 10
	default:
		return false
	}
	m.cursor[m.currentView] = clamp(cur, 0, count-1)
	return true
}

func (m *Model) clampCursor(v View) {
	m.cursor[v] = clamp(m.cursor[v], 0, m.itemCount(v)-1)
}

// itemCount returns the number of selectable rows in view v.
func (m Model) itemCount(v View) int {
	if m.c == nil {
		return 0
	}
	switch v {
	case ViewArticles:
		return len(m.articles.list.Data)
	case ViewForum:
		return len(m.c.Forum.Posts())
	case ViewJournals:
		return len(m.c.Journals.Entries())
	case ViewChat:
		return len(m.c.Chat.Sessions())
	case ViewNotifications:
		return len(m.c.Notifications.Items())
	case ViewWellbeing:
		return len(m.c.Wellbeing.Entries())
	case ViewMusic:
		return len(musicRows(m.c.Playlists.Lists()))
	}
	return 0
}

func (m Model) signedIn() bool {
	return m.session != nil && m.session.SignedIn()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil && m.c != nil && m.c.Deps.Logger != nil {
		m.c.Deps.Logger.Warn("save prefs failed", "error", err)
	}
}

func (m *Model) resizeViewports() {
	w, h := m.contentSize()
	if m.articles.reader.Width == 0 {
		m.articles.reader = viewport.New(w, h)
	}
	m.articles.reader.Width = w
	m.articles.reader.Height = h
	if m.logState.viewport.Width == 0 {
		m.logState.viewport = viewport.New(w, h)
	}
	m.logState.viewport.Width = w
	m.logState.viewport.Height = h - 1 // title line
	m.logState.render(m.theme)
}

// contentSize returns the inner size of the main panel.
func (m Model) contentSize() (int, int) {
	w := m.width - 4
	h := m.height - chromeHeight - 2
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.c != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.c.Dashboard))
	}

	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, m.refreshLogs())
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderToasts())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	if m.currentView.needsSession() && !m.signedIn() {
		return m.panel(m.renderSignedOut())
	}
	if msg := m.loadErr[m.currentView]; msg != "" {
		styles := m.theme.Styles()
		return m.panel(styles.DangerText.Render("Could not load "+strings.ToLower(m.currentView.String())+": "+msg) +
			"\n" + styles.FaintText.Render("press r to retry"))
	}

	switch m.currentView {
	case ViewArticles:
		return m.renderArticles()
	case ViewForum:
		return m.panel(m.renderForum())
	case ViewJournals:
		return m.panel(m.renderJournals())
	case ViewChat:
		return m.renderChat()
	case ViewNotifications:
		return m.panel(m.renderNotifications())
	case ViewWellbeing:
		return m.panel(m.renderWellbeing())
	case ViewMusic:
		return m.panel(m.renderMusic())
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.panel(m.renderDashboard())
	}
}

// panel wraps content in the focused panel style sized to the content area.
func (m Model) panel(content string) string {
	w, h := m.contentSize()
	return m.theme.Styles().FocusPanel.Width(w + 2).Height(h).Render(content)
}

func (m Model) renderSignedOut() string {
	styles := m.theme.Styles()
	if m.session != nil && m.session.Expired() {
		return styles.WarningText.Render("Your session has expired.") + "\n" +
			styles.MutedText.Render("Press L to sign in again.")
	}
	return styles.MutedText.Render("Sign in to see your " + strings.ToLower(m.currentView.String()) + ".") + "\n" +
		styles.FaintText.Render("Press L to sign in.")
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// loadedMsg reports that a view's container finished loading.
type loadedMsg struct {
	view View
	err  error
}

// actionMsg reports a finished mutation. Failures were already toasted.
type actionMsg struct {
	view View
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancelled by a signal; not a failure.
		return nil
	}
	return err
}
