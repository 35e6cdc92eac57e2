package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

// userMsg reports a change of signed-in user.
type userMsg struct {
	user     models.User
	signedIn bool
	changed  bool // a different session started or ended
}

// run wraps fn in a command bounded by RequestTimeout.
func (m Model) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RequestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

// reloadCmd fetches the data shown by view v.
func (m Model) reloadCmd(v View) tea.Cmd {
	if m.c == nil {
		return nil
	}
	if v == ViewLogs {
		return m.refreshLogs()
	}
	if v == ViewArticles {
		return m.fetchArticlesCmd()
	}
	if !m.signedIn() {
		return nil
	}

	c := m.c
	switch v {
	case ViewDashboard:
		return m.refreshDashboardCmd()
	case ViewForum:
		forumID := m.forumID
		return m.run(func(ctx context.Context) tea.Msg {
			err := c.Forum.Load(ctx, forumID, services.PostQuery{PageQuery: services.PageQuery{Limit: forumPageSize}})
			if err == nil {
				// Posts still render when the block list is unavailable.
				_ = c.Blocked.Load(ctx)
			}
			return loadedMsg{view: v, err: err}
		})
	case ViewJournals:
		return m.run(func(ctx context.Context) tea.Msg {
			return loadedMsg{view: v, err: c.Journals.Load(ctx)}
		})
	case ViewChat:
		return m.run(func(ctx context.Context) tea.Msg {
			if err := c.Chat.LoadSessions(ctx); err != nil {
				return loadedMsg{view: v, err: err}
			}
			if sessions := c.Chat.Sessions(); c.Chat.Active() == 0 && len(sessions) > 0 {
				return loadedMsg{view: v, err: c.Chat.Open(ctx, sessions[0].ID)}
			}
			return loadedMsg{view: v}
		})
	case ViewNotifications:
		return m.run(func(ctx context.Context) tea.Msg {
			return loadedMsg{view: v, err: c.Notifications.Load(ctx)}
		})
	case ViewWellbeing:
		return m.run(func(ctx context.Context) tea.Msg {
			return loadedMsg{view: v, err: c.Wellbeing.Load(ctx)}
		})
	case ViewMusic:
		return m.run(func(ctx context.Context) tea.Msg {
			return loadedMsg{view: v, err: c.Playlists.Load(ctx)}
		})
	}
	return nil
}

// refreshDashboardCmd refreshes the dashboard outside the poller cadence,
// as right after signing in.
func (m Model) refreshDashboardCmd() tea.Cmd {
	c, session := m.c, m.session
	return m.run(func(ctx context.Context) tea.Msg {
		d, err := state.FetchDashboard(ctx, c.Deps.Services, session.Token())
		expireOn(session, err)
		c.Dashboard.Update(d, err)
		return snapshotMsg(c.Dashboard.Snapshot())
	})
}

// action runs a container mutation and reports back to view v.
func (m Model) action(v View, fn func(ctx context.Context, c *state.Containers) error) tea.Cmd {
	c := m.c
	return m.run(func(ctx context.Context) tea.Msg {
		return actionMsg{view: v, err: fn(ctx, c)}
	})
}

func (m Model) whoAmICmd() tea.Cmd {
	svc, session := m.svc, m.session
	return m.run(func(ctx context.Context) tea.Msg {
		u, err := svc.Auth.Me(ctx, session.Token())
		if err != nil {
			expireOn(session, err)
			return userMsg{signedIn: session.SignedIn()}
		}
		session.SetUser(u)
		return userMsg{user: u, signedIn: true}
	})
}

// loginForm builds the sign-in modal. Errors are shown inline.
func (m Model) loginForm() *formModal {
	svc, session, c, toasts := m.svc, m.session, m.c, m.toasts
	var form *formModal
	form = newFormModal("Sign in to haven", []formField{
		{label: "Email", placeholder: "you@example.com", limit: 254},
		{label: "Password", secret: true, limit: 128},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			auth, err := svc.Auth.Login(ctx, services.LoginInput{Email: values[0], Password: values[1]})
			if err != nil {
				return formResultMsg{form: form, err: err}
			}
			c.Reset()
			session.Set(auth)
			toasts.Success("Welcome back, " + displayName(auth.User))
			next := func() tea.Msg { return userMsg{user: auth.User, signedIn: true, changed: true} }
			return formResultMsg{form: form, next: next}
		})
	})
	return form
}

func (m Model) logoutCmd() tea.Cmd {
	svc, session, c, toasts := m.svc, m.session, m.c, m.toasts
	logger := c.Deps.Logger
	return m.run(func(ctx context.Context) tea.Msg {
		if session.SignedIn() {
			if err := svc.Auth.Logout(ctx, session.Token()); err != nil && logger != nil {
				logger.Warn("logout failed", "error", err)
			}
		}
		session.Clear()
		c.Reset()
		toasts.Info("Signed out")
		return userMsg{changed: true}
	})
}

// handleUser reacts to sign-in state changes.
func (m Model) handleUser(msg userMsg) (tea.Model, tea.Cmd) {
	if !msg.changed {
		return m, nil
	}
	m.loaded = make(map[View]bool)
	m.loadErr = make(map[View]string)
	m.cursor = make(map[View]int)
	m.snapshot = m.c.Dashboard.Snapshot()
	if !msg.signedIn {
		return m, nil
	}
	return m, tea.Batch(m.refreshDashboardCmd(), m.reloadCmd(m.currentView))
}

// expireOn marks session expired when err is a 401.
func expireOn(session *state.Session, err error) {
	var apiErr *api.APIError
	if err != nil && errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		session.MarkExpired()
	}
}

func displayName(u models.User) string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	}
	return "friend"
}
