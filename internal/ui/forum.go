package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

func (m Model) handleForumKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.c.Forum.Posts()
	if m.moveCursor(msg, len(posts)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.modal = m.newPostForm(0)
		return m, nil
	}

	if len(posts) == 0 {
		return m, nil
	}
	post := posts[clamp(m.cursor[ViewForum], 0, len(posts)-1)]

	switch {
	case key.Matches(msg, m.keys.Like):
		return m, m.action(ViewForum, func(ctx context.Context, c *state.Containers) error {
			return c.Forum.ToggleLike(ctx, post.ID)
		})
	case key.Matches(msg, m.keys.BestAnswer):
		if post.ParentID == 0 {
			m.toasts.Info("Only answers can be marked as best")
			return m, nil
		}
		return m, m.action(ViewForum, func(ctx context.Context, c *state.Containers) error {
			return c.Forum.MarkBestAnswer(ctx, post.ID)
		})
	case key.Matches(msg, m.keys.Compose):
		parent := post.ID
		if post.ParentID != 0 {
			parent = post.ParentID
		}
		m.modal = m.newPostForm(parent)
		return m, nil
	case key.Matches(msg, m.keys.Report):
		m.modal = m.reportForm(post)
		return m, nil
	case key.Matches(msg, m.keys.Block):
		if post.AuthorID == 0 || post.IsAnonymous {
			m.toasts.Info("Anonymous authors cannot be blocked")
			return m, nil
		}
		if m.c.Blocked.IsBlocked(post.AuthorID) {
			return m, m.action(ViewForum, func(ctx context.Context, c *state.Containers) error {
				return c.Blocked.Unblock(ctx, post.AuthorID)
			})
		}
		return m, m.action(ViewForum, func(ctx context.Context, c *state.Containers) error {
			return c.Blocked.Block(ctx, post.AuthorID, post.AuthorName)
		})
	}
	return m, nil
}

// reportForm files a moderation report against post.
func (m Model) reportForm(post models.ForumPost) *formModal {
	svc, session, toasts := m.svc, m.session, m.toasts
	var form *formModal
	form = newFormModal("Report post", []formField{
		{label: "Reason", placeholder: "spam, harassment, self_harm, misinformation, other", value: "other", limit: 20},
		{label: "Details", limit: 1000},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			_, err := svc.Moderation.Report(ctx, session.Token(), services.ReportInput{
				TargetType: "post",
				TargetID:   post.ID,
				Reason:     strings.ToLower(values[0]),
				Details:    values[1],
			})
			if err != nil {
				expireOn(session, err)
				return formResultMsg{form: form, err: err}
			}
			toasts.Success("Report sent. Thank you for keeping the community safe")
			return formResultMsg{form: form}
		})
	})
	return form
}

// newPostForm opens the post form. A non-zero parentID posts an answer.
func (m Model) newPostForm(parentID int64) *formModal {
	c := m.c
	title := "New post"
	if parentID != 0 {
		title = "Answer"
	}
	var form *formModal
	form = newFormModal(title, []formField{
		{label: "Title", limit: 200},
		{label: "Post", limit: 4000},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			_, err := c.Forum.CreatePost(ctx, services.PostInput{Title: values[0], Content: values[1], ParentID: parentID})
			if err != nil {
				return formResultMsg{form: form, err: err}
			}
			return formResultMsg{form: form, next: func() tea.Msg { return actionMsg{view: ViewForum} }}
		})
	})
	return form
}

func (m Model) renderForum() string {
	styles := m.theme.Styles()
	posts := m.c.Forum.Posts()
	w, _ := m.contentSize()
	var b strings.Builder

	page, pages := m.c.Forum.Page()
	b.WriteString(styles.Text.Bold(true).Render("Community forum"))
	if pages > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  page %d of %d", page, pages)))
	}
	b.WriteString("\n\n")

	if !m.loaded[ViewForum] {
		b.WriteString(styles.MutedText.Render("Loading posts..."))
		return b.String()
	}
	if len(posts) == 0 {
		b.WriteString(styles.MutedText.Render("No posts yet. Press n to start a discussion."))
		return b.String()
	}

	for i, p := range posts {
		b.WriteString(m.postLine(p, i == m.cursor[ViewForum], styles, w))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("space like · b best answer · i answer · n new post · R report · X block"))
	return b.String()
}

func (m Model) postLine(p models.ForumPost, selected bool, styles Styles, width int) string {
	indent := ""
	if p.ParentID != 0 {
		indent = "    ↳ "
	}
	heart := styles.FaintText.Render("♡")
	if p.IsLiked {
		heart = styles.Status("liked").Render("♥")
	}
	likes := fmt.Sprintf("%s %d", heart, p.LikesCount)
	best := ""
	if p.IsBestAnswer {
		best = " " + styles.Badge("best").Render("best answer")
	}

	author := p.AuthorName
	if p.IsAnonymous || author == "" {
		author = "anonymous"
	}
	text := p.Title
	if text == "" {
		text = singleLine(p.Content)
	}
	if m.c.Blocked.IsBlocked(p.AuthorID) && !p.IsAnonymous {
		text = "hidden: you blocked this author"
	}
	text = truncate(text, width-len([]rune(indent))-len([]rune(author))-20)

	line := indent + text
	if selected {
		line = styles.Selected.Render(line)
	} else if p.ParentID == 0 {
		line = styles.Text.Bold(true).Render(line)
	} else {
		line = styles.Text.Render(line)
	}
	return line + styles.FaintText.Render("  "+author+"  ") + likes + best
}
