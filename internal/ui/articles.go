package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

// articleState holds the article list and reader.
type articleState struct {
	list       api.Paginated[models.Article]
	categories []models.Category
	page       int
	reading    bool
	current    models.Article
	reader     viewport.Model
}

type articlesMsg struct {
	list       api.Paginated[models.Article]
	categories []models.Category
	err        error
}

type articleMsg struct {
	article models.Article
	err     error
}

// articleQuery builds the list query from the page and stored preferences.
func (m Model) articleQuery() services.ArticleQuery {
	q := services.ArticleQuery{PageQuery: services.PageQuery{Page: m.articles.page, Limit: m.prefs.ArticlePageSize}}
	if m.prefs.ArticleCategory > 0 {
		id := m.prefs.ArticleCategory
		q.CategoryID = &id
	}
	return q
}

// fetchArticlesCmd loads the current page, and the categories once.
func (m Model) fetchArticlesCmd() tea.Cmd {
	svc := m.svc
	query := m.articleQuery()
	needCategories := len(m.articles.categories) == 0
	return m.run(func(ctx context.Context) tea.Msg {
		list, err := svc.Articles.List(ctx, query)
		if err != nil {
			return articlesMsg{err: err}
		}
		msg := articlesMsg{list: list}
		if needCategories {
			// Categories only drive the filter; the list is still usable without them.
			msg.categories, _ = svc.Articles.Categories(ctx)
		}
		return msg
	})
}

func (m Model) openArticleCmd(id int64) tea.Cmd {
	svc := m.svc
	return m.run(func(ctx context.Context) tea.Msg {
		a, err := svc.Articles.Get(ctx, id)
		return articleMsg{article: a, err: err}
	})
}

func (m *Model) handleArticles(msg articlesMsg) {
	if msg.err != nil {
		m.loadErr[ViewArticles] = state.Message(msg.err)
		return
	}
	m.loadErr[ViewArticles] = ""
	m.loaded[ViewArticles] = true
	m.articles.list = msg.list
	if msg.list.Page > 0 {
		m.articles.page = msg.list.Page
	}
	if len(msg.categories) > 0 {
		m.articles.categories = msg.categories
	}
	m.clampCursor(ViewArticles)
}

func (m *Model) handleArticle(msg articleMsg) {
	if msg.err != nil {
		m.toasts.Error("Could not open article: " + state.Message(msg.err))
		return
	}
	m.articles.current = msg.article
	m.articles.reading = true
	w, _ := m.contentSize()
	m.articles.reader.SetContent(m.renderArticleBody(msg.article, w))
	m.articles.reader.GotoTop()
}

// cycleCategory advances the category filter through all categories and
// back to "all", persisting the choice.
func (m *Model) cycleCategory() {
	cats := m.articles.categories
	next := int64(0)
	for i, c := range cats {
		if c.ID == m.prefs.ArticleCategory {
			if i+1 < len(cats) {
				next = cats[i+1].ID
			}
			break
		}
	}
	if m.prefs.ArticleCategory == 0 && len(cats) > 0 {
		next = cats[0].ID
	}
	m.prefs.ArticleCategory = next
	m.articles.page = 1
	m.savePrefs()
}

func (m *Model) resizePage(delta int) bool {
	size := clamp(m.prefs.ArticlePageSize+delta, minArticlePageSize, maxArticlePageSize)
	if size == m.prefs.ArticlePageSize {
		return false
	}
	m.prefs.ArticlePageSize = size
	m.articles.page = 1
	m.savePrefs()
	return true
}

func (m Model) handleArticlesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.articles.reading {
		var cmd tea.Cmd
		m.articles.reader, cmd = m.articles.reader.Update(msg)
		return m, cmd
	}

	list := m.articles.list
	if m.moveCursor(msg, len(list.Data)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if len(list.Data) == 0 {
			return m, nil
		}
		return m, m.openArticleCmd(list.Data[m.cursor[ViewArticles]].ID)
	case key.Matches(msg, m.keys.NextPage):
		if list.HasMore() {
			m.articles.page++
			return m, m.fetchArticlesCmd()
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.articles.page > 1 {
			m.articles.page--
			return m, m.fetchArticlesCmd()
		}
	case key.Matches(msg, m.keys.Category):
		m.cycleCategory()
		return m, m.fetchArticlesCmd()
	case key.Matches(msg, m.keys.PageSizeUp):
		if m.resizePage(1) {
			return m, m.fetchArticlesCmd()
		}
	case key.Matches(msg, m.keys.PageSizeDown):
		if m.resizePage(-1) {
			return m, m.fetchArticlesCmd()
		}
	}
	return m, nil
}

func (m Model) categoryName() string {
	if m.prefs.ArticleCategory == 0 {
		return "All topics"
	}
	for _, c := range m.articles.categories {
		if c.ID == m.prefs.ArticleCategory {
			return c.Name
		}
	}
	return fmt.Sprintf("Category %d", m.prefs.ArticleCategory)
}

func (m Model) renderArticles() string {
	if m.articles.reading {
		return m.theme.Styles().FocusPanel.Render(m.articles.reader.View())
	}

	styles := m.theme.Styles()
	list := m.articles.list
	w, _ := m.contentSize()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(m.categoryName()))
	pages := list.TotalPages
	if pages == 0 {
		pages = 1
	}
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("  page %d of %d · %s · %d per page",
		m.articles.page, pages, plural(list.TotalItems, "article"), m.prefs.ArticlePageSize)))
	b.WriteString("\n\n")

	if !m.loaded[ViewArticles] {
		b.WriteString(styles.MutedText.Render("Loading articles..."))
		return m.panel(b.String())
	}
	if len(list.Data) == 0 {
		b.WriteString(styles.MutedText.Render("No articles in this category."))
	}

	for i, a := range list.Data {
		title := truncate(a.Title, w-12)
		meta := styles.FaintText.Render(fmt.Sprintf("  %d min", a.ReadMinutes))
		if i == m.cursor[ViewArticles] {
			b.WriteString(styles.Selected.Render(padRight("› "+title, w-10)))
		} else {
			b.WriteString(styles.Text.Render("  " + title))
		}
		b.WriteString(meta)
		b.WriteString("\n")
		if a.Summary != "" {
			b.WriteString(styles.MutedText.Render("    " + truncate(singleLine(a.Summary), w-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter read · [ ] page · c category · +/- page size"))
	return m.panel(b.String())
}

func (m Model) renderArticleBody(a models.Article, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(a.Title))
	b.WriteString("\n")

	meta := make([]string, 0, 3)
	if a.Author != "" {
		meta = append(meta, a.Author)
	}
	if a.Category != "" {
		meta = append(meta, a.Category)
	}
	if a.ReadMinutes > 0 {
		meta = append(meta, fmt.Sprintf("%d min read", a.ReadMinutes))
	}
	b.WriteString(styles.MutedText.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")
	b.WriteString(wrap(a.Content, width))
	if len(a.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("#" + strings.Join(a.Tags, " #")))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("esc back to list"))
	return b.String()
}
