// Package apitest provides an in-memory fake of the platform REST API for
// tests. It speaks the same envelopes as the real backend and supports
// per-route fault injection.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/five82/haven/internal/models"
)

// Token is the bearer token the backend accepts.
const Token = "test-token"

// Failure is an injected error response.
type Failure struct {
	Status  int
	Code    string
	Message string
}

// Backend is the fake server. Seed data through the exported fields before
// issuing requests; guard later mutations with Lock/Unlock.
type Backend struct {
	mu       sync.Mutex
	server   *httptest.Server
	failures map[string]Failure
	holds    map[string]*hold
	calls    map[string]int
	nextID   int64

	User          models.User
	Sessions      []models.ChatSession
	Messages      map[int64][]models.ChatMessage
	Articles      []models.Article
	Categories    []models.Category
	Journals      []models.Journal
	Forums        []models.Forum
	Posts         []models.ForumPost
	Comments      map[int64][]models.Comment
	Songs         []models.Song
	Playlists     []models.Playlist
	Stories       []models.Story
	Reports       []models.Report
	Blocked       []models.BlockedUser
	Notifications []models.Notification
	MoodEntries   []models.MoodEntry
	Breathing     []models.BreathingSession
	Badges        []models.Badge
	Progress      models.UserProgress
	Uploads       []models.Upload
}

// New starts a Backend seeded with a small default dataset. The server is
// closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		failures: make(map[string]Failure),
		holds:    make(map[string]*hold),
		calls:    make(map[string]int),
		nextID:   1000,
	}
	b.seed()
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	t.Cleanup(b.releaseAll)
	return b
}

// URL returns the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// Lock guards direct access to the seeded data.
func (b *Backend) Lock() { b.mu.Lock() }

// Unlock releases Lock.
func (b *Backend) Unlock() { b.mu.Unlock() }

// Fail makes every request matching method and path (relative to /api, with
// concrete ids) answer with f until Recover is called.
func (b *Backend) Fail(method, path string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = f
}

// Recover clears an injected failure.
func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+path)
}

type hold struct {
	once sync.Once
	ch   chan struct{}
}

func (h *hold) release() { h.once.Do(func() { close(h.ch) }) }

// Hold parks every request matching method and path until release is
// called. Injected failures are checked after the request is let go.
func (b *Backend) Hold(method, path string) (release func()) {
	h := &hold{ch: make(chan struct{})}
	b.mu.Lock()
	b.holds[method+" "+path] = h
	b.mu.Unlock()
	return h.release
}

func (b *Backend) releaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.holds {
		h.release()
	}
}

// Calls reports how many requests hit method and path.
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

func (b *Backend) seed() {
	b.User = models.User{ID: 1, Username: "river", Email: "river@example.com", DisplayName: "River", Role: "member"}
	b.Sessions = []models.ChatSession{{ID: 1, Title: "Evening check-in", MessagesCount: 2, UpdatedAt: "2026-03-01T20:00:00Z"}}
	b.Messages = map[int64][]models.ChatMessage{
		1: {
			{ID: 1, SessionID: 1, Role: models.RoleUser, Content: "I had a rough day."},
			{ID: 2, SessionID: 1, Role: models.RoleAssistant, Content: "I'm sorry to hear that. Want to talk about it?"},
		},
	}
	b.Categories = []models.Category{{ID: 1, Name: "Anxiety", Slug: "anxiety"}, {ID: 2, Name: "Sleep", Slug: "sleep"}}
	for i := 1; i <= 9; i++ {
		cat := int64(1 + i%2)
		b.Articles = append(b.Articles, models.Article{
			ID: int64(i), Title: fmt.Sprintf("Article %d", i), Summary: "summary", Content: "content",
			CategoryID: cat, ReadMinutes: 3 + i,
		})
	}
	b.Journals = []models.Journal{
		{ID: 1, Title: "Gratitude", Content: "Three good things", Mood: 4},
		{ID: 2, Title: "Worries", Content: "Exam next week", Mood: 2, ShareWithAI: true},
	}
	b.Forums = []models.Forum{{ID: 1, Title: "Coping strategies", PostsCount: 3}}
	b.Posts = []models.ForumPost{
		{ID: 1, ForumID: 1, AuthorID: 1, AuthorName: "river", Title: "How do you handle panic attacks?", Content: "..."},
		{ID: 2, ForumID: 1, ParentID: 1, AuthorID: 2, AuthorName: "sky", Content: "Box breathing helps me.", LikesCount: 3},
		{ID: 3, ForumID: 1, ParentID: 1, AuthorID: 3, AuthorName: "ash", Content: "Cold water on the face.", LikesCount: 1, IsLiked: true},
	}
	b.Comments = map[int64][]models.Comment{}
	b.Songs = []models.Song{
		{ID: 1, Title: "Rainfall", Artist: "Calm Collective", Genre: "ambient", DurationSeconds: 240},
		{ID: 2, Title: "Ocean Drift", Artist: "Tidewater", Genre: "nature", DurationSeconds: 300},
	}
	b.Playlists = []models.Playlist{{ID: 1, Name: "Sleep", Songs: []models.Song{b.Songs[0]}}}
	b.Stories = []models.Story{{ID: 1, Title: "Finding light", Excerpt: "It started small.", AuthorName: "anon"}}
	b.Blocked = []models.BlockedUser{{UserID: 9, Username: "troll"}}
	b.Notifications = []models.Notification{
		{ID: 1, Type: "reply", Title: "New reply", Body: "sky replied to your post"},
		{ID: 2, Type: "badge", Title: "Badge earned", Body: "7-day streak", IsRead: true},
	}
	b.MoodEntries = []models.MoodEntry{{ID: 1, Score: 3, Note: "ok"}}
	b.Badges = []models.Badge{{ID: 1, Name: "First check-in", Earned: true}, {ID: 2, Name: "7-day streak"}}
	b.Progress = models.UserProgress{Points: 120, Level: 2, NextLevelAt: 200, BadgesEarned: 1}
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(b.track)

		r.Post("/auth/login", b.login)
		r.Post("/auth/register", b.register)
		r.Get("/articles", b.listArticles)
		r.Get("/articles/categories", b.listCategories)
		r.Get("/articles/{id}", b.getArticle)
		r.Get("/stories", b.listStories)
		r.Get("/stories/{id}", b.getStory)

		r.Group(func(r chi.Router) {
			r.Use(requireToken)

			r.Get("/auth/me", b.me)
			r.Post("/auth/logout", noContent)

			r.Get("/chat/sessions", b.listSessions)
			r.Post("/chat/sessions", b.createSession)
			r.Delete("/chat/sessions/{id}", b.deleteSession)
			r.Get("/chat/sessions/{id}/messages", b.listMessages)
			r.Post("/chat/sessions/{id}/messages", b.sendMessage)

			r.Get("/journals", b.listJournals)
			r.Post("/journals", b.createJournal)
			r.Put("/journals/{id}", b.updateJournal)
			r.Delete("/journals/{id}", b.deleteJournal)
			r.Put("/journals/{id}/ai-share", b.setAIShare)
			r.Get("/community/feed", b.communityFeed)

			r.Get("/forums", b.listForums)
			r.Get("/forums/{id}/posts", b.listPosts)
			r.Post("/forums/{id}/posts", b.createPost)
			r.Post("/posts/{id}/like", b.likePost(true))
			r.Delete("/posts/{id}/like", b.likePost(false))
			r.Post("/posts/{id}/best-answer", b.bestAnswer)
			r.Get("/posts/{id}/comments", b.listComments)
			r.Post("/posts/{id}/comments", b.addComment)

			r.Get("/songs", b.listSongs)
			r.Get("/playlists", b.listPlaylists)
			r.Post("/playlists", b.createPlaylist)
			r.Delete("/playlists/{id}", b.deletePlaylist)
			r.Post("/playlists/{id}/songs", b.addSong)
			r.Delete("/playlists/{id}/songs/{songID}", b.removeSong)

			r.Post("/moderation/reports", b.createReport)
			r.Get("/users/blocked", b.listBlocked)
			r.Post("/users/{id}/block", b.block)
			r.Delete("/users/{id}/block", b.unblock)

			r.Get("/notifications", b.listNotifications)
			r.Get("/notifications/unread-count", b.unreadCount)
			r.Put("/notifications/read-all", b.markAllRead)
			r.Put("/notifications/{id}/read", b.markRead)

			r.Get("/mood/entries", b.listMood)
			r.Post("/mood/entries", b.logMood)
			r.Get("/mood/summary", b.moodSummary)
			r.Post("/breathing/sessions", b.completeBreathing)

			r.Get("/gamification/badges", b.listBadges)
			r.Get("/gamification/progress", b.progress)

			r.Post("/uploads", b.upload)
		})
	})
	return r
}

// track counts calls and answers with an injected failure when one matches.
func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		b.mu.Lock()
		b.calls[key]++
		h := b.holds[key]
		b.mu.Unlock()
		if h != nil {
			select {
			case <-h.ch:
			case <-r.Context().Done():
				return
			}
		}
		b.mu.Lock()
		f, failing := b.failures[key]
		b.mu.Unlock()
		if failing {
			writeError(w, f.Status, f.Code, f.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page := intQuery(r, "page", 1)
	limit := intQuery(r, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	data := append([]T{}, items[start:end]...)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"data":        data,
		"page":        page,
		"limit":       limit,
		"total_items": len(items),
		"total_pages": (len(items) + limit - 1) / limit,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	body := map[string]any{"success": false, "message": message, "requestId": "fake-" + strconv.Itoa(status)}
	if code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func intQuery(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

func pathID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	return id
}

func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return false
	}
	return true
}

func notFound(w http.ResponseWriter, what string) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", what+" not found")
}
