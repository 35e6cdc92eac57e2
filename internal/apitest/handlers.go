package apitest

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/five82/haven/internal/models"
)

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if in.Email != b.User.Email || in.Password != "correct-horse" {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		return
	}
	writeData(w, http.StatusOK, models.AuthSession{Token: Token, User: b.User})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if in.Email == b.User.Email {
		writeError(w, http.StatusConflict, "USER_ALREADY_EXISTS", "This email is already registered")
		return
	}
	user := models.User{ID: b.id(), Username: in.Username, Email: in.Email, Role: "member"}
	writeData(w, http.StatusCreated, models.AuthSession{Token: Token, User: user})
}

func (b *Backend) me(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, b.User)
}

func (b *Backend) listSessions(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, append([]models.ChatSession{}, b.Sessions...))
}

func (b *Backend) createSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := models.ChatSession{ID: b.id(), Title: in.Title}
	b.Sessions = append([]models.ChatSession{s}, b.Sessions...)
	writeData(w, http.StatusCreated, s)
}

func (b *Backend) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.Sessions {
		if s.ID == id {
			b.Sessions = append(b.Sessions[:i], b.Sessions[i+1:]...)
			delete(b.Messages, id)
			noContent(w, r)
			return
		}
	}
	notFound(w, "session")
}

func (b *Backend) listMessages(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, append([]models.ChatMessage{}, b.Messages[id]...))
}

func (b *Backend) sendMessage(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	user := models.ChatMessage{ID: b.id(), SessionID: id, Role: models.RoleUser, Content: in.Content}
	reply := models.ChatMessage{ID: b.id(), SessionID: id, Role: models.RoleAssistant, Content: "Thank you for sharing. " + in.Content}
	b.Messages[id] = append(b.Messages[id], user, reply)
	writeData(w, http.StatusCreated, models.SendMessageResult{UserMessage: user, AssistantMessage: &reply})
}

func (b *Backend) listArticles(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	catID := intQuery(r, "category_id", 0)
	search := strings.ToLower(r.URL.Query().Get("search"))
	var out []models.Article
	for _, a := range b.Articles {
		if catID > 0 && a.CategoryID != int64(catID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) {
			continue
		}
		out = append(out, a)
	}
	writePage(w, r, out)
}

func (b *Backend) listCategories(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, b.Categories)
}

func (b *Backend) getArticle(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.Articles {
		if a.ID == id {
			writeData(w, http.StatusOK, a)
			return
		}
	}
	notFound(w, "article")
}

func (b *Backend) listStories(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writePage(w, r, b.Stories)
}

func (b *Backend) getStory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.Stories {
		if s.ID == id {
			writeData(w, http.StatusOK, s)
			return
		}
	}
	notFound(w, "story")
}

type journalBody struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Mood        int      `json:"mood"`
	Tags        []string `json:"tags"`
	ShareWithAI bool     `json:"share_with_ai"`
	IsPublic    bool     `json:"is_public"`
}

func (b *Backend) listJournals(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, append([]models.Journal{}, b.Journals...))
}

func (b *Backend) createJournal(w http.ResponseWriter, r *http.Request) {
	var in journalBody
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	j := models.Journal{ID: b.id(), Title: in.Title, Content: in.Content, Mood: in.Mood, Tags: in.Tags, ShareWithAI: in.ShareWithAI, IsPublic: in.IsPublic}
	b.Journals = append([]models.Journal{j}, b.Journals...)
	writeData(w, http.StatusCreated, j)
}

func (b *Backend) updateJournal(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in journalBody
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Journals {
		if b.Journals[i].ID == id {
			b.Journals[i] = models.Journal{ID: id, Title: in.Title, Content: in.Content, Mood: in.Mood, Tags: in.Tags, ShareWithAI: in.ShareWithAI, IsPublic: in.IsPublic}
			writeData(w, http.StatusOK, b.Journals[i])
			return
		}
	}
	notFound(w, "journal")
}

func (b *Backend) deleteJournal(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Journals {
		if b.Journals[i].ID == id {
			b.Journals = append(b.Journals[:i], b.Journals[i+1:]...)
			noContent(w, r)
			return
		}
	}
	notFound(w, "journal")
}

func (b *Backend) setAIShare(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in struct {
		ShareWithAI bool `json:"share_with_ai"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Journals {
		if b.Journals[i].ID == id {
			b.Journals[i].ShareWithAI = in.ShareWithAI
			noContent(w, r)
			return
		}
	}
	notFound(w, "journal")
}

func (b *Backend) communityFeed(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var public []models.Journal
	for _, j := range b.Journals {
		if j.IsPublic {
			public = append(public, j)
		}
	}
	writePage(w, r, public)
}

func (b *Backend) listForums(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, b.Forums)
}

func (b *Backend) listPosts(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.ForumPost
	for _, p := range b.Posts {
		if p.ForumID == id {
			out = append(out, p)
		}
	}
	writePage(w, r, out)
}

func (b *Backend) createPost(w http.ResponseWriter, r *http.Request) {
	forumID := pathID(r, "id")
	var in struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		ParentID    int64  `json:"parent_id"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := models.ForumPost{ID: b.id(), ForumID: forumID, ParentID: in.ParentID, AuthorID: b.User.ID, AuthorName: b.User.Username,
		Title: in.Title, Content: in.Content, IsAnonymous: in.IsAnonymous}
	b.Posts = append(b.Posts, p)
	writeData(w, http.StatusCreated, p)
}

func (b *Backend) likePost(like bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.Posts {
			p := &b.Posts[i]
			if p.ID != id {
				continue
			}
			if p.IsLiked != like {
				p.IsLiked = like
				if like {
					p.LikesCount++
				} else {
					p.LikesCount--
				}
			}
			noContent(w, r)
			return
		}
		notFound(w, "post")
	}
}

func (b *Backend) bestAnswer(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	var parent int64 = -1
	for _, p := range b.Posts {
		if p.ID == id {
			parent = p.ParentID
		}
	}
	if parent < 0 {
		notFound(w, "post")
		return
	}
	for i := range b.Posts {
		if b.Posts[i].ParentID == parent && parent != 0 {
			b.Posts[i].IsBestAnswer = b.Posts[i].ID == id
		}
	}
	noContent(w, r)
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, append([]models.Comment{}, b.Comments[id]...))
}

func (b *Backend) addComment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c := models.Comment{ID: b.id(), PostID: id, AuthorName: b.User.Username, Content: in.Content}
	b.Comments[id] = append(b.Comments[id], c)
	writeData(w, http.StatusCreated, c)
}

func (b *Backend) listSongs(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Song
	for _, s := range b.Songs {
		if genre == "" || s.Genre == genre {
			out = append(out, s)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (b *Backend) listPlaylists(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, b.Playlists)
}

func (b *Backend) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := models.Playlist{ID: b.id(), Name: in.Name}
	b.Playlists = append(b.Playlists, p)
	writeData(w, http.StatusCreated, p)
}

func (b *Backend) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Playlists {
		if b.Playlists[i].ID == id {
			b.Playlists = append(b.Playlists[:i], b.Playlists[i+1:]...)
			noContent(w, r)
			return
		}
	}
	notFound(w, "playlist")
}

func (b *Backend) addSong(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in struct {
		SongID int64 `json:"song_id"`
	}
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var song *models.Song
	for i := range b.Songs {
		if b.Songs[i].ID == in.SongID {
			song = &b.Songs[i]
		}
	}
	if song == nil {
		notFound(w, "song")
		return
	}
	for i := range b.Playlists {
		if b.Playlists[i].ID == id {
			b.Playlists[i].Songs = append(b.Playlists[i].Songs, *song)
			writeData(w, http.StatusOK, b.Playlists[i])
			return
		}
	}
	notFound(w, "playlist")
}

func (b *Backend) removeSong(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	songID := pathID(r, "songID")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Playlists {
		if b.Playlists[i].ID != id {
			continue
		}
		kept := b.Playlists[i].Songs[:0]
		for _, s := range b.Playlists[i].Songs {
			if s.ID != songID {
				kept = append(kept, s)
			}
		}
		b.Playlists[i].Songs = kept
		writeData(w, http.StatusOK, b.Playlists[i])
		return
	}
	notFound(w, "playlist")
}

func (b *Backend) createReport(w http.ResponseWriter, r *http.Request) {
	var in models.Report
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	in.ID = b.id()
	in.Status = "open"
	b.Reports = append(b.Reports, in)
	writeData(w, http.StatusCreated, in)
}

func (b *Backend) listBlocked(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, append([]models.BlockedUser{}, b.Blocked...))
}

func (b *Backend) block(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.Blocked {
		if u.UserID == id {
			noContent(w, r)
			return
		}
	}
	b.Blocked = append(b.Blocked, models.BlockedUser{UserID: id, Username: fmt.Sprintf("user%d", id)})
	noContent(w, r)
}

func (b *Backend) unblock(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, u := range b.Blocked {
		if u.UserID == id {
			b.Blocked = append(b.Blocked[:i], b.Blocked[i+1:]...)
			noContent(w, r)
			return
		}
	}
	notFound(w, "blocked user")
}

func (b *Backend) listNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread_only") == "true"
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Notification
	for _, n := range b.Notifications {
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	writePage(w, r, out)
}

func (b *Backend) unreadCount(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, n := range b.Notifications {
		if !n.IsRead {
			count++
		}
	}
	writeData(w, http.StatusOK, models.UnreadCount{Count: count})
}

func (b *Backend) markRead(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Notifications {
		if b.Notifications[i].ID == id {
			b.Notifications[i].IsRead = true
			noContent(w, r)
			return
		}
	}
	notFound(w, "notification")
}

func (b *Backend) markAllRead(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Notifications {
		b.Notifications[i].IsRead = true
	}
	noContent(w, r)
}

func (b *Backend) listMood(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, append([]models.MoodEntry{}, b.MoodEntries...))
}

func (b *Backend) logMood(w http.ResponseWriter, r *http.Request) {
	var in models.MoodEntry
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	in.ID = b.id()
	b.MoodEntries = append([]models.MoodEntry{in}, b.MoodEntries...)
	writeData(w, http.StatusCreated, in)
}

func (b *Backend) moodSummary(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sum := models.MoodSummary{ByScore: map[string]int{}}
	total := 0
	for _, e := range b.MoodEntries {
		total += e.Score
		sum.ByScore[fmt.Sprint(e.Score)]++
	}
	sum.Entries = len(b.MoodEntries)
	if sum.Entries > 0 {
		sum.Average = float64(total) / float64(sum.Entries)
	}
	sum.StreakDays = sum.Entries
	writeData(w, http.StatusOK, sum)
}

func (b *Backend) completeBreathing(w http.ResponseWriter, r *http.Request) {
	var in models.BreathingSession
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	in.ID = b.id()
	in.Completed = true
	b.Breathing = append(b.Breathing, in)
	b.Progress.Points += 10
	writeData(w, http.StatusCreated, in)
}

func (b *Backend) listBadges(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, b.Badges)
}

func (b *Backend) progress(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeData(w, http.StatusOK, b.Progress)
}

func (b *Backend) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "expected multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "missing file part")
		return
	}
	defer file.Close()
	n, _ := io.Copy(io.Discard, file)
	b.mu.Lock()
	defer b.mu.Unlock()
	u := models.Upload{ID: b.id(), URL: "https://cdn.example.com/" + header.Filename, ContentType: header.Header.Get("Content-Type"), Size: n}
	b.Uploads = append(b.Uploads, u)
	writeData(w, http.StatusCreated, u)
}
