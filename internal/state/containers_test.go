package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/apitest"
	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/notify"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

var serverDown = apitest.Failure{Status: 500, Code: "INTERNAL", Message: "database unavailable"}

func newContainers(t *testing.T) (*state.Containers, *apitest.Backend, *notify.Center) {
	t.Helper()
	backend := apitest.New(t)
	client, err := api.NewClient(backend.URL())
	require.NoError(t, err)
	toasts := notify.NewCenter()
	c := state.NewContainers(state.Deps{
		Services: services.New(client),
		Session:  state.NewSession(apitest.Token),
		Toasts:   toasts,
	})
	return c, backend, toasts
}

func requireErrorToast(t *testing.T, toasts *notify.Center, contains string) {
	t.Helper()
	active := toasts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelError, active[0].Level)
	assert.Contains(t, active[0].Message, contains)
}

func TestForum_ToggleLikeFailureRestoresListAndToasts(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Forum.Load(ctx, 1, services.PostQuery{}))
	before := c.Forum.Posts()

	backend.Fail("POST", "/posts/2/like", serverDown)
	err := c.Forum.ToggleLike(ctx, 2)
	require.Error(t, err)

	assert.Equal(t, before, c.Forum.Posts())
	requireErrorToast(t, toasts, "database unavailable")
	assert.Equal(t, 1, backend.Calls("POST", "/posts/2/like"))
}

func TestForum_ToggleLikeSuccessKeepsChange(t *testing.T) {
	c, _, toasts := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Forum.Load(ctx, 1, services.PostQuery{}))

	require.NoError(t, c.Forum.ToggleLike(ctx, 3))
	post := findPost(t, c.Forum.Posts(), 3)
	assert.False(t, post.IsLiked)
	assert.Equal(t, 0, post.LikesCount)

	require.NoError(t, c.Forum.ToggleLike(ctx, 3))
	post = findPost(t, c.Forum.Posts(), 3)
	assert.True(t, post.IsLiked)
	assert.Equal(t, 1, post.LikesCount)
	assert.Empty(t, toasts.Active())

	require.Error(t, c.Forum.ToggleLike(ctx, 404))
}

func TestForum_MarkBestAnswer(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Forum.Load(ctx, 1, services.PostQuery{}))

	require.NoError(t, c.Forum.MarkBestAnswer(ctx, 3))
	assert.True(t, findPost(t, c.Forum.Posts(), 3).IsBestAnswer)

	backend.Fail("POST", "/posts/2/best-answer", serverDown)
	before := c.Forum.Posts()
	require.Error(t, c.Forum.MarkBestAnswer(ctx, 2))
	assert.Equal(t, before, c.Forum.Posts())
	assert.True(t, findPost(t, c.Forum.Posts(), 3).IsBestAnswer)
	requireErrorToast(t, toasts, "best answer")

	require.Error(t, c.Forum.MarkBestAnswer(ctx, 1), "questions cannot be best answers")
}

func TestJournals_SetAIShareRollsBack(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Journals.Load(ctx))

	require.NoError(t, c.Journals.SetAIShare(ctx, 1, true))
	assert.True(t, c.Journals.Entries()[0].ShareWithAI)

	backend.Fail("PUT", "/journals/2/ai-share", serverDown)
	require.Error(t, c.Journals.SetAIShare(ctx, 2, false))
	assert.True(t, c.Journals.Entries()[1].ShareWithAI)
	requireErrorToast(t, toasts, "AI sharing")
}

func TestJournals_DeleteRollsBack(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Journals.Load(ctx))

	backend.Fail("DELETE", "/journals/1", serverDown)
	require.Error(t, c.Journals.Delete(ctx, 1))
	assert.Len(t, c.Journals.Entries(), 2)

	backend.Recover("DELETE", "/journals/1")
	require.NoError(t, c.Journals.Delete(ctx, 1))
	entries := c.Journals.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ID)
}

func TestChat_SendReplacesPendingMessage(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Chat.Open(ctx, 1))

	require.NoError(t, c.Chat.Send(ctx, "Feeling better"))
	msgs := c.Chat.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "Feeling better", msgs[2].Content)
	assert.False(t, msgs[2].Pending)
	assert.Equal(t, models.RoleAssistant, msgs[3].Role)

	backend.Fail("POST", "/chat/sessions/1/messages", serverDown)
	require.Error(t, c.Chat.Send(ctx, "Hello?"))
	assert.Len(t, c.Chat.Messages(), 4)
	requireErrorToast(t, toasts, "send message")
}

func TestChat_SendWithoutSession(t *testing.T) {
	c, _, _ := newContainers(t)
	require.Error(t, c.Chat.Send(context.Background(), "hi"))
}

func TestChat_CreateAndDelete(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Chat.LoadSessions(ctx))

	session, err := c.Chat.Create(ctx, "Night")
	require.NoError(t, err)
	assert.Equal(t, session.ID, c.Chat.Active())
	assert.Len(t, c.Chat.Sessions(), 2)

	backend.Fail("DELETE", "/chat/sessions/1", serverDown)
	require.Error(t, c.Chat.Delete(ctx, 1))
	assert.Len(t, c.Chat.Sessions(), 2)

	require.NoError(t, c.Chat.Delete(ctx, session.ID))
	assert.Zero(t, c.Chat.Active())
	assert.Len(t, c.Chat.Sessions(), 1)
}

func TestPlaylists_AddAndRemove(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Playlists.Load(ctx))

	song := models.Song{ID: 2, Title: "Ocean Drift"}
	require.NoError(t, c.Playlists.AddSong(ctx, 1, song))
	assert.Len(t, c.Playlists.Lists()[0].Songs, 2)

	backend.Fail("DELETE", "/playlists/1/songs/2", serverDown)
	require.Error(t, c.Playlists.RemoveSong(ctx, 1, 2))
	assert.Len(t, c.Playlists.Lists()[0].Songs, 2)

	backend.Recover("DELETE", "/playlists/1/songs/2")
	require.NoError(t, c.Playlists.RemoveSong(ctx, 1, 2))
	assert.Len(t, c.Playlists.Lists()[0].Songs, 1)

	lists := c.Playlists.Lists()
	lists[0].Songs[0].Title = "changed"
	assert.Equal(t, "Rainfall", c.Playlists.Lists()[0].Songs[0].Title)
}

func TestPlaylists_Library(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()

	songs, err := c.Playlists.Library(ctx, services.SongQuery{Genre: "nature"})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Ocean Drift", songs[0].Title)

	backend.Fail("GET", "/songs", serverDown)
	_, err = c.Playlists.Library(ctx, services.SongQuery{})
	require.Error(t, err)
	assert.Empty(t, toasts.Active(), "reads are not toasted")
}

func TestNotifications_MarkReadAndAll(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Notifications.Load(ctx))
	assert.Equal(t, 1, c.Notifications.Unread())

	backend.Fail("PUT", "/notifications/1/read", serverDown)
	require.Error(t, c.Notifications.MarkRead(ctx, 1))
	assert.Equal(t, 1, c.Notifications.Unread())
	assert.False(t, c.Notifications.Items()[0].IsRead)

	require.NoError(t, c.Notifications.MarkAllRead(ctx))
	assert.Zero(t, c.Notifications.Unread())
	for _, n := range c.Notifications.Items() {
		assert.True(t, n.IsRead)
	}
	assert.Equal(t, 2, backend.Calls("GET", "/notifications/unread-count"), "reconcile refetches the count")
}

func TestBlocked_UnblockRollsBack(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Blocked.Load(ctx))
	require.True(t, c.Blocked.IsBlocked(9))

	backend.Fail("DELETE", "/users/9/block", serverDown)
	require.Error(t, c.Blocked.Unblock(ctx, 9))
	assert.True(t, c.Blocked.IsBlocked(9))

	require.NoError(t, c.Blocked.Block(ctx, 4, "user4"))
	assert.True(t, c.Blocked.IsBlocked(4))
	assert.Len(t, c.Blocked.Users(), 2)
}

func TestWellbeing_LoadIsAllOrNothing(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()

	backend.Fail("GET", "/mood/summary", serverDown)
	require.Error(t, c.Wellbeing.Load(ctx))
	assert.Empty(t, c.Wellbeing.Entries())

	backend.Recover("GET", "/mood/summary")
	require.NoError(t, c.Wellbeing.Load(ctx))
	assert.Len(t, c.Wellbeing.Entries(), 1)
	assert.Equal(t, 1, c.Wellbeing.Summary().Entries)
}

func TestWellbeing_CompleteBreathing(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()

	require.NoError(t, c.Wellbeing.CompleteBreathing(ctx, services.BreathingInput{Pattern: "box", DurationSeconds: 60}))
	sessions := c.Wellbeing.Breathing()
	require.Len(t, sessions, 1)
	assert.NotZero(t, sessions[0].ID)

	backend.Fail("POST", "/breathing/sessions", serverDown)
	require.Error(t, c.Wellbeing.CompleteBreathing(ctx, services.BreathingInput{Pattern: "4-7-8", DurationSeconds: 120}))
	assert.Len(t, c.Wellbeing.Breathing(), 1)
	requireErrorToast(t, toasts, "breathing")
}

func TestUnauthorizedMarksSessionExpired(t *testing.T) {
	c, backend, _ := newContainers(t)
	backend.Fail("GET", "/journals", apitest.Failure{Status: 401, Code: "UNAUTHORIZED", Message: "Token expired"})

	require.Error(t, c.Journals.Load(context.Background()))
	assert.True(t, c.Deps.Session.Expired())
	assert.False(t, c.Deps.Session.SignedIn())
}

func TestFetchDashboard(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()

	d, err := state.FetchDashboard(ctx, c.Deps.Services, apitest.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, d.UnreadCount)
	assert.Len(t, d.Notifications, 2)
	assert.Equal(t, 120, d.Progress.Points)
	assert.Len(t, d.Badges, 2)

	backend.Fail("GET", "/gamification/badges", serverDown)
	d, err = state.FetchDashboard(ctx, c.Deps.Services, apitest.Token)
	require.Error(t, err)
	assert.Nil(t, d)
}

func TestContainers_Reset(t *testing.T) {
	c, _, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Journals.Load(ctx))
	require.NoError(t, c.Forum.Load(ctx, 1, services.PostQuery{}))
	c.Dashboard.Update(&state.Dashboard{UnreadCount: 1}, nil)

	c.Reset()
	assert.Empty(t, c.Journals.Entries())
	assert.Empty(t, c.Forum.Posts())
	assert.False(t, c.Dashboard.Snapshot().HasData)
}

func findPost(t *testing.T, posts []models.ForumPost, id int64) models.ForumPost {
	t.Helper()
	for _, p := range posts {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("post %d not found", id)
	return models.ForumPost{}
}

// startHeld runs op in the background once path is held, and waits until its
// request reaches the backend.
func startHeld(t *testing.T, backend *apitest.Backend, method, path string, op func() error) (release func(), done <-chan error) {
	t.Helper()
	release = backend.Hold(method, path)
	errs := make(chan error, 1)
	go func() { errs <- op() }()
	require.Eventually(t, func() bool { return backend.Calls(method, path) == 1 },
		2*time.Second, 5*time.Millisecond)
	return release, errs
}

func TestForum_FailedLikeKeepsOverlappingLike(t *testing.T) {
	c, backend, toasts := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Forum.Load(ctx, 1, services.PostQuery{}))

	backend.Fail("POST", "/posts/2/like", serverDown)
	release, done := startHeld(t, backend, "POST", "/posts/2/like", func() error {
		return c.Forum.ToggleLike(ctx, 2)
	})

	require.NoError(t, c.Forum.ToggleLike(ctx, 3))
	release()
	require.Error(t, <-done)

	failed := findPost(t, c.Forum.Posts(), 2)
	assert.False(t, failed.IsLiked)
	assert.Equal(t, 3, failed.LikesCount)
	kept := findPost(t, c.Forum.Posts(), 3)
	assert.False(t, kept.IsLiked, "the confirmed unlike survives the other rollback")
	assert.Equal(t, 0, kept.LikesCount)
	requireErrorToast(t, toasts, "database unavailable")
}

func TestJournals_FailedDeleteKeepsOverlappingShare(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Journals.Load(ctx))
	before := c.Journals.Entries()

	backend.Fail("DELETE", "/journals/1", serverDown)
	release, done := startHeld(t, backend, "DELETE", "/journals/1", func() error {
		return c.Journals.Delete(ctx, 1)
	})
	require.Len(t, c.Journals.Entries(), 1)

	require.NoError(t, c.Journals.SetAIShare(ctx, 2, false))
	release()
	require.Error(t, <-done)

	entries := c.Journals.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, before[0], entries[0], "the deleted entry returns to its slot")
	assert.Equal(t, int64(2), entries[1].ID)
	assert.False(t, entries[1].ShareWithAI)
}

func TestNotifications_FailedMarkAllRestoresCount(t *testing.T) {
	c, backend, _ := newContainers(t)
	ctx := context.Background()
	require.NoError(t, c.Notifications.Load(ctx))

	backend.Fail("PUT", "/notifications/read-all", serverDown)
	require.Error(t, c.Notifications.MarkAllRead(ctx))
	assert.Equal(t, 1, c.Notifications.Unread())
	items := c.Notifications.Items()
	assert.False(t, items[0].IsRead)
	assert.True(t, items[1].IsRead)
}
