package state

import (
	"context"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/optimistic"
	"github.com/five82/haven/internal/services"
)

// Forum caches the posts of the open forum.
type Forum struct {
	deps Deps

	mu      sync.RWMutex
	forumID int64
	posts   []models.ForumPost
	page    int
	pages   int
}

// NewForum returns an empty container.
func NewForum(deps Deps) *Forum {
	return &Forum{deps: deps}
}

// Load replaces the cached posts with one page of forumID.
func (f *Forum) Load(ctx context.Context, forumID int64, query services.PostQuery) error {
	page, err := f.deps.Services.Forum.ListPosts(ctx, f.deps.token(), forumID, query)
	if err != nil {
		f.deps.observe(err)
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forumID = forumID
	f.posts = clone(page.Data)
	f.page = page.Page
	f.pages = page.TotalPages
	return nil
}

// Posts returns a copy of the cached posts.
func (f *Forum) Posts() []models.ForumPost {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return clone(f.posts)
}

// Page reports the loaded page and the page count.
func (f *Forum) Page() (page, pages int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.page, f.pages
}

func (f *Forum) indexOf(postID int64) int {
	return slices.IndexFunc(f.posts, postByID(postID))
}

func postByID(id int64) func(models.ForumPost) bool {
	return func(p models.ForumPost) bool { return p.ID == id }
}

// ToggleLike flips the caller's like on postID and adjusts its count.
func (f *Forum) ToggleLike(ctx context.Context, postID int64) error {
	var liking bool
	f.mu.RLock()
	i := f.indexOf(postID)
	if i >= 0 {
		liking = !f.posts[i].IsLiked
	}
	f.mu.RUnlock()
	if i < 0 {
		return errors.Errorf("post %d is not loaded", postID)
	}

	label := "like post"
	if !liking {
		label = "unlike post"
	}
	return f.deps.mutate(ctx, &f.mu, optimistic.Mutation{
		Label: label,
		Apply: func() func() {
			return optimistic.Edit(&f.posts, postByID(postID),
				func(p *models.ForumPost) {
					p.IsLiked = liking
					if liking {
						p.LikesCount++
					} else if p.LikesCount > 0 {
						p.LikesCount--
					}
				},
				func(p *models.ForumPost, before models.ForumPost) {
					p.IsLiked = before.IsLiked
					p.LikesCount = before.LikesCount
				})
		},
		Commit: func(ctx context.Context) error {
			if liking {
				return f.deps.Services.Forum.LikePost(ctx, f.deps.token(), postID)
			}
			return f.deps.Services.Forum.UnlikePost(ctx, f.deps.token(), postID)
		},
	})
}

// MarkBestAnswer flags postID as the accepted answer and clears the flag on
// the other answers to the same question.
func (f *Forum) MarkBestAnswer(ctx context.Context, postID int64) error {
	f.mu.RLock()
	i := f.indexOf(postID)
	var parent int64
	if i >= 0 {
		parent = f.posts[i].ParentID
	}
	f.mu.RUnlock()
	if i < 0 {
		return errors.Errorf("post %d is not loaded", postID)
	}
	if parent == 0 {
		return errors.Errorf("post %d is a question, not an answer", postID)
	}

	return f.deps.mutate(ctx, &f.mu, optimistic.Mutation{
		Label: "mark best answer",
		Apply: func() func() {
			var undo []func()
			for _, sibling := range f.posts {
				if sibling.ParentID != parent {
					continue
				}
				best := sibling.ID == postID
				undo = append(undo, optimistic.Edit(&f.posts, postByID(sibling.ID),
					func(p *models.ForumPost) { p.IsBestAnswer = best },
					func(p *models.ForumPost, before models.ForumPost) { p.IsBestAnswer = before.IsBestAnswer }))
			}
			return optimistic.Join(undo...)
		},
		Commit: func(ctx context.Context) error {
			return f.deps.Services.Forum.MarkBestAnswer(ctx, f.deps.token(), postID)
		},
	})
}

// CreatePost publishes a post in the open forum and appends it on success.
func (f *Forum) CreatePost(ctx context.Context, in services.PostInput) (models.ForumPost, error) {
	f.mu.RLock()
	forumID := f.forumID
	f.mu.RUnlock()

	post, err := f.deps.Services.Forum.CreatePost(ctx, f.deps.token(), forumID, in)
	if err != nil {
		f.deps.observe(err)
		return models.ForumPost{}, err
	}
	f.mu.Lock()
	f.posts = append(f.posts, post)
	f.mu.Unlock()
	return post, nil
}

// Reset drops everything cached.
func (f *Forum) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forumID = 0
	f.posts = nil
	f.page, f.pages = 0, 0
}
