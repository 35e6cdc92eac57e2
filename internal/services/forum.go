package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// ForumService covers forums, posts and comments.
type ForumService struct {
	c *api.Client
}

// PostQuery filters a forum's posts. Sort is "recent" or "popular".
type PostQuery struct {
	PageQuery
	Sort string
}

// PostInput is the new-post form.
type PostInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Content     string `json:"content" validate:"required"`
	ParentID    int64  `json:"parent_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// CommentInput is the reply form.
type CommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// ListForums returns all boards.
func (s *ForumService) ListForums(ctx context.Context, token string) ([]models.Forum, error) {
	resp, err := api.Get[api.Response[[]models.Forum]](ctx, s.c, "/forums", authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPosts returns a page of posts; IsLiked reflects the caller.
func (s *ForumService) ListPosts(ctx context.Context, token string, forumID int64, query PostQuery) (api.Paginated[models.ForumPost], error) {
	opts := authed(token)
	opts.Params = query.params()
	opts.Params["sort"] = query.Sort
	return api.Get[api.Paginated[models.ForumPost]](ctx, s.c, fmt.Sprintf("/forums/%d/posts", forumID), opts)
}

// CreatePost publishes a post or an answer (ParentID set).
func (s *ForumService) CreatePost(ctx context.Context, token string, forumID int64, in PostInput) (models.ForumPost, error) {
	if err := validateInput(in); err != nil {
		return models.ForumPost{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.ForumPost]](ctx, s.c, fmt.Sprintf("/forums/%d/posts", forumID), opts)
	if err != nil {
		return models.ForumPost{}, err
	}
	return resp.Data, nil
}

// LikePost records a like.
func (s *ForumService) LikePost(ctx context.Context, token string, postID int64) error {
	return s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), authed(token), nil)
}

// UnlikePost removes a like.
func (s *ForumService) UnlikePost(ctx context.Context, token string, postID int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/like", postID), authed(token), nil)
}

// MarkBestAnswer flags an answer as the accepted one for its question.
func (s *ForumService) MarkBestAnswer(ctx context.Context, token string, postID int64) error {
	return s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/best-answer", postID), authed(token), nil)
}

// ListComments returns the replies under a post.
func (s *ForumService) ListComments(ctx context.Context, token string, postID int64) ([]models.Comment, error) {
	resp, err := api.Get[api.Response[[]models.Comment]](ctx, s.c, fmt.Sprintf("/posts/%d/comments", postID), authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AddComment replies to a post.
func (s *ForumService) AddComment(ctx context.Context, token string, postID int64, in CommentInput) (models.Comment, error) {
	if err := validateInput(in); err != nil {
		return models.Comment{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.Comment]](ctx, s.c, fmt.Sprintf("/posts/%d/comments", postID), opts)
	if err != nil {
		return models.Comment{}, err
	}
	return resp.Data, nil
}
