package services

import (
	"context"
	"fmt"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// StoryService covers published recovery stories. Reading is public.
type StoryService struct {
	c *api.Client
}

// ListStories returns a page of stories.
func (s *StoryService) ListStories(ctx context.Context, page PageQuery) (api.Paginated[models.Story], error) {
	return api.Get[api.Paginated[models.Story]](ctx, s.c, "/stories", api.RequestOptions{Params: page.params()})
}

// GetStory returns a story with its full content.
func (s *StoryService) GetStory(ctx context.Context, id int64) (models.Story, error) {
	resp, err := api.Get[api.Response[models.Story]](ctx, s.c, fmt.Sprintf("/stories/%d", id), api.RequestOptions{})
	if err != nil {
		return models.Story{}, err
	}
	return resp.Data, nil
}
