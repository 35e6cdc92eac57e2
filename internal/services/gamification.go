package services

import (
	"context"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// GamificationService covers badges and progress.
type GamificationService struct {
	c *api.Client
}

// Badges returns every badge with the caller's earned state.
func (s *GamificationService) Badges(ctx context.Context, token string) ([]models.Badge, error) {
	resp, err := api.Get[api.Response[[]models.Badge]](ctx, s.c, "/gamification/badges", authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Progress returns points and level.
func (s *GamificationService) Progress(ctx context.Context, token string) (models.UserProgress, error) {
	resp, err := api.Get[api.Response[models.UserProgress]](ctx, s.c, "/gamification/progress", authed(token))
	if err != nil {
		return models.UserProgress{}, err
	}
	return resp.Data, nil
}
