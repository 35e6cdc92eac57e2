package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// CommunityService covers journals and the community feed.
type CommunityService struct {
	c *api.Client
}

// JournalInput is the journal editor form.
type JournalInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required"`
	Mood        int      `json:"mood" validate:"omitempty,gte=1,lte=5"`
	Tags        []string `json:"tags,omitempty"`
	ShareWithAI bool     `json:"share_with_ai"`
	IsPublic    bool     `json:"is_public"`
}

// ListJournals returns the caller's journal entries.
func (s *CommunityService) ListJournals(ctx context.Context, token string) ([]models.Journal, error) {
	resp, err := api.Get[api.Response[[]models.Journal]](ctx, s.c, "/journals", authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateJournal stores a new entry.
func (s *CommunityService) CreateJournal(ctx context.Context, token string, in JournalInput) (models.Journal, error) {
	if err := validateInput(in); err != nil {
		return models.Journal{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.Journal]](ctx, s.c, "/journals", opts)
	if err != nil {
		return models.Journal{}, err
	}
	return resp.Data, nil
}

// UpdateJournal replaces an entry.
func (s *CommunityService) UpdateJournal(ctx context.Context, token string, id int64, in JournalInput) (models.Journal, error) {
	if err := validateInput(in); err != nil {
		return models.Journal{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Put[api.Response[models.Journal]](ctx, s.c, fmt.Sprintf("/journals/%d", id), opts)
	if err != nil {
		return models.Journal{}, err
	}
	return resp.Data, nil
}

// DeleteJournal removes an entry.
func (s *CommunityService) DeleteJournal(ctx context.Context, token string, id int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/journals/%d", id), authed(token), nil)
}

// SetAIShare toggles whether the companion may read an entry.
func (s *CommunityService) SetAIShare(ctx context.Context, token string, id int64, share bool) error {
	opts := authed(token)
	opts.Body = map[string]bool{"share_with_ai": share}
	return s.c.Do(ctx, http.MethodPut, fmt.Sprintf("/journals/%d/ai-share", id), opts, nil)
}

// CommunityFeed returns public journal entries.
func (s *CommunityService) CommunityFeed(ctx context.Context, token string, page PageQuery) (api.Paginated[models.Journal], error) {
	opts := authed(token)
	opts.Params = page.params()
	return api.Get[api.Paginated[models.Journal]](ctx, s.c, "/community/feed", opts)
}
