package services

import (
	"context"
	"time"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// MoodService covers mood check-ins and breathing exercises.
type MoodService struct {
	c *api.Client
}

// MoodQuery bounds the entry list. Zero times are omitted.
type MoodQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// MoodInput is the check-in form.
type MoodInput struct {
	Score int      `json:"score" validate:"required,gte=1,lte=5"`
	Note  string   `json:"note" validate:"max=500"`
	Tags  []string `json:"tags,omitempty"`
}

// BreathingInput records a finished exercise.
type BreathingInput struct {
	Pattern         string `json:"pattern" validate:"required,oneof=box 4-7-8 coherent"`
	DurationSeconds int    `json:"duration_seconds" validate:"required,gte=10"`
}

// ListEntries returns mood entries, newest first.
func (s *MoodService) ListEntries(ctx context.Context, token string, query MoodQuery) ([]models.MoodEntry, error) {
	opts := authed(token)
	opts.Params = api.Params{"from": query.From, "to": query.To}
	if query.Limit > 0 {
		opts.Params["limit"] = query.Limit
	}
	resp, err := api.Get[api.Response[[]models.MoodEntry]](ctx, s.c, "/mood/entries", opts)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// LogMood records a check-in.
func (s *MoodService) LogMood(ctx context.Context, token string, in MoodInput) (models.MoodEntry, error) {
	if err := validateInput(in); err != nil {
		return models.MoodEntry{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.MoodEntry]](ctx, s.c, "/mood/entries", opts)
	if err != nil {
		return models.MoodEntry{}, err
	}
	return resp.Data, nil
}

// Summary aggregates the last days of check-ins.
func (s *MoodService) Summary(ctx context.Context, token string, days int) (models.MoodSummary, error) {
	opts := authed(token)
	if days > 0 {
		opts.Params = api.Params{"days": days}
	}
	resp, err := api.Get[api.Response[models.MoodSummary]](ctx, s.c, "/mood/summary", opts)
	if err != nil {
		return models.MoodSummary{}, err
	}
	return resp.Data, nil
}

// CompleteBreathing records a finished breathing exercise.
func (s *MoodService) CompleteBreathing(ctx context.Context, token string, in BreathingInput) (models.BreathingSession, error) {
	if err := validateInput(in); err != nil {
		return models.BreathingSession{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.BreathingSession]](ctx, s.c, "/breathing/sessions", opts)
	if err != nil {
		return models.BreathingSession{}, err
	}
	return resp.Data, nil
}
