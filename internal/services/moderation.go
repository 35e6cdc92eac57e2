package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// ModerationService covers reports and the block list.
type ModerationService struct {
	c *api.Client
}

// ReportInput is the report form.
type ReportInput struct {
	TargetType string `json:"target_type" validate:"required,oneof=post comment user journal message"`
	TargetID   int64  `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,oneof=spam harassment self_harm misinformation other"`
	Details    string `json:"details" validate:"max=1000"`
}

// Report files a moderation report.
func (s *ModerationService) Report(ctx context.Context, token string, in ReportInput) (models.Report, error) {
	if err := validateInput(in); err != nil {
		return models.Report{}, err
	}
	opts := authed(token)
	opts.Body = in
	resp, err := api.Post[api.Response[models.Report]](ctx, s.c, "/moderation/reports", opts)
	if err != nil {
		return models.Report{}, err
	}
	return resp.Data, nil
}

// ListBlocked returns the caller's block list.
func (s *ModerationService) ListBlocked(ctx context.Context, token string) ([]models.BlockedUser, error) {
	resp, err := api.Get[api.Response[[]models.BlockedUser]](ctx, s.c, "/users/blocked", authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Block hides a user's content from the caller.
func (s *ModerationService) Block(ctx context.Context, token string, userID int64) error {
	return s.c.Do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/block", userID), authed(token), nil)
}

// Unblock reverses Block.
func (s *ModerationService) Unblock(ctx context.Context, token string, userID int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/block", userID), authed(token), nil)
}
