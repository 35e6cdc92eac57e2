package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// NotificationService covers in-app notifications.
type NotificationService struct {
	c *api.Client
}

// NotificationQuery filters the notification list.
type NotificationQuery struct {
	PageQuery
	UnreadOnly bool
}

// List returns a page of notifications, newest first.
func (s *NotificationService) List(ctx context.Context, token string, query NotificationQuery) (api.Paginated[models.Notification], error) {
	opts := authed(token)
	opts.Params = query.params()
	if query.UnreadOnly {
		opts.Params["unread_only"] = true
	}
	return api.Get[api.Paginated[models.Notification]](ctx, s.c, "/notifications", opts)
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, token string, id int64) error {
	return s.c.Do(ctx, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), authed(token), nil)
}

// MarkAllRead marks every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, token string) error {
	return s.c.Do(ctx, http.MethodPut, "/notifications/read-all", authed(token), nil)
}

// UnreadCount returns the badge count.
func (s *NotificationService) UnreadCount(ctx context.Context, token string) (int, error) {
	resp, err := api.Get[api.Response[models.UnreadCount]](ctx, s.c, "/notifications/unread-count", authed(token))
	if err != nil {
		return 0, err
	}
	return resp.Data.Count, nil
}
