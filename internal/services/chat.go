package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// ChatService covers the companion chat endpoints.
type ChatService struct {
	c *api.Client
}

// SendMessageInput is the chat composer form.
type SendMessageInput struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// ListSessions returns the caller's chat sessions.
func (s *ChatService) ListSessions(ctx context.Context, token string) ([]models.ChatSession, error) {
	resp, err := api.Get[api.Response[[]models.ChatSession]](ctx, s.c, "/chat/sessions", authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateSession starts a new conversation.
func (s *ChatService) CreateSession(ctx context.Context, token, title string) (models.ChatSession, error) {
	opts := authed(token)
	opts.Body = map[string]string{"title": title}
	resp, err := api.Post[api.Response[models.ChatSession]](ctx, s.c, "/chat/sessions", opts)
	if err != nil {
		return models.ChatSession{}, err
	}
	return resp.Data, nil
}

// DeleteSession removes a conversation and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, token string, sessionID int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/chat/sessions/%d", sessionID), authed(token), nil)
}

// ListMessages returns the messages of a session, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, token string, sessionID int64) ([]models.ChatMessage, error) {
	resp, err := api.Get[api.Response[[]models.ChatMessage]](ctx, s.c, fmt.Sprintf("/chat/sessions/%d/messages", sessionID), authed(token))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SendMessage posts a user turn and returns it with the assistant reply.
func (s *ChatService) SendMessage(ctx context.Context, token string, sessionID int64, in SendMessageInput) (models.SendMessageResult, error) {
	if err := validateInput(in); err != nil {
		return models.SendMessageResult{}, err
	}
	opts := authed(token)
	opts.Body = in
	// Assistant replies can take a while to generate.
	opts.Timeout = 2 * api.DefaultTimeout
	resp, err := api.Post[api.Response[models.SendMessageResult]](ctx, s.c, fmt.Sprintf("/chat/sessions/%d/messages", sessionID), opts)
	if err != nil {
		return models.SendMessageResult{}, err
	}
	return resp.Data, nil
}
