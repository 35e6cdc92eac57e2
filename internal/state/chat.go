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

// Chat caches chat sessions and the messages of the open session.
type Chat struct {
	deps Deps

	mu       sync.RWMutex
	sessions []models.ChatSession
	active   int64
	messages []models.ChatMessage
}

// NewChat returns an empty container.
func NewChat(deps Deps) *Chat {
	return &Chat{deps: deps}
}

// LoadSessions replaces the session list.
func (c *Chat) LoadSessions(ctx context.Context) error {
	sessions, err := c.deps.Services.Chat.ListSessions(ctx, c.deps.token())
	if err != nil {
		c.deps.observe(err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = clone(sessions)
	return nil
}

// Sessions returns a copy of the session list.
func (c *Chat) Sessions() []models.ChatSession {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.sessions)
}

// Open makes sessionID active and loads its messages.
func (c *Chat) Open(ctx context.Context, sessionID int64) error {
	msgs, err := c.deps.Services.Chat.ListMessages(ctx, c.deps.token(), sessionID)
	if err != nil {
		c.deps.observe(err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = sessionID
	c.messages = clone(msgs)
	return nil
}

// Active returns the open session id, zero when none is open.
func (c *Chat) Active() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Messages returns a copy of the open session's messages.
func (c *Chat) Messages() []models.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.messages)
}

// Create starts a session, prepends it and opens it.
func (c *Chat) Create(ctx context.Context, title string) (models.ChatSession, error) {
	session, err := c.deps.Services.Chat.CreateSession(ctx, c.deps.token(), title)
	if err != nil {
		return models.ChatSession{}, c.deps.fail("Could not start chat", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append([]models.ChatSession{session}, c.sessions...)
	c.active = session.ID
	c.messages = nil
	return session, nil
}

// Delete removes sessionID from the list before the server confirms.
func (c *Chat) Delete(ctx context.Context, sessionID int64) error {
	return c.deps.mutate(ctx, &c.mu, optimistic.Mutation{
		Label: "delete chat",
		Apply: func() func() {
			undo := optimistic.Remove(&c.sessions, func(s models.ChatSession) bool { return s.ID == sessionID })
			if c.active != sessionID {
				return undo
			}
			messages := c.messages
			c.active = 0
			c.messages = nil
			return optimistic.Join(undo, func() {
				// Leave a session opened in the meantime alone.
				if c.active == 0 {
					c.active = sessionID
					c.messages = messages
				}
			})
		},
		Commit: func(ctx context.Context) error {
			return c.deps.Services.Chat.DeleteSession(ctx, c.deps.token(), sessionID)
		},
	})
}

// Send shows the user's message as pending, posts it and swaps in the stored
// turn plus the assistant reply. The pending message is removed on failure.
func (c *Chat) Send(ctx context.Context, content string) error {
	c.mu.RLock()
	sessionID := c.active
	c.mu.RUnlock()
	if sessionID == 0 {
		return errors.New("no chat session is open")
	}

	in := services.SendMessageInput{Content: content}
	pending := models.ChatMessage{SessionID: sessionID, Role: models.RoleUser, Content: content, Pending: true}
	isPending := func(m models.ChatMessage) bool { return m == pending }
	var result models.SendMessageResult
	err := c.deps.mutate(ctx, &c.mu, optimistic.Mutation{
		Label: "send message",
		Apply: func() func() {
			return optimistic.Append(&c.messages, pending, isPending)
		},
		Commit: func(ctx context.Context) error {
			var err error
			result, err = c.deps.Services.Chat.SendMessage(ctx, c.deps.token(), sessionID, in)
			return err
		},
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != sessionID {
		return nil
	}
	if i := slices.IndexFunc(c.messages, isPending); i >= 0 {
		c.messages = slices.Delete(slices.Clone(c.messages), i, i+1)
	}
	c.messages = append(c.messages, result.UserMessage)
	if result.AssistantMessage != nil {
		c.messages = append(c.messages, *result.AssistantMessage)
	}
	return nil
}

// Reset drops everything cached.
func (c *Chat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = nil
	c.active = 0
	c.messages = nil
}
