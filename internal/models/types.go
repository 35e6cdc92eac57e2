// Package models holds plain records mirroring the platform's backend
// shapes. The backend owns their canonical state.
package models

import (
	"time"
)

const backendTimestampLayout = "2006-01-02 15:04:05"

// User is the authenticated account.
type User struct {
	ID          int64  `json:"id" validate:"required"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

// IsModerator reports whether the user can act on reports.
func (u User) IsModerator() bool {
	return u.Role == "moderator" || u.Role == "admin"
}

// AuthSession is returned by login and register.
type AuthSession struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
	User         User   `json:"user"`
}

// ChatSession is one conversation with the companion assistant.
type ChatSession struct {
	ID            int64  `json:"id" validate:"required"`
	Title         string `json:"title"`
	LastMessage   string `json:"last_message"`
	MessagesCount int    `json:"messages_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (s ChatSession) ParsedUpdatedAt() time.Time {
	return ParseTime(s.UpdatedAt)
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a chat session.
type ChatMessage struct {
	ID        int64  `json:"id"`
	SessionID int64  `json:"session_id"`
	Role      string `json:"role" validate:"omitempty,oneof=user assistant system"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	Pending   bool   `json:"-"`
}

// SendMessageResult carries the stored user turn and the assistant reply.
type SendMessageResult struct {
	UserMessage      ChatMessage  `json:"user_message"`
	AssistantMessage *ChatMessage `json:"assistant_message"`
}

// Category groups articles.
type Category struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Article is a psycho-education article.
type Article struct {
	ID          int64    `json:"id" validate:"required"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	CategoryID  int64    `json:"category_id"`
	Category    string   `json:"category"`
	ReadMinutes int      `json:"read_minutes"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"published_at"`
}

// MoodEntry is one mood check-in. Score is 1 (very low) to 5 (great).
type MoodEntry struct {
	ID        int64    `json:"id"`
	Score     int      `json:"score" validate:"gte=1,lte=5"`
	Note      string   `json:"note"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}

// MoodSummary aggregates recent check-ins.
type MoodSummary struct {
	Average    float64        `json:"average"`
	Entries    int            `json:"entries"`
	StreakDays int            `json:"streak_days"`
	ByScore    map[string]int `json:"by_score"`
}

// BreathingSession records a completed breathing exercise.
type BreathingSession struct {
	ID              int64  `json:"id"`
	Pattern         string `json:"pattern"`
	DurationSeconds int    `json:"duration_seconds"`
	Completed       bool   `json:"completed"`
	CompletedAt     string `json:"completed_at"`
}

// Journal is a private journal entry that can optionally be shared with the
// AI companion for context.
type Journal struct {
	ID          int64    `json:"id" validate:"required"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Mood        int      `json:"mood"`
	Tags        []string `json:"tags"`
	ShareWithAI bool     `json:"share_with_ai"`
	IsPublic    bool     `json:"is_public"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// Forum is a discussion board.
type Forum struct {
	ID          int64  `json:"id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PostsCount  int    `json:"posts_count"`
}

// ForumPost is a question or discussion post in a forum.
type ForumPost struct {
	ID            int64  `json:"id" validate:"required"`
	ForumID       int64  `json:"forum_id"`
	ParentID      int64  `json:"parent_id"`
	AuthorID      int64  `json:"author_id"`
	AuthorName    string `json:"author_name"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	LikesCount    int    `json:"likes_count" validate:"gte=0"`
	IsLiked       bool   `json:"is_liked"`
	IsBestAnswer  bool   `json:"is_best_answer"`
	IsAnonymous   bool   `json:"is_anonymous"`
	CommentsCount int    `json:"comments_count"`
	CreatedAt     string `json:"created_at"`
}

// Comment is a reply under a forum post.
type Comment struct {
	ID         int64  `json:"id" validate:"required"`
	PostID     int64  `json:"post_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// Song is a relaxation track.
type Song struct {
	ID              int64  `json:"id" validate:"required"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Genre           string `json:"genre"`
	DurationSeconds int    `json:"duration_seconds"`
	URL             string `json:"url"`
}

// Playlist is a user-curated list of songs.
type Playlist struct {
	ID    int64  `json:"id" validate:"required"`
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// Story is a recovery story shared by the community.
type Story struct {
	ID          int64  `json:"id" validate:"required"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	AuthorName  string `json:"author_name"`
	PublishedAt string `json:"published_at"`
}

// Badge is a gamification achievement.
type Badge struct {
	ID          int64  `json:"id" validate:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
	EarnedAt    string `json:"earned_at"`
}

// UserProgress tracks points and level.
type UserProgress struct {
	Points       int `json:"points" validate:"gte=0"`
	Level        int `json:"level"`
	NextLevelAt  int `json:"next_level_at"`
	BadgesEarned int `json:"badges_earned"`
}

// Notification is an in-app notification.
type Notification struct {
	ID        int64  `json:"id" validate:"required"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Link      string `json:"link"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// UnreadCount mirrors the unread-count endpoint.
type UnreadCount struct {
	Count int `json:"count" validate:"gte=0"`
}

// Report is a moderation report filed against content or a user.
type Report struct {
	ID         int64  `json:"id"`
	TargetType string `json:"target_type" validate:"required,oneof=post comment user journal message"`
	TargetID   int64  `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	Details    string `json:"details"`
	Status     string `json:"status"`
}

// BlockedUser is an entry in the caller's block list.
type BlockedUser struct {
	UserID    int64  `json:"user_id" validate:"required"`
	Username  string `json:"username"`
	BlockedAt string `json:"blocked_at"`
}

// Upload describes a stored file.
type Upload struct {
	ID          int64  `json:"id"`
	URL         string `json:"url" validate:"required"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ParseTime parses backend timestamps, returning the zero time when the
// value is empty or unrecognized.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(backendTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
