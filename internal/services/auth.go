package services

import (
	"context"
	"net/http"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// AuthService covers /auth endpoints.
type AuthService struct {
	c *api.Client
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=32"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.AuthSession, error) {
	if err := validateInput(in); err != nil {
		return models.AuthSession{}, err
	}
	resp, err := api.Post[api.Response[models.AuthSession]](ctx, s.c, "/auth/login", api.RequestOptions{Body: in})
	if err != nil {
		return models.AuthSession{}, err
	}
	return resp.Data, nil
}

// Register creates an account and returns its first session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.AuthSession, error) {
	if err := validateInput(in); err != nil {
		return models.AuthSession{}, err
	}
	resp, err := api.Post[api.Response[models.AuthSession]](ctx, s.c, "/auth/register", api.RequestOptions{Body: in})
	if err != nil {
		return models.AuthSession{}, err
	}
	return resp.Data, nil
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context, token string) (models.User, error) {
	resp, err := api.Get[api.Response[models.User]](ctx, s.c, "/auth/me", authed(token))
	if err != nil {
		return models.User{}, err
	}
	return resp.Data, nil
}

// Logout invalidates the token server-side.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.c.Do(ctx, http.MethodPost, "/auth/logout", authed(token), nil)
}
