// Package services wraps each backend resource in a typed veneer over the
// api client. Services perform no caching, no retries and no business
// logic; errors from the client propagate unchanged.
package services

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/five82/haven/internal/api"
)

// Set bundles every resource service around one client.
type Set struct {
	Auth          *AuthService
	Chat          *ChatService
	Articles      *ArticleService
	Community     *CommunityService
	Forum         *ForumService
	Songs         *SongService
	Stories       *StoryService
	Moderation    *ModerationService
	Notifications *NotificationService
	Uploads       *UploadService
	Mood          *MoodService
	Gamification  *GamificationService
}

// New builds the full service set.
func New(client *api.Client) *Set {
	return &Set{
		Auth:          &AuthService{c: client},
		Chat:          &ChatService{c: client},
		Articles:      &ArticleService{c: client},
		Community:     &CommunityService{c: client},
		Forum:         &ForumService{c: client},
		Songs:         &SongService{c: client},
		Stories:       &StoryService{c: client},
		Moderation:    &ModerationService{c: client},
		Notifications: &NotificationService{c: client},
		Uploads:       &UploadService{c: client},
		Mood:          &MoodService{c: client},
		Gamification:  &GamificationService{c: client},
	}
}

// PageQuery is the common pagination input.
type PageQuery struct {
	Page  int
	Limit int
}

func (q PageQuery) params() api.Params {
	p := api.Params{}
	if q.Page > 0 {
		p["page"] = q.Page
	}
	if q.Limit > 0 {
		p["limit"] = q.Limit
	}
	return p
}

// InputError reports a form field that failed local validation before any
// request was sent.
type InputError struct {
	Field   string
	Rule    string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

var (
	inputOnce  sync.Once
	inputCheck *validator.Validate
)

func inputValidator() *validator.Validate {
	inputOnce.Do(func() {
		inputCheck = validator.New(validator.WithRequiredStructEnabled())
		inputCheck.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return inputCheck
}

// validateInput checks a request payload and converts the first failure into
// an InputError.
func validateInput(v any) error {
	err := inputValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &InputError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &InputError{
		Field:   fe.Field(),
		Rule:    fe.Tag(),
		Message: fieldMessage(fe),
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func authed(token string) api.RequestOptions {
	return api.RequestOptions{Token: token}
}

