package api

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Response is the backend success envelope.
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      T      `json:"data"`
	RequestID string `json:"requestId,omitempty"`
}

// Validate rejects envelopes that do not claim success.
func (r Response[T]) Validate() error {
	if !r.Success {
		return errors.New("envelope success flag is false")
	}
	return nil
}

// Paginated is the paginated variant of the success envelope.
type Paginated[T any] struct {
	Success    bool   `json:"success"`
	Data       []T    `json:"data"`
	Page       int    `json:"page" validate:"gte=0"`
	Limit      int    `json:"limit" validate:"gte=0"`
	TotalItems int    `json:"total_items" validate:"gte=0"`
	TotalPages int    `json:"total_pages" validate:"gte=0"`
	RequestID  string `json:"requestId,omitempty"`
}

// Validate checks the pagination invariants the backend promises.
func (p Paginated[T]) Validate() error {
	if !p.Success {
		return errors.New("envelope success flag is false")
	}
	if p.Limit > 0 && len(p.Data) > p.Limit {
		return errors.Errorf("page holds %d items, limit is %d", len(p.Data), p.Limit)
	}
	if p.Limit > 0 {
		want := (p.TotalItems + p.Limit - 1) / p.Limit
		if p.TotalPages != want {
			return errors.Errorf("total_pages = %d, want %d for %d items at limit %d", p.TotalPages, want, p.TotalItems, p.Limit)
		}
	}
	return nil
}

// HasMore reports whether a later page exists.
func (p Paginated[T]) HasMore() bool {
	return p.Page < p.TotalPages
}

// validatable is implemented by payloads with invariants beyond struct tags.
type validatable interface {
	Validate() error
}

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		structCheck = validator.New(validator.WithRequiredStructEnabled())
	})
	return structCheck
}

// validatePayload runs struct-tag validation (recursing into envelope data)
// followed by any Validate hook.
func validatePayload(dest any) error {
	if dest == nil {
		return nil
	}
	rv := reflect.ValueOf(dest)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if err := validateValue(rv); err != nil {
		return err
	}
	if v, ok := rv.Interface().(validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		if err := structValidator().Struct(rv.Interface()); err != nil {
			return errors.Wrap(err, "schema")
		}
		// Envelopes carry their payload in Data; validate it too.
		if data := rv.FieldByName("Data"); data.IsValid() {
			return validateValue(data)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateValue(rv.Index(i)); err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			return validateValue(rv.Elem())
		}
	}
	return nil
}
