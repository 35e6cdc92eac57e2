package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// UploadService covers multipart uploads.
type UploadService struct {
	c *api.Client
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// UploadImage stores an image (avatar, journal attachment) and returns its
// public URL. purpose is forwarded as a form field.
func (s *UploadService) UploadImage(ctx context.Context, token, filename, purpose string, content io.Reader) (models.Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return models.Upload{}, &InputError{Field: "file", Rule: "image", Message: "file must be an image (png, jpg, gif, webp)"}
	}
	if content == nil {
		return models.Upload{}, errors.New("upload content is nil")
	}
	form := api.Form{
		Fields: map[string]string{},
		Files:  []api.FormFile{{Field: "file", Filename: filepath.Base(filename), Content: content}},
	}
	if purpose != "" {
		form.Fields["purpose"] = purpose
	}
	resp, err := api.Upload[api.Response[models.Upload]](ctx, s.c, "/uploads", form, token)
	if err != nil {
		return models.Upload{}, err
	}
	return resp.Data, nil
}
