package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart body: plain fields plus file parts.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

func (f Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range f.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", name)
		}
	}
	for _, file := range f.Files {
		if file.Content == nil {
			return nil, "", errors.Errorf("file part %s has no content", file.Field)
		}
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create part %s", file.Field)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", errors.Wrapf(err, "copy part %s", file.Field)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return buf, w.FormDataContentType(), nil
}

// Upload posts a multipart form. The JSON content type is not applied; the
// boundary content type comes from the multipart writer.
func (c *Client) Upload(ctx context.Context, endpoint string, form Form, token string, dest any) error {
	if c == nil {
		return errors.New("client is nil")
	}
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, endpoint, RequestOptions{Token: token}, body, contentType, dest)
}

// Upload posts a multipart form and decodes the body as T.
func Upload[T any](ctx context.Context, c *Client, endpoint string, form Form, token string) (T, error) {
	var out T
	if err := c.Upload(ctx, endpoint, form, token, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
