package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int64  `json:"id" validate:"required"`
	Title string `json:"title"`
}

type countingNotifier struct{ n atomic.Int32 }

func (c *countingNotifier) RateLimited() { c.n.Add(1) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func asAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "error %T is not *APIError: %v", err, err)
	return apiErr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetDecodesEnvelopeAndSetsHeaders(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 7, "title": "Breathing 101"},
		})
	})

	resp, err := Get[Response[item]](context.Background(), c, "/articles/7", RequestOptions{
		Token:  "tok-1",
		Params: Params{"lang": "en", "draft": ""},
		Header: http.Header{"X-Client": []string{"tests"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Data.ID)
	assert.Equal(t, "Breathing 101", resp.Data.Title)

	require.NotNil(t, got)
	assert.Equal(t, "/api/articles/7", got.URL.Path)
	assert.Equal(t, "lang=en", got.URL.RawQuery)
	assert.Equal(t, "Bearer tok-1", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "tests", got.Header.Get("X-Client"))
	assert.True(t, strings.HasPrefix(got.Header.Get("User-Agent"), "haven/"))
	assert.NotEmpty(t, got.Header.Get("X-Request-Id"))
}

func TestClient_NoAuthorizationWithoutToken(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []item{}})
	})

	_, err := Get[Response[[]item]](context.Background(), c, "/articles", RequestOptions{})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestClient_PostSerializesBody(t *testing.T) {
	var body map[string]any
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": 1}})
	})

	_, err := Post[Response[item]](context.Background(), c, "/journals", RequestOptions{
		Body: map[string]any{"title": "Today", "mood": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "Today", body["title"])
	assert.Equal(t, float64(4), body["mood"])
}

func TestClient_NotFoundMapsToAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false, "message": "Not found", "code": "NOT_FOUND", "requestId": "r-42",
		})
	})

	_, err := Get[Response[item]](context.Background(), c, "/articles/999", RequestOptions{})
	apiErr := asAPIError(t, err)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Not found", apiErr.Message())
	assert.Equal(t, "NOT_FOUND", apiErr.Code())
	assert.Equal(t, http.StatusNotFound, apiErr.Status())
	assert.Equal(t, "r-42", apiErr.RequestID())
}

func TestClient_ErrorFallsBackToErrorFieldThenGeneric(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Bad mood value"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	})

	_, err := Get[Response[item]](context.Background(), c, "/mood", RequestOptions{})
	apiErr := asAPIError(t, err)
	assert.Equal(t, "Bad mood value", apiErr.Message())
	assert.Equal(t, CodeUnknown, apiErr.Code())

	_, err = Get[Response[item]](context.Background(), c, "/mood", RequestOptions{})
	apiErr = asAPIError(t, err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status())
	assert.Equal(t, fallbackMessage, apiErr.Message())
}

func TestClient_NoContentResolvesToZeroValue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := Post[*Response[item]](context.Background(), c, "/notifications/read-all", RequestOptions{})
	require.NoError(t, err)
	assert.Nil(t, got)

	dest := &item{ID: 5}
	require.NoError(t, c.Do(context.Background(), http.MethodDelete, "/x", RequestOptions{}, dest))
	assert.Equal(t, int64(5), dest.ID)
}

func TestClient_TimeoutMapsTo408(t *testing.T) {
	cancelled := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(cancelled)
	})

	start := time.Now()
	_, err := Get[Response[item]](context.Background(), c, "/slow", RequestOptions{Timeout: 50 * time.Millisecond})
	apiErr := asAPIError(t, err)
	assert.Equal(t, CodeTimeout, apiErr.Code())
	assert.Equal(t, http.StatusRequestTimeout, apiErr.Status())
	assert.True(t, apiErr.IsTimeout())
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("server never observed request cancellation")
	}
}

func TestClient_DefaultTimeoutOption(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, WithTimeout(30*time.Millisecond))

	err := c.Do(context.Background(), http.MethodGet, "/slow", RequestOptions{}, nil)
	assert.Equal(t, CodeTimeout, asAPIError(t, err).Code())
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(url)
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "/articles", RequestOptions{}, nil)
	apiErr := asAPIError(t, err)
	assert.Equal(t, CodeNetworkError, apiErr.Code())
	assert.Equal(t, StatusNetworkError, apiErr.Status())
	assert.NotNil(t, apiErr.Unwrap())
}

func TestClient_CallerCancellationIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := c.Do(ctx, http.MethodGet, "/slow", RequestOptions{}, nil)
	apiErr := asAPIError(t, err)
	assert.Equal(t, CodeNetworkError, apiErr.Code())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RateLimitNotifiesEveryTime(t *testing.T) {
	notifier := &countingNotifier{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"message": "Slow down", "code": "RATE_LIMITED"})
	}, WithNotifier(notifier))

	for i := 0; i < 3; i++ {
		err := c.Do(context.Background(), http.MethodGet, "/chat/sessions", RequestOptions{}, nil)
		assert.True(t, asAPIError(t, err).IsRateLimited())
	}
	// Throttling is the notifier's job; the client reports every 429.
	assert.Equal(t, int32(3), notifier.n.Load())
}

func TestClient_InvalidResponses(t *testing.T) {
	bodies := map[string]string{
		"/garbage":    `{not-json`,
		"/empty":      ``,
		"/unsuccess":  `{"success":false,"data":{"id":1}}`,
		"/missing-id": `{"success":true,"data":{"title":"no id"}}`,
		"/bad-page":   `{"success":true,"data":[{"id":1},{"id":2},{"id":3}],"page":1,"limit":2,"total_items":3,"total_pages":2}`,
		"/bad-total":  `{"success":true,"data":[{"id":1}],"page":1,"limit":2,"total_items":5,"total_pages":2}`,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, bodies[strings.TrimPrefix(r.URL.Path, "/api")])
	})

	for _, path := range []string{"/garbage", "/empty", "/unsuccess", "/missing-id"} {
		_, err := Get[Response[item]](context.Background(), c, path, RequestOptions{})
		apiErr := asAPIError(t, err)
		assert.Equal(t, CodeInvalidResponse, apiErr.Code(), path)
		assert.Equal(t, http.StatusOK, apiErr.Status(), path)
	}
	for _, path := range []string{"/bad-page", "/bad-total"} {
		_, err := Get[Paginated[item]](context.Background(), c, path, RequestOptions{})
		assert.Equal(t, CodeInvalidResponse, asAPIError(t, err).Code(), path)
	}
}

func TestClient_PaginatedDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":1},{"id":2}],"page":1,"limit":2,"total_items":3,"total_pages":2}`)
	})

	page, err := Get[Paginated[item]](context.Background(), c, "/articles", RequestOptions{Params: Params{"limit": 2}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasMore())
}

func TestClient_UploadSendsMultipart(t *testing.T) {
	var contentType, auth, field, fileBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		field = r.FormValue("kind")
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		fileBody = string(b)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 9}})
	})

	resp, err := Upload[Response[item]](context.Background(), c, "/uploads", Form{
		Fields: map[string]string{"kind": "avatar"},
		Files:  []FormFile{{Field: "file", Filename: "me.png", Content: strings.NewReader("PNG")}},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.Data.ID)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "avatar", field)
	assert.Equal(t, "PNG", fileBody)
}

func TestClient_UploadRejectsEmptyPart(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	require.NoError(t, err)
	err = c.Upload(context.Background(), "/uploads", Form{Files: []FormFile{{Field: "file"}}}, "", nil)
	assert.Error(t, err)
}

func TestClient_UndecodedBodyIsStillChecked(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"empty", "", true},
		{"success envelope", `{"success":true}`, true},
		{"bare object", `{"liked":true}`, true},
		{"failed envelope", `{"success":false}`, false},
		{"not json", `<html>oops</html>`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, tc.body)
			})
			err := c.Do(context.Background(), http.MethodPost, "/posts/2/like", RequestOptions{}, nil)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			apiErr := asAPIError(t, err)
			assert.Equal(t, CodeInvalidResponse, apiErr.Code())
			assert.Equal(t, http.StatusOK, apiErr.Status())
		})
	}
}
