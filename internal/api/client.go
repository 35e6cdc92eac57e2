package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultTimeout bounds a single request when RequestOptions.Timeout is zero.
	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "haven/0.1"
	maxBodyBytes     = 8 << 20
	requestIDHeader  = "X-Request-Id"
)

// RateLimitNotifier is told about every 429 response. Implementations decide
// whether the user actually sees anything.
type RateLimitNotifier interface {
	RateLimited()
}

// RequestOptions configures a single call.
type RequestOptions struct {
	Token   string
	Timeout time.Duration
	Body    any
	Params  Params
	Header  http.Header
}

// Client talks to the platform REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	timeout   time.Duration
	notifier  RateLimitNotifier
	logger    *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout changes the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithNotifier installs the rate-limit notifier.
func WithNotifier(n RateLimitNotifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		timeout:   DefaultTimeout,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns a copy of the configured base address.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Do performs a JSON request and decodes a successful body into dest. A 204
// response leaves dest untouched. Failures are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, endpoint string, opts RequestOptions, dest any) error {
	if c == nil {
		return errors.New("client is nil")
	}
	var body io.Reader
	if opts.Body != nil {
		buf, err := json.Marshal(opts.Body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(buf)
	}
	return c.send(ctx, method, endpoint, opts, body, "application/json", dest)
}

func (c *Client) send(ctx context.Context, method, endpoint string, opts RequestOptions, body io.Reader, contentType string, dest any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := BuildURL(c.baseURL, endpoint, opts.Params)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	log := c.logger.With("method", method, "endpoint", endpoint, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err, requestID)
		log.Warn("api request failed", "code", apiErr.Code(), "error", err, "duration", time.Since(start))
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		log.Debug("api request", "status", resp.StatusCode, "duration", time.Since(start))
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		apiErr := transportError(ctx, err, requestID)
		log.Warn("api response read failed", "code", apiErr.Code(), "error", err, "duration", time.Since(start))
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		headerID := resp.Header.Get(requestIDHeader)
		apiErr := errorFromBody(resp.StatusCode, raw, headerID)
		if apiErr.IsRateLimited() && c.notifier != nil {
			c.notifier.RateLimited()
		}
		log.Warn("api request rejected", "status", resp.StatusCode, "code", apiErr.Code(), "duration", time.Since(start))
		return apiErr
	}

	log.Debug("api request", "status", resp.StatusCode, "duration", time.Since(start))
	if dest == nil {
		return checkUndecoded(raw, resp.StatusCode, requestID)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewAPIError("empty response body", CodeInvalidResponse, resp.StatusCode, nil, requestID)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return NewAPIError("decode response: "+err.Error(), CodeInvalidResponse, resp.StatusCode, nil, requestID)
	}
	if err := validatePayload(dest); err != nil {
		return NewAPIError("invalid response: "+err.Error(), CodeInvalidResponse, resp.StatusCode, nil, requestID)
	}
	return nil
}

// checkUndecoded parses a success body the caller did not ask for. It must be
// JSON, and an envelope in it must claim success. An empty body passes.
func checkUndecoded(raw []byte, status int, requestID string) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return NewAPIError("decode response: "+err.Error(), CodeInvalidResponse, status, nil, requestID)
	}
	if env.Success != nil {
		if err := (Response[json.RawMessage]{Success: *env.Success}).Validate(); err != nil {
			return NewAPIError("invalid response: "+err.Error(), CodeInvalidResponse, status, nil, requestID)
		}
	}
	return nil
}

func transportError(ctx context.Context, err error, requestID string) *APIError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return newTransportError(CodeTimeout, http.StatusRequestTimeout, "Request timed out", requestID, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTransportError(CodeTimeout, http.StatusRequestTimeout, "Request timed out", requestID, err)
	}
	return newTransportError(CodeNetworkError, StatusNetworkError, "Network error: unable to reach the server", requestID, err)
}

func call[T any](ctx context.Context, c *Client, method, endpoint string, opts RequestOptions) (T, error) {
	var out T
	if err := c.Do(ctx, method, endpoint, opts, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Get issues a GET and decodes the body as T.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	return call[T](ctx, c, http.MethodGet, endpoint, opts)
}

// Post issues a POST with opts.Body as JSON.
func Post[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	return call[T](ctx, c, http.MethodPost, endpoint, opts)
}

// Put issues a PUT with opts.Body as JSON.
func Put[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	return call[T](ctx, c, http.MethodPut, endpoint, opts)
}

// Delete issues a DELETE.
func Delete[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	return call[T](ctx, c, http.MethodDelete, endpoint, opts)
}
