package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single round trip when no WithTimeout is given.
	DefaultTimeout = 15 * time.Second

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// Client issues API calls against a base URL, attaching the session's
// bearer token and normalizing every outcome into a Response or one of
// NetworkError, ClientError, ServerError, DecodeError.
type Client struct {
	baseURL string
	rest    *resty.Client
	session Session
	log     Logger
	metrics *Metrics
}

// Option configures a Client during New.
type Option func(*Client) error

// WithTimeout sets the per-request timeout of the underlying transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.rest.SetTimeout(d)
		return nil
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		c.log = ensureLogger(log)
		c.rest.SetLogger(restyLogger{log: c.log})
		return nil
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		if rt == nil {
			return fmt.Errorf("transport must not be nil")
		}
		c.rest.SetTransport(rt)
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.rest.SetHeader("User-Agent", ua)
		}
		return nil
	}
}

// New builds a Client for baseURL. sess may be nil, in which case requests
// are sent without authorization.
func New(baseURL string, sess Session, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("base url is empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if sess == nil {
		sess = anonymousSession{}
	}

	c := &Client{
		baseURL: base,
		rest:    newRestyBaseClient(DefaultTimeout),
		session: sess,
		log:     noopLogger{},
	}
	c.rest.SetLogger(restyLogger{log: c.log})

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// newRestyBaseClient creates a resty.Client that never retries.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostMultipart issues a POST with a multipart body.
func (c *Client) PostMultipart(ctx context.Context, path string, form *Multipart) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: ensureForm(form)})
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// PatchMultipart issues a PATCH with a multipart body.
func (c *Client) PatchMultipart(ctx context.Context, path string, form *Multipart) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Form: ensureForm(form)})
}

// Delete issues a DELETE with no body.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Do performs one round trip. The token is read from the session at call
// time; a 204 returns (nil, nil).
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if c == nil || c.rest == nil {
		return nil, errors.New("http client is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}

	token, err := c.session.Token()
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}

	requestID := uuid.NewString()
	req := c.rest.R().
		SetContext(ctx).
		SetHeader(headerAccept, contentTypeJSON).
		SetHeader(headerRequestID, requestID)

	if token != "" {
		req.SetHeader(headerAuthorization, "Bearer "+token)
	}

	switch {
	case r.Form != nil:
		r.Form.apply(req)
	case method != http.MethodGet:
		req.SetHeader(headerContentType, contentTypeJSON)
		if r.Body != nil {
			req.SetBody(r.Body)
		}
	}

	target := c.url(r.Path)
	start := time.Now()
	resp, err := req.Execute(method, target)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.observe(method, 0, elapsed)
		c.log.WarnObj("api request failed", "request_error", map[string]any{
			"request_id": requestID,
			"method":     method,
			"path":       r.Path,
			"elapsed_ms": elapsed.Milliseconds(),
			"error":      err.Error(),
		})
		return nil, &NetworkError{Err: err}
	}

	status := resp.StatusCode()
	c.metrics.observe(method, status, elapsed)
	c.log.DebugObj("api request completed", "request_meta", map[string]any{
		"request_id":    requestID,
		"method":        method,
		"path":          r.Path,
		"status":        status,
		"elapsed_ms":    elapsed.Milliseconds(),
		"authenticated": token != "",
		"multipart":     r.Form != nil,
	})

	return normalize(status, resp.Body())
}

// url joins path onto the base URL.
func (c *Client) url(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func ensureForm(form *Multipart) *Multipart {
	if form == nil {
		return NewMultipart()
	}
	return form
}
