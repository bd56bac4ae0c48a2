package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultMaxBodySize caps how much of a response ReadBody keeps in memory.
const DefaultMaxBodySize = 1 << 20

var ErrBodyTooLarge = errors.New("response body too large")

var _ HTTPClient = (*httpClient)(nil)

type HTTPClient interface {
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)
	Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*httpClient)

// WithUserAgent sets the User-Agent sent unless a call overrides it.
func WithUserAgent(userAgent string) Option {
	return func(c *httpClient) { c.defaults["User-Agent"] = userAgent }
}

func WithTransport(transport http.RoundTripper) Option {
	return func(c *httpClient) { c.client.Transport = transport }
}

type httpClient struct {
	client   *http.Client
	defaults map[string]string
}

func NewHTTPClient(timeout time.Duration, opts ...Option) HTTPClient {
	c := &httpClient{
		client:   &http.Client{Timeout: timeout},
		defaults: map[string]string{"Accept": "application/json"},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *httpClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, url, nil, headers)
}

func (c *httpClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, body, headers)
}

func (c *httpClient) Do(req *http.Request) (*http.Response, error) {
	c.applyHeaders(req, nil)
	return c.client.Do(req)
}

func (c *httpClient) send(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}

	c.applyHeaders(req, headers)

	return c.client.Do(req)
}

// applyHeaders sets per-call headers over the client defaults. Headers the
// caller already put on req are left alone.
func (c *httpClient) applyHeaders(req *http.Request, headers map[string]string) {
	for key, value := range c.defaults {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

// ReadBody reads and closes resp.Body, failing when it exceeds limit bytes.
// A limit <= 0 means DefaultMaxBodySize.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()

	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}

	return body, nil
}

// IsTimeout reports whether err came from a client timeout or an expired
// context deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
