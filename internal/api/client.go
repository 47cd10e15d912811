package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Poper173/Kilamix/internal/logging"
)

const (
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 60 * time.Second
	// DefaultRequestTimeout bounds the full exchange; generous so large
	// video uploads and downloads survive slow links.
	DefaultRequestTimeout = 300 * time.Second
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root every relative path is joined to,
	// e.g. "http://10.0.2.2:8000/api".
	BaseURL string

	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	Logger *slog.Logger

	// VerboseBodies enables full request/response body logging, bearer
	// token included. Development builds only.
	VerboseBodies bool

	// Transport overrides the HTTP transport. Tests use this.
	Transport http.RoundTripper
}

// Client constructs and executes authenticated requests against the REST
// backend. It owns the base URL, timeouts and default headers; typed
// operations live in the gateway package.
type Client struct {
	base    *url.URL
	http    *http.Client
	log     *slog.Logger
	verbose bool
}

// New validates the options and returns a ready Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api client: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api client: base url %q must be absolute", opts.BaseURL)
	}

	connect := opts.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	request := opts.RequestTimeout
	if request <= 0 {
		request = DefaultRequestTimeout
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   connect,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   request,
		},
		log:     logger,
		verbose: opts.VerboseBodies,
	}, nil
}

// Get issues an authenticated GET for the relative path.
func (c *Client) Get(ctx context.Context, path string, query url.Values, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, query, token, "", nil)
}

// Post issues an empty-bodied authenticated POST, used by action endpoints
// such as like and toggle-status.
func (c *Client) Post(ctx context.Context, path, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, token, "", nil)
}

// JSON serialises payload and issues it with Content-Type application/json.
func (c *Client) JSON(ctx context.Context, method, path, token string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("api client: encode body: %w", err)
	}
	if c.verbose {
		c.log.Debug("request body", "method", method, "path", path, "body", string(data))
	}
	return c.do(ctx, method, path, nil, token, "application/json", bytes.NewReader(data))
}

// Multipart streams a prepared multipart body. contentType must be the
// value computed by the multipart writer (it carries the boundary); the
// client never substitutes its own.
func (c *Client) Multipart(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, method, path, nil, token, contentType, body)
}

// Delete issues an authenticated DELETE for the relative path.
func (c *Client) Delete(ctx context.Context, path, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, token, "", nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token, contentType string, body io.Reader) (*http.Response, error) {
	u := c.base.JoinPath(strings.TrimPrefix(path, "/"))
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("api client: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			"method", method, "url", u.String(), "requestId", requestID, "error", err)
		return nil, &RequestError{Op: method, URL: u.String(), Err: err}
	}

	c.log.Debug("request completed",
		"method", method,
		"url", u.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"requestId", requestID,
		"authorization", c.redact(token),
	)

	return resp, nil
}

func (c *Client) redact(token string) string {
	if token == "" {
		return ""
	}
	if c.verbose {
		return "Bearer " + token
	}
	return "Bearer [redacted]"
}
