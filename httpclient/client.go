package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gaelhpalmer/diarized-stt/errors"
)

// Config configures a sidecar client.
type Config struct {
	// BaseURL is the sidecar endpoint, e.g. "http://localhost:8388".
	BaseURL string
	// Service is the name used in error reporting.
	Service string
	// Timeout bounds each request end to end.
	Timeout time.Duration
}

// Client is an HTTP client bound to one sidecar service.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a client for the given sidecar.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Request describes an outbound request. Path is appended to the
// client's base URL.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	// Body is the request body: *MultipartBody, io.Reader, []byte,
	// string, or any other value, which is JSON-encoded.
	Body any
}

// Response is the result of a request.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.InvalidFormat("response body", "JSON").WithCause(err)
	}
	return nil
}

// Do executes the request. Transport failures map to connection or
// timeout errors; non-2xx statuses map to an external-service error
// with the body included, alongside the response itself.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Timeout(c.cfg.Service).WithCause(err)
		}
		return nil, errors.ConnectionFailed(c.cfg.Service).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ConnectionFailed(c.cfg.Service).WithCause(err)
	}

	result := &Response{StatusCode: resp.StatusCode, Body: body}
	if !result.IsSuccess() {
		return result, errors.ExternalServiceError(c.cfg.Service,
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 512)))
	}
	return result, nil
}

// Healthy reports whether the sidecar's /health endpoint answers 200.
func (c *Client) Healthy(ctx context.Context) bool {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/health"})
	return err == nil && resp.IsSuccess()
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + req.Path
	if len(req.Query) > 0 {
		q := url.Values{}
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	var body io.Reader
	contentType := ""
	switch b := req.Body.(type) {
	case nil:
	case *MultipartBody:
		r, ct, err := b.encode()
		if err != nil {
			return nil, errors.Internal(err)
		}
		body, contentType = r, ct
	case io.Reader:
		body = b
	case []byte:
		body = bytes.NewReader(b)
	case string:
		body = strings.NewReader(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, errors.Internal(err)
		}
		body, contentType = bytes.NewReader(encoded), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
