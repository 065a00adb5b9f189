// Package transport fetches NDJSON payloads over HTTP for the dispatcher.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/google/uuid"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 8 << 20

	contentTypeNDJSON = "application/x-ndjson"
	contentTypeJSON   = "application/json"
	headerRequestID   = "X-Request-Id"
)

// ErrBodyTooLarge is wrapped when a response does not fit in MaxBodyBytes.
// Nothing from such a response is returned.
var ErrBodyTooLarge = errors.New("response body too large")

// TransportError covers non-2xx responses and network failures.
type TransportError struct {
	Method string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client performs GET/POST round trips and returns the raw response text.
type Client struct {
	HTTP         *http.Client
	Timeout      time.Duration
	MaxBodyBytes int64
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP:         &http.Client{},
		Timeout:      timeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Get fetches url.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post sends body as JSON to url.
func (c *Client) Post(ctx context.Context, url string, body []byte) (string, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", &TransportError{Method: method, URL: url, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", contentTypeNDJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	events.Transport.Request(requestID, method, url, len(body))

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", &TransportError{Method: method, URL: url, Status: resp.StatusCode, Err: err}
	}
	if int64(len(data)) > limit {
		return "", &TransportError{
			Method: method,
			URL:    url,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit),
		}
	}
	events.Transport.Response(requestID, resp.StatusCode, len(data))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Method: method, URL: url, Status: resp.StatusCode}
	}
	return string(data), nil
}

// ResolveURL joins the base URL and a server-supplied reference. Absolute
// references are returned unchanged.
func ResolveURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasSuffix(base, "/") && strings.HasPrefix(ref, "/") {
		return base + strings.TrimPrefix(ref, "/")
	}
	return base + ref
}
