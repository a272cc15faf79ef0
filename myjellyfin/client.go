package myjellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jellyfinapi/internal/logging"
	"jellyfinapi/jellyfin"
)

// DefaultBaseURL is the MyJellyfin cloud endpoint.
const DefaultBaseURL = "https://my.jellyfin.tv"

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the MyJellyfin cloud API.
type Client struct {
	baseURL  string
	http     HTTPDoer
	identity jellyfin.Identity
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the cloud endpoint, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithIdentity overrides the advertised client identity.
func WithIdentity(identity jellyfin.Identity) ClientOption {
	return func(c *Client) {
		c.identity = identity
	}
}

// WithLogger attaches a logger; requests are logged at debug level.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a MyJellyfin cloud client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		identity: jellyfin.DefaultIdentity(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doJSON issues a JSON request and decodes the response into out when out is
// non-nil. Error statuses map onto the jellyfin sentinel errors.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, token string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.identity.Apply(req)
	if token != "" {
		req.Header.Set("X-Jellyfin-Token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("myjellyfin %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "cloud request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return cloudStatusError(method, path, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

// doXML issues a request and decodes an XML response, used by the resources
// endpoint which still speaks XML.
func (c *Client) doXML(ctx context.Context, method, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	c.identity.Apply(req)
	if token != "" {
		req.Header.Set("X-Jellyfin-Token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("myjellyfin %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "cloud request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return cloudStatusError(method, path, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

func cloudStatusError(method, path string, status int, body string) error {
	detail := ""
	if body != "" {
		detail = ": " + body
	}
	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: myjellyfin %s %s returned %d%s", jellyfin.ErrUnauthorized, method, path, status, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: myjellyfin %s %s returned %d%s", jellyfin.ErrNotFound, method, path, status, detail)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: myjellyfin %s %s returned %d%s", jellyfin.ErrBadRequest, method, path, status, detail)
	default:
		return fmt.Errorf("myjellyfin %s %s returned %d%s", method, path, status, detail)
	}
}
