package jellyfin

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// request issues an HTTP request against the server. The response body is
// open on success; callers own closing it.
func (s *Server) request(ctx context.Context, method, path string, params url.Values, headers map[string]string) (*http.Response, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := s.baseURL + path
	if len(params) > 0 {
		separator := "?"
		if strings.Contains(path, "?") {
			separator = "&"
		}
		endpoint += separator + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	s.identity.Apply(req)
	if s.token != "" {
		req.Header.Set("X-Jellyfin-Token", s.token)
	}
	for name, value := range headers {
		if strings.TrimSpace(value) == "" {
			continue
		}
		req.Header.Set(name, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jellyfin %s %s: %w", method, path, err)
	}

	s.logger.DebugContext(ctx, "request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, statusError(method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// queryContainer fetches and decodes a MediaContainer document.
func (s *Server) queryContainer(ctx context.Context, method, path string, params url.Values, headers map[string]string) (*container, error) {
	resp, err := s.request(ctx, method, path, params, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var c container
	if err := xml.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", path, err)
	}
	return &c, nil
}

// exec issues a request whose response body carries no useful payload.
func (s *Server) exec(ctx context.Context, method, path string, params url.Values) error {
	resp, err := s.request(ctx, method, path, params, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// fetchElement fetches a metadata key and returns its first element.
func (s *Server) fetchElement(ctx context.Context, key string) (string, element, error) {
	c, err := s.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return "", element{}, err
	}
	tag, el, ok := c.first()
	if !ok {
		return "", element{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return tag, el, nil
}

// FetchItem fetches a metadata key and maps it onto a typed object.
func (s *Server) FetchItem(ctx context.Context, key string) (Object, error) {
	tag, el, err := s.fetchElement(ctx, key)
	if err != nil {
		return nil, err
	}
	return itemFromElement(s, tag, el)
}
