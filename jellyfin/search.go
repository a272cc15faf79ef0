package jellyfin

import (
	"context"
	"net/http"
	"net/url"
)

// Search runs a server-wide search across every library section. The mediaType
// filter is optional; supported values match item Type attributes such as
// "movie" or "episode".
func (s *Server) Search(ctx context.Context, query, mediaType string) ([]Object, error) {
	params := url.Values{}
	params.Set("query", query)
	if mediaType != "" {
		params.Set("type", mediaType)
	}
	c, err := s.queryContainer(ctx, http.MethodGet, "/search", params, nil)
	if err != nil {
		return nil, err
	}
	return c.objects(s), nil
}
