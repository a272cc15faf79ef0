package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// createPlayQueue builds a server-side play queue seeded with one item and
// returns its ID. Players consume queues through their container key rather
// than raw metadata keys.
func (s *Server) createPlayQueue(ctx context.Context, item Object) (int64, error) {
	params := url.Values{}
	params.Set("type", playlistTypeOf(item))
	params.Set("uri", s.itemsURI([]Object{item}))
	params.Set("shuffle", "0")
	params.Set("repeat", "0")
	params.Set("continuous", "0")

	c, err := s.queryContainer(ctx, http.MethodPost, "/playQueues", params, nil)
	if err != nil {
		return 0, err
	}
	id := atoi64(c.PlayQueueID)
	if id == 0 {
		return 0, fmt.Errorf("%w: server returned no play queue id", ErrNotFound)
	}
	return id, nil
}
