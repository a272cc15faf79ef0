package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Playlist represents a server-side playlist.
type Playlist struct {
	Item
	PlaylistType string
	Smart        bool
	Composite    string
	Duration     time.Duration
	LeafCount    int
}

func (p *Playlist) load(srv *Server, el element) {
	p.loadItem(srv, el)
	p.PlaylistType = el.PlaylistType
	p.Smart = toBool(el.Smart)
	p.Composite = el.Composite
	p.Duration = toDuration(el.Duration)
	p.LeafCount = atoi(el.LeafCount)
}

// Playlists returns every playlist on the server.
func (s *Server) Playlists(ctx context.Context) ([]*Playlist, error) {
	c, err := s.queryContainer(ctx, http.MethodGet, "/playlists", nil, nil)
	if err != nil {
		return nil, err
	}
	elements := c.byTag("Playlist")
	playlists := make([]*Playlist, 0, len(elements))
	for _, el := range elements {
		playlist := &Playlist{}
		playlist.load(s, el)
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// Playlist returns the playlist with the given title, case-insensitively.
func (s *Server) Playlist(ctx context.Context, title string) (*Playlist, error) {
	playlists, err := s.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	for _, playlist := range playlists {
		if strings.EqualFold(playlist.Title, title) {
			return playlist, nil
		}
	}
	return nil, fmt.Errorf("%w: playlist %q", ErrNotFound, title)
}

// CreatePlaylist creates a playlist holding the given items.
func (s *Server) CreatePlaylist(ctx context.Context, title string, items []Object) (*Playlist, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: playlist title required", ErrBadRequest)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: playlist needs at least one item", ErrBadRequest)
	}
	params := url.Values{}
	params.Set("type", playlistTypeOf(items[0]))
	params.Set("title", title)
	params.Set("smart", "0")
	params.Set("uri", s.itemsURI(items))

	c, err := s.queryContainer(ctx, http.MethodPost, "/playlists", params, nil)
	if err != nil {
		return nil, err
	}
	created := c.byTag("Playlist")
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: server returned no playlist", ErrNotFound)
	}
	playlist := &Playlist{}
	playlist.load(s, created[0])
	return playlist, nil
}

// itemsURI builds the library URI addressing the given items on this server.
func (s *Server) itemsURI(items []Object) string {
	keys := make([]string, 0, len(items))
	for _, obj := range items {
		keys = append(keys, strconv.FormatInt(ItemOf(obj).RatingKey, 10))
	}
	return fmt.Sprintf("server://%s/%s/library/metadata/%s",
		s.MachineIdentifier, providerIdentifier, strings.Join(keys, ","))
}

func playlistTypeOf(o Object) string {
	switch o.(type) {
	case *Track, *Album, *Artist:
		return "audio"
	case *Photo, *Photoalbum:
		return "photo"
	default:
		return "video"
	}
}

// Items returns the playlist's items in playlist order. Each returned item
// carries its PlaylistItemID.
func (p *Playlist) Items(ctx context.Context) ([]Object, error) {
	key := "/playlists/" + strconv.FormatInt(p.RatingKey, 10) + "/items"
	c, err := p.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	return c.objects(p.srv), nil
}

// AddItems appends items to the playlist.
func (p *Playlist) AddItems(ctx context.Context, items []Object) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items to add", ErrBadRequest)
	}
	key := "/playlists/" + strconv.FormatInt(p.RatingKey, 10) + "/items"
	params := url.Values{}
	params.Set("uri", p.srv.itemsURI(items))
	return p.srv.exec(ctx, http.MethodPut, key, params)
}

// RemoveItem removes one item from the playlist. The item must have been
// fetched through Items so it carries a PlaylistItemID.
func (p *Playlist) RemoveItem(ctx context.Context, item Object) error {
	playlistItemID := ItemOf(item).PlaylistItemID
	if playlistItemID == 0 {
		return fmt.Errorf("%w: item %q carries no playlist item id; fetch it through Items", ErrBadRequest, ItemOf(item).Title)
	}
	key := "/playlists/" + strconv.FormatInt(p.RatingKey, 10) + "/items/" + strconv.FormatInt(playlistItemID, 10)
	return p.srv.exec(ctx, http.MethodDelete, key, nil)
}

// MoveItem moves item directly after the given item, or to the front when
// after is nil. Both must have been fetched through Items.
func (p *Playlist) MoveItem(ctx context.Context, item, after Object) error {
	playlistItemID := ItemOf(item).PlaylistItemID
	if playlistItemID == 0 {
		return fmt.Errorf("%w: item %q carries no playlist item id; fetch it through Items", ErrBadRequest, ItemOf(item).Title)
	}
	key := "/playlists/" + strconv.FormatInt(p.RatingKey, 10) + "/items/" + strconv.FormatInt(playlistItemID, 10) + "/move"
	params := url.Values{}
	if after != nil {
		afterID := ItemOf(after).PlaylistItemID
		if afterID == 0 {
			return fmt.Errorf("%w: item %q carries no playlist item id; fetch it through Items", ErrBadRequest, ItemOf(after).Title)
		}
		params.Set("after", strconv.FormatInt(afterID, 10))
	}
	return p.srv.exec(ctx, http.MethodPut, key, params)
}

// Edit updates the playlist title and summary. Empty values leave the
// corresponding field unchanged.
func (p *Playlist) Edit(ctx context.Context, title, summary string) error {
	params := url.Values{}
	if title != "" {
		params.Set("title", title)
	}
	if summary != "" {
		params.Set("summary", summary)
	}
	if len(params) == 0 {
		return nil
	}
	key := "/library/metadata/" + strconv.FormatInt(p.RatingKey, 10)
	return p.srv.exec(ctx, http.MethodPut, key, params)
}

// Delete removes the playlist from the server.
func (p *Playlist) Delete(ctx context.Context) error {
	key := "/playlists/" + strconv.FormatInt(p.RatingKey, 10)
	return p.srv.exec(ctx, http.MethodDelete, key, nil)
}
