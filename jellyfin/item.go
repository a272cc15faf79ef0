package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Item carries the attributes shared by every typed media object.
type Item struct {
	srv *Server

	RatingKey           int64
	Key                 string
	GUID                string
	Type                string
	Title               string
	TitleSort           string
	Summary             string
	Thumb               string
	Art                 string
	AddedAt             time.Time
	UpdatedAt           time.Time
	LastViewedAt        time.Time
	ViewCount           int
	UserRating          float64
	LibrarySectionID    int64
	LibrarySectionKey   string
	LibrarySectionTitle string

	// PlaylistItemID is set only on items fetched through a playlist.
	PlaylistItemID int64
}

func (i *Item) loadItem(srv *Server, el element) {
	i.srv = srv
	i.RatingKey = atoi64(el.RatingKey)
	i.Key = el.Key
	i.GUID = el.GUID
	i.Type = el.Type
	i.Title = el.Title
	i.TitleSort = el.TitleSort
	if i.TitleSort == "" {
		i.TitleSort = el.Title
	}
	i.Summary = el.Summary
	i.Thumb = el.Thumb
	i.Art = el.Art
	i.AddedAt = toTime(el.AddedAt)
	i.UpdatedAt = toTime(el.UpdatedAt)
	i.LastViewedAt = toTime(el.LastViewedAt)
	i.ViewCount = atoi(el.ViewCount)
	i.UserRating = atof(el.UserRating)
	i.LibrarySectionID = atoi64(el.LibrarySectionID)
	i.LibrarySectionKey = el.LibrarySectionKey
	i.LibrarySectionTitle = el.LibrarySectionTitle
	i.PlaylistItemID = atoi64(el.PlaylistItemID)
}

func (i *Item) base() *Item { return i }

// Object is implemented by every typed media object mapped from a container.
type Object interface {
	base() *Item
	load(srv *Server, el element)
}

// ItemOf returns the shared attributes of any typed media object.
func ItemOf(o Object) *Item { return o.base() }

// Server returns the server this item is bound to.
func (i *Item) Server() *Server { return i.srv }

// IsPlayed reports whether the item has been watched at least once.
func (i *Item) IsPlayed() bool { return i.ViewCount > 0 }

// ThumbURL returns the absolute, token-bearing thumbnail URL.
func (i *Item) ThumbURL() string {
	if i.Thumb == "" {
		return ""
	}
	return i.srv.URL(i.Thumb, true)
}

// ArtURL returns the absolute, token-bearing artwork URL.
func (i *Item) ArtURL() string {
	if i.Art == "" {
		return ""
	}
	return i.srv.URL(i.Art, true)
}

// MarkPlayed records the item as fully watched.
func (i *Item) MarkPlayed(ctx context.Context) error {
	params := url.Values{}
	params.Set("key", strconv.FormatInt(i.RatingKey, 10))
	params.Set("identifier", providerIdentifier)
	return i.srv.exec(ctx, http.MethodGet, "/:/scrobble", params)
}

// MarkUnplayed clears the item's watched state.
func (i *Item) MarkUnplayed(ctx context.Context) error {
	params := url.Values{}
	params.Set("key", strconv.FormatInt(i.RatingKey, 10))
	params.Set("identifier", providerIdentifier)
	return i.srv.exec(ctx, http.MethodGet, "/:/unscrobble", params)
}

// Rate sets the user rating, 0.0 through 10.0.
func (i *Item) Rate(ctx context.Context, rating float64) error {
	if rating < 0 || rating > 10 {
		return fmt.Errorf("%w: rating must be between 0 and 10, got %v", ErrBadRequest, rating)
	}
	params := url.Values{}
	params.Set("key", strconv.FormatInt(i.RatingKey, 10))
	params.Set("identifier", providerIdentifier)
	params.Set("rating", strconv.FormatFloat(rating, 'f', -1, 64))
	return i.srv.exec(ctx, http.MethodPut, "/:/rate", params)
}

// History returns the watch history entries for this item.
func (i *Item) History(ctx context.Context) ([]*HistoryEntry, error) {
	return i.srv.History(ctx, HistoryOptions{ItemRatingKey: i.RatingKey})
}

// Section returns the library section this item belongs to.
func (i *Item) Section(ctx context.Context) (*Section, error) {
	if i.LibrarySectionID == 0 {
		return nil, fmt.Errorf("%w: item %q carries no library section", ErrNotFound, i.Title)
	}
	return i.srv.Library().SectionByID(ctx, i.LibrarySectionID)
}

// Reload refreshes a typed object from its metadata key.
func Reload(ctx context.Context, o Object) error {
	item := o.base()
	if item.srv == nil {
		return fmt.Errorf("%w: object is not bound to a server", ErrBadRequest)
	}
	key := item.Key
	if key == "" {
		key = "/library/metadata/" + strconv.FormatInt(item.RatingKey, 10)
	}
	_, el, err := item.srv.fetchElement(ctx, key)
	if err != nil {
		return err
	}
	o.load(item.srv, el)
	return nil
}

// itemFromElement maps one container element onto a typed object. The XML tag
// disambiguates types that share a type attribute.
func itemFromElement(s *Server, tag string, el element) (Object, error) {
	var obj Object
	switch tag {
	case "Video":
		switch el.Type {
		case "movie", "clip":
			obj = &Movie{}
		case "episode":
			obj = &Episode{}
		}
	case "Directory":
		switch el.Type {
		case "show":
			obj = &Show{}
		case "season":
			obj = &Season{}
		case "artist":
			obj = &Artist{}
		case "album":
			obj = &Album{}
		case "photo", "photoalbum":
			obj = &Photoalbum{}
		}
	case "Track":
		obj = &Track{}
	case "Photo":
		obj = &Photo{}
	case "Playlist":
		obj = &Playlist{}
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownType, tag, el.Type)
	}
	obj.load(s, el)
	return obj, nil
}
