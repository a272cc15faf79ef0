package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Photoalbum represents an album of photos.
type Photoalbum struct {
	Item
	Index      int
	Composite  string
	LeafCount  int
	ChildCount int
}

func (pa *Photoalbum) load(srv *Server, el element) {
	pa.loadItem(srv, el)
	pa.Index = atoi(el.Index)
	pa.Composite = el.Composite
	pa.LeafCount = atoi(el.LeafCount)
	pa.ChildCount = atoi(el.ChildCount)
}

// Albums returns the nested photo albums.
func (pa *Photoalbum) Albums(ctx context.Context) ([]*Photoalbum, error) {
	key := "/library/metadata/" + strconv.FormatInt(pa.RatingKey, 10) + "/children"
	c, err := pa.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	directories := c.byTag("Directory")
	albums := make([]*Photoalbum, 0, len(directories))
	for _, el := range directories {
		album := &Photoalbum{}
		album.load(pa.srv, el)
		albums = append(albums, album)
	}
	return albums, nil
}

// Photos returns the album's photos.
func (pa *Photoalbum) Photos(ctx context.Context) ([]*Photo, error) {
	key := "/library/metadata/" + strconv.FormatInt(pa.RatingKey, 10) + "/children"
	c, err := pa.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	elements := c.byTag("Photo")
	photos := make([]*Photo, 0, len(elements))
	for _, el := range elements {
		photo := &Photo{}
		photo.load(pa.srv, el)
		photos = append(photos, photo)
	}
	return photos, nil
}

// Photo returns the photo with the given title.
func (pa *Photoalbum) Photo(ctx context.Context, title string) (*Photo, error) {
	photos, err := pa.Photos(ctx)
	if err != nil {
		return nil, err
	}
	for _, photo := range photos {
		if photo.Title == title {
			return photo, nil
		}
	}
	return nil, fmt.Errorf("%w: photo %q of %q", ErrNotFound, title, pa.Title)
}

// Photo represents a single photo.
type Photo struct {
	Item
	Index                 int
	ParentRatingKey       int64
	ParentKey             string
	ParentTitle           string
	OriginallyAvailableAt time.Time
	Media                 []Media
}

func (p *Photo) load(srv *Server, el element) {
	p.loadItem(srv, el)
	p.Index = atoi(el.Index)
	p.ParentRatingKey = atoi64(el.ParentRatingKey)
	p.ParentKey = el.ParentKey
	p.ParentTitle = el.ParentTitle
	p.OriginallyAvailableAt = toDate(el.OriginallyAvailableAt)
	p.Media = mediaFromElements(el.Media)
}

// Album returns the photo's parent album.
func (p *Photo) Album(ctx context.Context) (*Photoalbum, error) {
	obj, err := p.srv.FetchItem(ctx, p.ParentKey)
	if err != nil {
		return nil, err
	}
	album, ok := obj.(*Photoalbum)
	if !ok {
		return nil, fmt.Errorf("%w: parent of photo %q is not a photo album", ErrUnknownType, p.Title)
	}
	return album, nil
}

// Download saves the photo's media parts into dir and returns the written paths.
func (p *Photo) Download(ctx context.Context, dir string, keepOriginalName bool) ([]string, error) {
	return downloadMedia(ctx, p.srv, dir, keepOriginalName, p.Title, p.Media)
}
