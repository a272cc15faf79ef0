package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Artist represents a music artist.
type Artist struct {
	Item
	Rating     float64
	ChildCount int
	LeafCount  int
}

func (a *Artist) load(srv *Server, el element) {
	a.loadItem(srv, el)
	a.Rating = atof(el.Rating)
	a.ChildCount = atoi(el.ChildCount)
	a.LeafCount = atoi(el.LeafCount)
}

// Albums returns the artist's albums.
func (a *Artist) Albums(ctx context.Context) ([]*Album, error) {
	key := "/library/metadata/" + strconv.FormatInt(a.RatingKey, 10) + "/children"
	c, err := a.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	var albums []*Album
	for _, el := range c.byTag("Directory") {
		if el.Type != "album" {
			continue
		}
		album := &Album{}
		album.load(a.srv, el)
		albums = append(albums, album)
	}
	return albums, nil
}

// Album returns the album with the given title.
func (a *Artist) Album(ctx context.Context, title string) (*Album, error) {
	albums, err := a.Albums(ctx)
	if err != nil {
		return nil, err
	}
	for _, album := range albums {
		if album.Title == title {
			return album, nil
		}
	}
	return nil, fmt.Errorf("%w: album %q of %q", ErrNotFound, title, a.Title)
}

// Tracks returns every track across the artist's albums.
func (a *Artist) Tracks(ctx context.Context) ([]*Track, error) {
	key := "/library/metadata/" + strconv.FormatInt(a.RatingKey, 10) + "/allLeaves"
	c, err := a.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	elements := c.byTag("Track")
	tracks := make([]*Track, 0, len(elements))
	for _, el := range elements {
		track := &Track{}
		track.load(a.srv, el)
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// Album represents a music album.
type Album struct {
	Item
	Index                 int
	Year                  int
	Studio                string
	Rating                float64
	ParentRatingKey       int64
	ParentKey             string
	ParentTitle           string
	LeafCount             int
	ViewedLeafCount       int
	OriginallyAvailableAt time.Time
}

func (al *Album) load(srv *Server, el element) {
	al.loadItem(srv, el)
	al.Index = atoi(el.Index)
	al.Year = atoi(el.Year)
	al.Studio = el.Studio
	al.Rating = atof(el.Rating)
	al.ParentRatingKey = atoi64(el.ParentRatingKey)
	al.ParentKey = el.ParentKey
	al.ParentTitle = el.ParentTitle
	al.LeafCount = atoi(el.LeafCount)
	al.ViewedLeafCount = atoi(el.ViewedLeafCount)
	al.OriginallyAvailableAt = toDate(el.OriginallyAvailableAt)
}

// Tracks returns the album's tracks.
func (al *Album) Tracks(ctx context.Context) ([]*Track, error) {
	key := "/library/metadata/" + strconv.FormatInt(al.RatingKey, 10) + "/children"
	c, err := al.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	elements := c.byTag("Track")
	tracks := make([]*Track, 0, len(elements))
	for _, el := range elements {
		track := &Track{}
		track.load(al.srv, el)
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// Track returns the track with the given title.
func (al *Album) Track(ctx context.Context, title string) (*Track, error) {
	tracks, err := al.Tracks(ctx)
	if err != nil {
		return nil, err
	}
	for _, track := range tracks {
		if track.Title == title {
			return track, nil
		}
	}
	return nil, fmt.Errorf("%w: track %q of %q", ErrNotFound, title, al.Title)
}

// Artist returns the album's parent artist.
func (al *Album) Artist(ctx context.Context) (*Artist, error) {
	obj, err := al.srv.FetchItem(ctx, al.ParentKey)
	if err != nil {
		return nil, err
	}
	artist, ok := obj.(*Artist)
	if !ok {
		return nil, fmt.Errorf("%w: parent of album %q is not an artist", ErrUnknownType, al.Title)
	}
	return artist, nil
}

// Track represents a single music track.
type Track struct {
	Item
	Index                int
	ParentIndex          int
	ParentRatingKey      int64
	ParentKey            string
	ParentTitle          string
	GrandparentRatingKey int64
	GrandparentKey       string
	GrandparentTitle     string
	Duration             time.Duration
	ViewOffset           time.Duration
	Media                []Media
}

func (t *Track) load(srv *Server, el element) {
	t.loadItem(srv, el)
	t.Index = atoi(el.Index)
	t.ParentIndex = atoi(el.ParentIndex)
	t.ParentRatingKey = atoi64(el.ParentRatingKey)
	t.ParentKey = el.ParentKey
	t.ParentTitle = el.ParentTitle
	t.GrandparentRatingKey = atoi64(el.GrandparentRatingKey)
	t.GrandparentKey = el.GrandparentKey
	t.GrandparentTitle = el.GrandparentTitle
	t.Duration = toDuration(el.Duration)
	t.ViewOffset = toDuration(el.ViewOffset)
	t.Media = mediaFromElements(el.Media)
}

// Album returns the track's parent album.
func (t *Track) Album(ctx context.Context) (*Album, error) {
	obj, err := t.srv.FetchItem(ctx, t.ParentKey)
	if err != nil {
		return nil, err
	}
	album, ok := obj.(*Album)
	if !ok {
		return nil, fmt.Errorf("%w: parent of track %q is not an album", ErrUnknownType, t.Title)
	}
	return album, nil
}

// Artist returns the track's grandparent artist.
func (t *Track) Artist(ctx context.Context) (*Artist, error) {
	obj, err := t.srv.FetchItem(ctx, t.GrandparentKey)
	if err != nil {
		return nil, err
	}
	artist, ok := obj.(*Artist)
	if !ok {
		return nil, fmt.Errorf("%w: grandparent of track %q is not an artist", ErrUnknownType, t.Title)
	}
	return artist, nil
}

// Download saves the track's media parts into dir and returns the written paths.
func (t *Track) Download(ctx context.Context, dir string, keepOriginalName bool) ([]string, error) {
	name := fmt.Sprintf("%s - %s - %s", t.GrandparentTitle, t.ParentTitle, t.Title)
	return downloadMedia(ctx, t.srv, dir, keepOriginalName, name, t.Media)
}
