package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Movie represents a single movie.
type Movie struct {
	Item
	Studio                string
	ContentRating         string
	Rating                float64
	Year                  int
	Duration              time.Duration
	OriginallyAvailableAt time.Time
	ViewOffset            time.Duration
	Media                 []Media
}

func (m *Movie) load(srv *Server, el element) {
	m.loadItem(srv, el)
	m.Studio = el.Studio
	m.ContentRating = el.ContentRating
	m.Rating = atof(el.Rating)
	m.Year = atoi(el.Year)
	m.Duration = toDuration(el.Duration)
	m.OriginallyAvailableAt = toDate(el.OriginallyAvailableAt)
	m.ViewOffset = toDuration(el.ViewOffset)
	m.Media = mediaFromElements(el.Media)
}

// Download saves the movie's media parts into dir and returns the written paths.
func (m *Movie) Download(ctx context.Context, dir string, keepOriginalName bool) ([]string, error) {
	name := m.Title
	if m.Year > 0 {
		name = fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return downloadMedia(ctx, m.srv, dir, keepOriginalName, name, m.Media)
}

// Show represents a single TV show.
type Show struct {
	Item
	Studio          string
	ContentRating   string
	Rating          float64
	Year            int
	Duration        time.Duration
	ChildCount      int
	LeafCount       int
	ViewedLeafCount int
}

func (sh *Show) load(srv *Server, el element) {
	sh.loadItem(srv, el)
	sh.Studio = el.Studio
	sh.ContentRating = el.ContentRating
	sh.Rating = atof(el.Rating)
	sh.Year = atoi(el.Year)
	sh.Duration = toDuration(el.Duration)
	sh.ChildCount = atoi(el.ChildCount)
	sh.LeafCount = atoi(el.LeafCount)
	sh.ViewedLeafCount = atoi(el.ViewedLeafCount)
}

// Seasons returns the show's seasons.
func (sh *Show) Seasons(ctx context.Context) ([]*Season, error) {
	key := "/library/metadata/" + strconv.FormatInt(sh.RatingKey, 10) + "/children"
	c, err := sh.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	var seasons []*Season
	for _, el := range c.byTag("Directory") {
		if el.Type != "season" {
			continue
		}
		season := &Season{}
		season.load(sh.srv, el)
		seasons = append(seasons, season)
	}
	return seasons, nil
}

// Season returns the season with the given index.
func (sh *Show) Season(ctx context.Context, index int) (*Season, error) {
	seasons, err := sh.Seasons(ctx)
	if err != nil {
		return nil, err
	}
	for _, season := range seasons {
		if season.Index == index {
			return season, nil
		}
	}
	return nil, fmt.Errorf("%w: season %d of %q", ErrNotFound, index, sh.Title)
}

// Episodes returns every episode across all seasons.
func (sh *Show) Episodes(ctx context.Context) ([]*Episode, error) {
	key := "/library/metadata/" + strconv.FormatInt(sh.RatingKey, 10) + "/allLeaves"
	c, err := sh.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	videos := c.byTag("Video")
	episodes := make([]*Episode, 0, len(videos))
	for _, el := range videos {
		episode := &Episode{}
		episode.load(sh.srv, el)
		episodes = append(episodes, episode)
	}
	return episodes, nil
}

// Episode returns one episode by season and episode number.
func (sh *Show) Episode(ctx context.Context, season, episode int) (*Episode, error) {
	episodes, err := sh.Episodes(ctx)
	if err != nil {
		return nil, err
	}
	for _, ep := range episodes {
		if ep.SeasonNumber() == season && ep.Index == episode {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("%w: s%02de%02d of %q", ErrNotFound, season, episode, sh.Title)
}

// Season represents a single season of a show.
type Season struct {
	Item
	Index           int
	ParentRatingKey int64
	ParentKey       string
	ParentTitle     string
	LeafCount       int
	ViewedLeafCount int
}

func (se *Season) load(srv *Server, el element) {
	se.loadItem(srv, el)
	se.Index = atoi(el.Index)
	se.ParentRatingKey = atoi64(el.ParentRatingKey)
	se.ParentKey = el.ParentKey
	se.ParentTitle = el.ParentTitle
	se.LeafCount = atoi(el.LeafCount)
	se.ViewedLeafCount = atoi(el.ViewedLeafCount)
}

// Episodes returns the season's episodes.
func (se *Season) Episodes(ctx context.Context) ([]*Episode, error) {
	key := "/library/metadata/" + strconv.FormatInt(se.RatingKey, 10) + "/children"
	c, err := se.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	videos := c.byTag("Video")
	episodes := make([]*Episode, 0, len(videos))
	for _, el := range videos {
		episode := &Episode{}
		episode.load(se.srv, el)
		episodes = append(episodes, episode)
	}
	return episodes, nil
}

// Episode returns the episode with the given index.
func (se *Season) Episode(ctx context.Context, index int) (*Episode, error) {
	episodes, err := se.Episodes(ctx)
	if err != nil {
		return nil, err
	}
	for _, ep := range episodes {
		if ep.Index == index {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("%w: episode %d of %q", ErrNotFound, index, se.Title)
}

// Show returns the season's parent show.
func (se *Season) Show(ctx context.Context) (*Show, error) {
	obj, err := se.srv.FetchItem(ctx, se.ParentKey)
	if err != nil {
		return nil, err
	}
	show, ok := obj.(*Show)
	if !ok {
		return nil, fmt.Errorf("%w: parent of season %q is not a show", ErrUnknownType, se.Title)
	}
	return show, nil
}

// Episode represents a single episode.
type Episode struct {
	Item
	Index                 int
	ParentIndex           int
	ParentRatingKey       int64
	ParentKey             string
	ParentTitle           string
	GrandparentRatingKey  int64
	GrandparentKey        string
	GrandparentTitle      string
	ContentRating         string
	Rating                float64
	Year                  int
	Duration              time.Duration
	OriginallyAvailableAt time.Time
	ViewOffset            time.Duration
	Media                 []Media
}

func (e *Episode) load(srv *Server, el element) {
	e.loadItem(srv, el)
	e.Index = atoi(el.Index)
	e.ParentIndex = atoi(el.ParentIndex)
	e.ParentRatingKey = atoi64(el.ParentRatingKey)
	e.ParentKey = el.ParentKey
	e.ParentTitle = el.ParentTitle
	e.GrandparentRatingKey = atoi64(el.GrandparentRatingKey)
	e.GrandparentKey = el.GrandparentKey
	e.GrandparentTitle = el.GrandparentTitle
	e.ContentRating = el.ContentRating
	e.Rating = atof(el.Rating)
	e.Year = atoi(el.Year)
	e.Duration = toDuration(el.Duration)
	e.OriginallyAvailableAt = toDate(el.OriginallyAvailableAt)
	e.ViewOffset = toDuration(el.ViewOffset)
	e.Media = mediaFromElements(el.Media)
}

// SeasonNumber returns the episode's season number.
func (e *Episode) SeasonNumber() int { return e.ParentIndex }

// Season returns the episode's parent season.
func (e *Episode) Season(ctx context.Context) (*Season, error) {
	obj, err := e.srv.FetchItem(ctx, e.ParentKey)
	if err != nil {
		return nil, err
	}
	season, ok := obj.(*Season)
	if !ok {
		return nil, fmt.Errorf("%w: parent of episode %q is not a season", ErrUnknownType, e.Title)
	}
	return season, nil
}

// Show returns the episode's grandparent show.
func (e *Episode) Show(ctx context.Context) (*Show, error) {
	obj, err := e.srv.FetchItem(ctx, e.GrandparentKey)
	if err != nil {
		return nil, err
	}
	show, ok := obj.(*Show)
	if !ok {
		return nil, fmt.Errorf("%w: grandparent of episode %q is not a show", ErrUnknownType, e.Title)
	}
	return show, nil
}

// Download saves the episode's media parts into dir and returns the written paths.
func (e *Episode) Download(ctx context.Context, dir string, keepOriginalName bool) ([]string, error) {
	name := fmt.Sprintf("%s - s%02de%02d - %s", e.GrandparentTitle, e.SeasonNumber(), e.Index, e.Title)
	return downloadMedia(ctx, e.srv, dir, keepOriginalName, name, e.Media)
}
