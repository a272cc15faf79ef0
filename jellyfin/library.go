package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Library exposes the server's media library.
type Library struct {
	srv *Server
}

// Sections returns every library section.
func (l *Library) Sections(ctx context.Context) ([]*Section, error) {
	c, err := l.srv.queryContainer(ctx, http.MethodGet, "/library/sections", nil, nil)
	if err != nil {
		return nil, err
	}
	directories := c.byTag("Directory")
	sections := make([]*Section, 0, len(directories))
	for _, el := range directories {
		sections = append(sections, sectionFromElement(l.srv, el))
	}
	return sections, nil
}

// Section returns the section with the given title, case-insensitively.
func (l *Library) Section(ctx context.Context, title string) (*Section, error) {
	sections, err := l.Sections(ctx)
	if err != nil {
		return nil, err
	}
	for _, section := range sections {
		if strings.EqualFold(section.Title, title) {
			return section, nil
		}
	}
	return nil, fmt.Errorf("%w: library section %q", ErrNotFound, title)
}

// SectionByID returns the section with the given numeric key.
func (l *Library) SectionByID(ctx context.Context, id int64) (*Section, error) {
	sections, err := l.Sections(ctx)
	if err != nil {
		return nil, err
	}
	for _, section := range sections {
		if section.Key == id {
			return section, nil
		}
	}
	return nil, fmt.Errorf("%w: library section %d", ErrNotFound, id)
}

// RecentlyAdded returns the most recently added items across all sections.
func (l *Library) RecentlyAdded(ctx context.Context) ([]Object, error) {
	c, err := l.srv.queryContainer(ctx, http.MethodGet, "/library/recentlyAdded", nil, nil)
	if err != nil {
		return nil, err
	}
	return c.objects(l.srv), nil
}

// OnDeck returns the items the server suggests resuming.
func (l *Library) OnDeck(ctx context.Context) ([]Object, error) {
	c, err := l.srv.queryContainer(ctx, http.MethodGet, "/library/onDeck", nil, nil)
	if err != nil {
		return nil, err
	}
	return c.objects(l.srv), nil
}

// History returns the account's watch history across all sections.
func (l *Library) History(ctx context.Context, opts HistoryOptions) ([]*HistoryEntry, error) {
	return l.srv.History(ctx, opts)
}

// Section is one library section such as Movies, TV Shows, or Music.
type Section struct {
	srv *Server

	Key        int64
	UUID       string
	Type       string
	Title      string
	Agent      string
	Scanner    string
	Language   string
	Locations  []string
	Refreshing bool
}

func sectionFromElement(srv *Server, el element) *Section {
	section := &Section{
		srv:        srv,
		Key:        atoi64(el.Key),
		UUID:       el.UUID,
		Type:       el.Type,
		Title:      el.Title,
		Agent:      el.Agent,
		Scanner:    el.Scanner,
		Language:   el.Language,
		Refreshing: toBool(el.Refreshing),
	}
	for _, loc := range el.Locations {
		section.Locations = append(section.Locations, loc.Path)
	}
	return section
}

// FilterOptions narrows a section listing. Zero values are ignored.
type FilterOptions struct {
	// Title filters on a title substring, server-side.
	Title string
	// Year filters on the release year.
	Year int
	// Unwatched keeps only items without a view count.
	Unwatched bool
	// Sort names a sort column, optionally suffixed :asc or :desc.
	Sort string
	// Limit caps the number of returned items; zero means no cap.
	Limit int
}

func (f FilterOptions) values() url.Values {
	params := url.Values{}
	if f.Title != "" {
		params.Set("title", f.Title)
	}
	if f.Year > 0 {
		params.Set("year", strconv.Itoa(f.Year))
	}
	if f.Unwatched {
		params.Set("unwatched", "1")
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	return params
}

// All returns every item in the section.
func (sec *Section) All(ctx context.Context) ([]Object, error) {
	return sec.Search(ctx, FilterOptions{})
}

// Get returns the first item whose title matches exactly.
func (sec *Section) Get(ctx context.Context, title string) (Object, error) {
	items, err := sec.Search(ctx, FilterOptions{Title: title})
	if err != nil {
		return nil, err
	}
	for _, obj := range items {
		if strings.EqualFold(ItemOf(obj).Title, title) {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in section %q", ErrNotFound, title, sec.Title)
}

// Search returns the section items matching the filter, fetching pages of the
// server's container size until the listing is exhausted or Limit is reached.
func (sec *Section) Search(ctx context.Context, filter FilterOptions) ([]Object, error) {
	key := "/library/sections/" + strconv.FormatInt(sec.Key, 10) + "/all"
	params := filter.values()

	pageSize := sec.srv.containerSize
	if filter.Limit > 0 && filter.Limit < pageSize {
		pageSize = filter.Limit
	}

	var out []Object
	var prevFirstKey string
	offset := 0
	for {
		headers := map[string]string{
			"X-Jellyfin-Container-Start": strconv.Itoa(offset),
			"X-Jellyfin-Container-Size":  strconv.Itoa(pageSize),
		}
		c, err := sec.srv.queryContainer(ctx, http.MethodGet, key, params, headers)
		if err != nil {
			return nil, err
		}
		page := c.objects(sec.srv)
		if len(page) > 0 {
			// A server that ignores the paging headers serves the same page
			// over and over; stop rather than loop forever.
			firstKey := ItemOf(page[0]).Key
			if offset > 0 && firstKey == prevFirstKey {
				return out, nil
			}
			prevFirstKey = firstKey
		}
		out = append(out, page...)

		if filter.Limit > 0 && len(out) >= filter.Limit {
			return out[:filter.Limit], nil
		}
		total := atoi(c.TotalSize)
		offset += atoi(c.Size)
		if len(page) == 0 || atoi(c.Size) < pageSize || (total > 0 && offset >= total) {
			return out, nil
		}
	}
}

// RecentlyAdded returns the section's most recently added items.
func (sec *Section) RecentlyAdded(ctx context.Context) ([]Object, error) {
	key := "/library/sections/" + strconv.FormatInt(sec.Key, 10) + "/recentlyAdded"
	c, err := sec.srv.queryContainer(ctx, http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	return c.objects(sec.srv), nil
}

// Refresh asks the server to scan the section for new and changed files.
func (sec *Section) Refresh(ctx context.Context) error {
	key := "/library/sections/" + strconv.FormatInt(sec.Key, 10) + "/refresh"
	return sec.srv.exec(ctx, http.MethodGet, key, nil)
}

// CancelRefresh stops an in-progress section scan.
func (sec *Section) CancelRefresh(ctx context.Context) error {
	key := "/library/sections/" + strconv.FormatInt(sec.Key, 10) + "/refresh"
	return sec.srv.exec(ctx, http.MethodDelete, key, nil)
}

// Analyze asks the server to gather media statistics for the section.
func (sec *Section) Analyze(ctx context.Context) error {
	key := "/library/sections/" + strconv.FormatInt(sec.Key, 10) + "/analyze"
	return sec.srv.exec(ctx, http.MethodPut, key, nil)
}

// EmptyTrash deletes the section's trashed items.
func (sec *Section) EmptyTrash(ctx context.Context) error {
	key := "/library/sections/" + strconv.FormatInt(sec.Key, 10) + "/emptyTrash"
	return sec.srv.exec(ctx, http.MethodPut, key, nil)
}
