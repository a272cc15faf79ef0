package jellyfin_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"jellyfinapi/jellyfin"
)

const sectionsDocument = `<MediaContainer size="2">
	<Directory key="1" type="movie" title="Movies" uuid="uuid-1" agent="tv.jellyfin.agents.movie" scanner="Jellyfin Movie Scanner" language="en-US" refreshing="0">
		<Location id="1" path="/data/movies"/>
	</Directory>
	<Directory key="2" type="show" title="TV Shows" uuid="uuid-2" agent="tv.jellyfin.agents.series" scanner="Jellyfin Series Scanner" language="en-US" refreshing="1">
		<Location id="2" path="/data/tv"/>
		<Location id="3" path="/mnt/tv"/>
	</Directory>
</MediaContainer>`

func TestLibrarySections(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sectionsDocument))
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sections, err := srv.Library().Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	movies := sections[0]
	if movies.Key != 1 || movies.Type != "movie" || movies.Title != "Movies" {
		t.Fatalf("unexpected movies section: %+v", movies)
	}
	if len(movies.Locations) != 1 || movies.Locations[0] != "/data/movies" {
		t.Fatalf("unexpected movie locations: %v", movies.Locations)
	}
	shows := sections[1]
	if !shows.Refreshing {
		t.Fatal("expected TV section to be refreshing")
	}
	if len(shows.Locations) != 2 {
		t.Fatalf("expected 2 TV locations, got %v", shows.Locations)
	}
}

func TestLibrarySectionLookup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sectionsDocument))
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	section, err := srv.Library().Section(context.Background(), "movies")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if section.Title != "Movies" {
		t.Fatalf("expected case-insensitive match on Movies, got %q", section.Title)
	}

	if _, err := srv.Library().Section(context.Background(), "Anime"); !errors.Is(err, jellyfin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing section, got %v", err)
	}

	byID, err := srv.Library().SectionByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("SectionByID: %v", err)
	}
	if byID.Title != "TV Shows" {
		t.Fatalf("expected TV Shows, got %q", byID.Title)
	}
}

func TestSectionSearchPagesThroughResults(t *testing.T) {
	t.Parallel()

	const total = 5
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(sectionsDocument))
		case "/library/sections/1/all":
			start, _ := strconv.Atoi(r.Header.Get("X-Jellyfin-Container-Start"))
			size, _ := strconv.Atoi(r.Header.Get("X-Jellyfin-Container-Size"))
			if size <= 0 {
				t.Errorf("expected container size header, got %d", size)
			}
			end := start + size
			if end > total {
				end = total
			}
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<MediaContainer size="%d" totalSize="%d" offset="%d">`, end-start, total, start)
			for i := start; i < end; i++ {
				fmt.Fprintf(w, `<Video ratingKey="%d" key="/library/metadata/%d" type="movie" title="Movie %d"/>`, i+1, i+1, i+1)
			}
			fmt.Fprint(w, `</MediaContainer>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token", jellyfin.WithContainerSize(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	section, err := srv.Library().Section(context.Background(), "Movies")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}

	items, err := section.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != total {
		t.Fatalf("expected %d items across pages, got %d", total, len(items))
	}
	first := jellyfin.ItemOf(items[0])
	if first.Title != "Movie 1" || first.RatingKey != 1 {
		t.Fatalf("unexpected first item: %+v", first)
	}
}

func TestSectionSearchStopsWhenServerIgnoresPaging(t *testing.T) {
	t.Parallel()

	var listCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(sectionsDocument))
		case "/library/sections/1/all":
			listCalls++
			// The paging headers are ignored and totalSize is omitted, so the
			// same full page comes back on every request.
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<MediaContainer size="3">
				<Video ratingKey="1" key="/library/metadata/1" type="movie" title="Movie 1"/>
				<Video ratingKey="2" key="/library/metadata/2" type="movie" title="Movie 2"/>
				<Video ratingKey="3" key="/library/metadata/3" type="movie" title="Movie 3"/>
			</MediaContainer>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token", jellyfin.WithContainerSize(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	section, err := srv.Library().Section(context.Background(), "Movies")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}

	items, err := section.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected the repeated page to be returned once, got %d items", len(items))
	}
	if listCalls != 2 {
		t.Fatalf("expected the listing to stop after detecting the repeat, got %d calls", listCalls)
	}
}

func TestSectionSearchHonorsLimitAndFilters(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(sectionsDocument))
		case "/library/sections/1/all":
			q := r.URL.Query()
			if q.Get("title") != "demo" {
				t.Errorf("expected title filter, got %q", q.Get("title"))
			}
			if q.Get("year") != "2021" {
				t.Errorf("expected year filter, got %q", q.Get("year"))
			}
			if q.Get("unwatched") != "1" {
				t.Errorf("expected unwatched filter, got %q", q.Get("unwatched"))
			}
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<MediaContainer size="3" totalSize="3">
				<Video ratingKey="1" key="/library/metadata/1" type="movie" title="Demo 1"/>
				<Video ratingKey="2" key="/library/metadata/2" type="movie" title="Demo 2"/>
				<Video ratingKey="3" key="/library/metadata/3" type="movie" title="Demo 3"/>
			</MediaContainer>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	section, err := srv.Library().Section(context.Background(), "Movies")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}

	items, err := section.Search(context.Background(), jellyfin.FilterOptions{
		Title:     "demo",
		Year:      2021,
		Unwatched: true,
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected limit of 2 items, got %d", len(items))
	}
}

func TestSectionRefreshHitsRefreshEndpoint(t *testing.T) {
	t.Parallel()

	var refreshed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(sectionsDocument))
		case "/library/sections/1/refresh":
			refreshed = true
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	section, err := srv.Library().Section(context.Background(), "Movies")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if err := section.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !refreshed {
		t.Fatal("expected refresh endpoint to be hit")
	}
}
