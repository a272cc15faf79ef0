package jellyfin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jellyfinapi/jellyfin"
)

const rootDocument = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="0" friendlyName="Den" machineIdentifier="abc123" version="10.8.1" platform="Linux"></MediaContainer>`

func TestConnectLoadsServerIdentity(t *testing.T) {
	t.Parallel()

	var gotToken, gotProduct string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Jellyfin-Token")
		gotProduct = r.Header.Get("X-Jellyfin-Product")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(rootDocument))
	}))
	defer server.Close()

	srv, err := jellyfin.Connect(context.Background(), server.URL, "secret")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if srv.FriendlyName != "Den" {
		t.Fatalf("expected friendly name Den, got %q", srv.FriendlyName)
	}
	if srv.MachineIdentifier != "abc123" {
		t.Fatalf("expected machine identifier abc123, got %q", srv.MachineIdentifier)
	}
	if srv.Version != "10.8.1" {
		t.Fatalf("expected version 10.8.1, got %q", srv.Version)
	}
	if gotToken != "secret" {
		t.Fatalf("expected token header, got %q", gotToken)
	}
	if gotProduct == "" {
		t.Fatal("expected identity product header to be sent")
	}
}

func TestConnectMapsUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := jellyfin.Connect(context.Background(), server.URL, "bad-token")
	if !errors.Is(err, jellyfin.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestFetchItemMapsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = srv.FetchItem(context.Background(), "/library/metadata/999")
	if !errors.Is(err, jellyfin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := jellyfin.New("", "token"); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestURLAppendsToken(t *testing.T) {
	t.Parallel()

	srv, err := jellyfin.New("http://media.local:32400", "secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := srv.URL("/library/metadata/1/thumb", true)
	if got != "http://media.local:32400/library/metadata/1/thumb?X-Jellyfin-Token=secret" {
		t.Fatalf("unexpected url %q", got)
	}

	got = srv.URL("/library/metadata/1/thumb?width=320", true)
	if !strings.Contains(got, "?width=320&X-Jellyfin-Token=secret") {
		t.Fatalf("expected token appended with &, got %q", got)
	}

	got = srv.URL("library/metadata/1", false)
	if got != "http://media.local:32400/library/metadata/1" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestSearchMapsTypedObjects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("query"); got != "demo" {
			t.Errorf("expected query demo, got %q", got)
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<MediaContainer size="3">
			<Video ratingKey="1" key="/library/metadata/1" type="movie" title="Demo Movie"/>
			<Directory ratingKey="2" key="/library/metadata/2" type="show" title="Demo Show"/>
			<Directory ratingKey="3" key="/library/metadata/3" type="mystery" title="Unknown"/>
		</MediaContainer>`))
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := srv.Search(context.Background(), "demo", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results with the unknown type skipped, got %d", len(results))
	}
	// Results keep the server's ranking: the Video hit came first in the
	// document even though the Directory hit shares its container.
	movie, ok := results[0].(*jellyfin.Movie)
	if !ok {
		t.Fatalf("expected first result to be a movie, got %T", results[0])
	}
	if movie.Title != "Demo Movie" {
		t.Fatalf("expected best-ranked result first, got %q", movie.Title)
	}
	if _, ok := results[1].(*jellyfin.Show); !ok {
		t.Fatalf("expected second result to be a show, got %T", results[1])
	}
}

func TestSearchKeepsDocumentOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<MediaContainer size="3">
			<Video ratingKey="1" key="/library/metadata/1" type="movie" title="Best Match"/>
			<Directory ratingKey="2" key="/library/metadata/2" type="show" title="Second Match"/>
			<Video ratingKey="3" key="/library/metadata/3" type="movie" title="Third Match"/>
		</MediaContainer>`))
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := srv.Search(context.Background(), "match", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []string{"Best Match", "Second Match", "Third Match"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, title := range want {
		if got := jellyfin.ItemOf(results[i]).Title; got != title {
			t.Fatalf("result %d: got %q, want %q", i, got, title)
		}
	}
}
