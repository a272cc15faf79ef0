package snapshot_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jellyfinapi/internal/snapshot"
)

func openStore(t *testing.T) *snapshot.Store {
	t.Helper()
	store, err := snapshot.Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestReplaceSectionRoundTrip(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	section := snapshot.SectionRecord{Key: 1, Title: "Movies", Type: "movie"}
	items := []snapshot.ItemRecord{
		{RatingKey: 101, Key: "/library/metadata/101", Type: "movie", Title: "Demo Movie", Year: 2021, AddedAt: time.Now(), ViewCount: 2},
		{RatingKey: 102, Key: "/library/metadata/102", Type: "movie", Title: "Another Movie", Year: 2019},
	}
	if err := store.ReplaceSection(ctx, section, items); err != nil {
		t.Fatalf("ReplaceSection: %v", err)
	}

	sections, err := store.Sections(ctx)
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 1 || sections[0].Title != "Movies" {
		t.Fatalf("unexpected sections: %+v", sections)
	}
	if sections[0].SyncedAt.IsZero() {
		t.Fatal("expected synced_at to be stamped")
	}

	got, err := store.Items(ctx, 1)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Title != "Another Movie" {
		t.Fatalf("expected title ordering, got %q first", got[0].Title)
	}
	if got[1].ViewCount != 2 || got[1].Year != 2021 {
		t.Fatalf("unexpected item: %+v", got[1])
	}
}

func TestReplaceSectionDropsStaleItems(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	section := snapshot.SectionRecord{Key: 1, Title: "Movies", Type: "movie"}
	if err := store.ReplaceSection(ctx, section, []snapshot.ItemRecord{
		{RatingKey: 101, Key: "/library/metadata/101", Type: "movie", Title: "Old Movie"},
	}); err != nil {
		t.Fatalf("first ReplaceSection: %v", err)
	}
	if err := store.ReplaceSection(ctx, section, []snapshot.ItemRecord{
		{RatingKey: 102, Key: "/library/metadata/102", Type: "movie", Title: "New Movie"},
	}); err != nil {
		t.Fatalf("second ReplaceSection: %v", err)
	}

	items, err := store.Items(ctx, 1)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 || items[0].Title != "New Movie" {
		t.Fatalf("expected only the resynced item, got %+v", items)
	}
}

func TestSearchMatchesSubstringCaseInsensitively(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	if err := store.ReplaceSection(ctx, snapshot.SectionRecord{Key: 1, Title: "Movies", Type: "movie"}, []snapshot.ItemRecord{
		{RatingKey: 101, Key: "/library/metadata/101", Type: "movie", Title: "The Grand Demo"},
		{RatingKey: 102, Key: "/library/metadata/102", Type: "movie", Title: "Unrelated"},
	}); err != nil {
		t.Fatalf("ReplaceSection movies: %v", err)
	}
	if err := store.ReplaceSection(ctx, snapshot.SectionRecord{Key: 2, Title: "TV Shows", Type: "show"}, []snapshot.ItemRecord{
		{RatingKey: 201, Key: "/library/metadata/201", Type: "show", Title: "demo nights"},
	}); err != nil {
		t.Fatalf("ReplaceSection shows: %v", err)
	}

	results, err := store.Search(ctx, "DEMO")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches across sections, got %d", len(results))
	}
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.db")
	store, err := snapshot.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := snapshot.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Sections(context.Background()); err != nil {
		t.Fatalf("Sections after reopen: %v", err)
	}
}
