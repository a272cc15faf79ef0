package main

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jellyfinapi/jellyfin"
)

// displayType renders an item type attribute as a human heading, e.g.
// "photoalbum" becomes "Photoalbum" and "movie" becomes "Movie".
func displayType(itemType string) string {
	itemType = strings.TrimSpace(itemType)
	if itemType == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(itemType)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatYear(year int) string {
	if year <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", year)
}

// itemYear pulls the release year off the typed objects that carry one.
func itemYear(obj jellyfin.Object) int {
	switch v := obj.(type) {
	case *jellyfin.Movie:
		return v.Year
	case *jellyfin.Show:
		return v.Year
	case *jellyfin.Episode:
		return v.Year
	case *jellyfin.Album:
		return v.Year
	default:
		return 0
	}
}
