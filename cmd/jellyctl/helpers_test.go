package main

import (
	"testing"
	"time"
)

func TestDisplayType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"movie", "Movie"},
		{"photoalbum", "Photoalbum"},
		{" show ", "Show"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := displayType(tc.in); got != tc.want {
			t.Errorf("displayType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{42 * time.Second, "0:42"},
		{5*time.Minute + 3*time.Second, "5:03"},
		{2*time.Hour + 1*time.Minute + 5*time.Second, "2:01:05"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatYear(t *testing.T) {
	t.Parallel()

	if got := formatYear(0); got != "-" {
		t.Errorf("formatYear(0) = %q, want -", got)
	}
	if got := formatYear(2021); got != "2021" {
		t.Errorf("formatYear(2021) = %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	t.Parallel()

	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if out == "" {
		t.Fatal("expected rendered table output")
	}
}
