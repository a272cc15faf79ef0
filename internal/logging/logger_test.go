package logging

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" DEBUG ": slog.LevelDebug,
	}
	for input, expected := range cases {
		if got := parseLevel(input); got != expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRedactURLMasksToken(t *testing.T) {
	in := "http://jellyfin.local:8096/library/sections?X-Jellyfin-Token=abc123&type=movie"
	out := RedactURL(in)
	if strings.Contains(out, "abc123") {
		t.Fatalf("expected token to be masked, got %q", out)
	}
	if !strings.Contains(out, "type=movie") {
		t.Fatalf("expected other params preserved, got %q", out)
	}
}

func TestRedactURLPassthrough(t *testing.T) {
	in := "plain message without a url"
	if out := RedactURL(in); out != in {
		t.Fatalf("expected passthrough, got %q", out)
	}
}

func TestRedactAttrMasksSecretKeys(t *testing.T) {
	attr := redactAttr(slog.String("token", "abc"))
	if attr.Value.String() != redacted {
		t.Fatalf("expected token attr masked, got %q", attr.Value.String())
	}
	attr = redactAttr(slog.String("title", "Heat"))
	if attr.Value.String() != "Heat" {
		t.Fatalf("expected title attr untouched, got %q", attr.Value.String())
	}
}
