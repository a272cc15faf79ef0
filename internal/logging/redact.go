package logging

import (
	"log/slog"
	"net/url"
	"strings"
)

// secretKeys lists attribute names whose values are never logged verbatim.
var secretKeys = map[string]struct{}{
	"token":    {},
	"apikey":   {},
	"api_key":  {},
	"password": {},
}

const redacted = "<hidden>"

func redactAttr(attr slog.Attr) slog.Attr {
	key := strings.ToLower(attr.Key)
	if _, ok := secretKeys[key]; ok {
		attr.Value = slog.StringValue(redacted)
		return attr
	}
	if attr.Value.Kind() == slog.KindString {
		attr.Value = slog.StringValue(RedactURL(attr.Value.String()))
	}
	return attr
}

// RedactURL masks token-bearing query parameters in a URL-shaped string.
// Non-URL strings pass through unchanged.
func RedactURL(value string) string {
	if !strings.Contains(value, "X-Jellyfin-Token=") && !strings.Contains(value, "token=") {
		return value
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return value
	}
	query := parsed.Query()
	for name := range query {
		lowered := strings.ToLower(name)
		if lowered == "x-jellyfin-token" || lowered == "token" {
			query.Set(name, redacted)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
