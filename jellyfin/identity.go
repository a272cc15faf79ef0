package jellyfin

import (
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// Identity describes the client identity advertised to the server through
// X-Jellyfin-* headers on every request.
type Identity struct {
	Product          string
	Version          string
	Platform         string
	PlatformVersion  string
	Device           string
	DeviceName       string
	Provides         string
	Language         string
	ClientIdentifier string
}

// DefaultIdentity returns an identity derived from the running host with a
// freshly minted client identifier. Reuse a stored identifier across runs so
// the server sees one device, not many.
func DefaultIdentity() Identity {
	deviceName := "jellyfinapi"
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		deviceName = hostname
	}
	return Identity{
		Product:          "JellyfinAPI",
		Version:          Version,
		Platform:         runtime.GOOS,
		Device:           runtime.GOOS,
		DeviceName:       deviceName,
		Provides:         "controller",
		Language:         "en",
		ClientIdentifier: strings.ReplaceAll(uuid.New().String(), "-", ""),
	}
}

// Apply stamps the identity headers onto an outgoing request. Empty fields
// are skipped.
func (id Identity) Apply(req *http.Request) {
	set := func(name, value string) {
		if strings.TrimSpace(value) != "" {
			req.Header.Set(name, value)
		}
	}
	set("X-Jellyfin-Product", id.Product)
	set("X-Jellyfin-Version", id.Version)
	set("X-Jellyfin-Platform", id.Platform)
	set("X-Jellyfin-Platform-Version", id.PlatformVersion)
	set("X-Jellyfin-Device", id.Device)
	set("X-Jellyfin-Device-Name", id.DeviceName)
	set("X-Jellyfin-Provides", id.Provides)
	set("X-Jellyfin-Language", id.Language)
	set("X-Jellyfin-Client-Identifier", id.ClientIdentifier)
	req.Header.Set("X-Jellyfin-Sync-Version", "2")
	req.Header.Set("X-Jellyfin-Features", "external-media")
}
