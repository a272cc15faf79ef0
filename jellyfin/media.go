package jellyfin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Media describes one encoded variant of a playable item.
type Media struct {
	ID              int64
	Duration        time.Duration
	Bitrate         int
	Width           int
	Height          int
	AudioChannels   int
	AudioCodec      string
	VideoCodec      string
	VideoResolution string
	Container       string
	Parts           []Part
}

// Part describes one file backing a Media variant.
type Part struct {
	ID        int64
	Key       string
	Duration  time.Duration
	File      string
	Size      int64
	Container string
}

func mediaFromElements(elements []mediaElement) []Media {
	if len(elements) == 0 {
		return nil
	}
	out := make([]Media, 0, len(elements))
	for _, el := range elements {
		media := Media{
			ID:              atoi64(el.ID),
			Duration:        toDuration(el.Duration),
			Bitrate:         atoi(el.Bitrate),
			Width:           atoi(el.Width),
			Height:          atoi(el.Height),
			AudioChannels:   atoi(el.AudioChannels),
			AudioCodec:      el.AudioCodec,
			VideoCodec:      el.VideoCodec,
			VideoResolution: el.VideoResolution,
			Container:       el.Container,
		}
		for _, part := range el.Parts {
			media.Parts = append(media.Parts, Part{
				ID:        atoi64(part.ID),
				Key:       part.Key,
				Duration:  toDuration(part.Duration),
				File:      part.File,
				Size:      atoi64(part.Size),
				Container: part.Container,
			})
		}
		out = append(out, media)
	}
	return out
}

// DownloadPart streams one media part to the target path.
func (s *Server) DownloadPart(ctx context.Context, part Part, targetPath string) error {
	if part.Key == "" {
		return fmt.Errorf("%w: media part carries no key", ErrBadRequest)
	}
	resp, err := s.request(ctx, http.MethodGet, part.Key, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}
	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create download target: %w", err)
	}
	if _, err := io.Copy(dest, resp.Body); err != nil {
		dest.Close()
		return fmt.Errorf("download part: %w", err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("close download target: %w", err)
	}
	return nil
}

// downloadMedia saves every part of the given media variants into dir. When
// keepOriginalName is false the friendly name replaces the server-side
// filename, keeping the original extension.
func downloadMedia(ctx context.Context, s *Server, dir string, keepOriginalName bool, friendlyName string, media []Media) ([]string, error) {
	var paths []string
	for _, m := range media {
		for _, part := range m.Parts {
			name := filepath.Base(part.File)
			if !keepOriginalName || name == "." || name == "/" {
				ext := filepath.Ext(part.File)
				if ext == "" && part.Container != "" {
					ext = "." + part.Container
				}
				name = sanitizeFilename(friendlyName) + ext
			}
			target := filepath.Join(dir, name)
			if err := s.DownloadPart(ctx, part, target); err != nil {
				return paths, err
			}
			paths = append(paths, target)
		}
	}
	return paths, nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "download"
	}
	return cleaned
}
