package jellyfin

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBadRequest indicates an invalid request, generally a caller error.
	ErrBadRequest = errors.New("jellyfin: bad request")
	// ErrUnauthorized indicates an invalid or missing token.
	ErrUnauthorized = errors.New("jellyfin: unauthorized")
	// ErrNotFound indicates the requested media item or device does not exist.
	ErrNotFound = errors.New("jellyfin: not found")
	// ErrUnknownType indicates a container element that maps to no known object type.
	ErrUnknownType = errors.New("jellyfin: unknown item type")
	// ErrUnsupported indicates a command the target client does not advertise.
	ErrUnsupported = errors.New("jellyfin: unsupported client request")
)

func statusError(method, path string, code int, body string) error {
	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, method, path)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case code >= 400 && code < 500:
		if body != "" {
			return fmt.Errorf("%w: %s %s returned %d: %s", ErrBadRequest, method, path, code, body)
		}
		return fmt.Errorf("%w: %s %s returned %d", ErrBadRequest, method, path, code)
	default:
		return fmt.Errorf("jellyfin: %s %s returned %d: %s", method, path, code, body)
	}
}
