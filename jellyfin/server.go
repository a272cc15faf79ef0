package jellyfin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jellyfinapi/internal/logging"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultTimeout       = 30 * time.Second
	defaultContainerSize = 100
)

// Server is a client bound to one Jellyfin media server.
type Server struct {
	baseURL       string
	token         string
	client        HTTPDoer
	identity      Identity
	limiter       *rate.Limiter
	containerSize int
	logger        *slog.Logger

	// Populated by Connect or Reload from the server root document.
	FriendlyName      string
	MachineIdentifier string
	Version           string
	Platform          string
}

// Option configures a Server.
type Option func(*Server)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(s *Server) {
		if client != nil {
			s.client = client
		}
	}
}

// WithIdentity overrides the advertised client identity.
func WithIdentity(identity Identity) Option {
	return func(s *Server) {
		s.identity = identity
	}
}

// WithContainerSize sets the paging batch size for listing requests.
func WithContainerSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.containerSize = size
		}
	}
}

// WithRateLimit throttles outgoing requests to the given rate. Zero or
// negative disables throttling.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(s *Server) {
		if requestsPerSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		} else {
			s.limiter = nil
		}
	}
}

// WithLogger attaches a logger; requests are logged at debug level with
// tokens redacted.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Server client without contacting the server. Identity
// attributes stay empty until Reload.
func New(baseURL, token string, opts ...Option) (*Server, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("jellyfin: base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.New("jellyfin: base url is not a valid URL")
	}

	s := &Server{
		baseURL:       baseURL,
		token:         strings.TrimSpace(token),
		client:        &http.Client{Timeout: defaultTimeout},
		identity:      DefaultIdentity(),
		containerSize: defaultContainerSize,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Connect builds a Server client and loads the server identity attributes.
func Connect(ctx context.Context, baseURL, token string, opts ...Option) (*Server, error) {
	s, err := New(baseURL, token, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload refreshes the server identity attributes from the root document.
func (s *Server) Reload(ctx context.Context) error {
	c, err := s.queryContainer(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return err
	}
	s.FriendlyName = c.FriendlyName
	s.MachineIdentifier = c.MachineIdentifier
	s.Version = c.Version
	s.Platform = c.Platform
	return nil
}

// BaseURL returns the server base URL without a trailing slash.
func (s *Server) BaseURL() string { return s.baseURL }

// Token returns the authentication token bound to this client.
func (s *Server) Token() string { return s.token }

// URL joins a server-relative key into an absolute URL, optionally appending
// the authentication token as a query parameter.
func (s *Server) URL(key string, includeToken bool) string {
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	full := s.baseURL + key
	if !includeToken {
		return full
	}
	separator := "?"
	if strings.Contains(key, "?") {
		separator = "&"
	}
	return full + separator + "X-Jellyfin-Token=" + url.QueryEscape(s.token)
}

// Library returns the library accessor for this server.
func (s *Server) Library() *Library {
	return &Library{srv: s}
}
