package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains connection settings for a Jellyfin media server.
type Server struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// Client contains request tuning knobs applied to every server call.
type Client struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	ContainerSize     int     `toml:"container_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Language          string  `toml:"language"`
}

// Identity contains the X-Jellyfin-* header values sent with every request.
// Empty fields are filled from the running host during normalization.
type Identity struct {
	Product         string `toml:"product"`
	Version         string `toml:"version"`
	Platform        string `toml:"platform"`
	PlatformVersion string `toml:"platform_version"`
	Device          string `toml:"device"`
	DeviceName      string `toml:"device_name"`
	Provides        string `toml:"provides"`
	Identifier      string `toml:"identifier"`
}

// MyJellyfin contains settings for the cloud remote-login service.
type MyJellyfin struct {
	URL string `toml:"url"`
}

// Paths contains directory configuration.
type Paths struct {
	StateDir     string `toml:"state_dir"`
	LogDir       string `toml:"log_dir"`
	DownloadDir  string `toml:"download_dir"`
	SnapshotPath string `toml:"snapshot_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format      string `toml:"format"`
	Level       string `toml:"level"`
	ShowSecrets bool   `toml:"show_secrets"`
}

// Config encapsulates all configuration values for the jellyfinapi bindings
// and the jellyctl CLI.
//
// Configuration sections:
//   - Server: base URL and token for direct server access
//   - Client: timeout, paging container size, request throttling
//   - Identity: X-Jellyfin-* header values
//   - MyJellyfin: cloud remote-login endpoint
//   - Paths: state, log, download, and snapshot locations
//   - Logging: log format, level, and secret redaction
type Config struct {
	Server     Server     `toml:"server"`
	Client     Client     `toml:"client"`
	Identity   Identity   `toml:"identity"`
	MyJellyfin MyJellyfin `toml:"myjellyfin"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/jellyfinapi/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file resolves to
// defaults plus environment overrides.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("jellyfinapi.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
