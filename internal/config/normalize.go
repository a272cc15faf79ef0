package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeClient()
	c.normalizeIdentity()
	c.normalizeMyJellyfin()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.SnapshotPath, err = expandPath(c.Paths.SnapshotPath); err != nil {
		return fmt.Errorf("paths.snapshot_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	if c.Server.URL == "" {
		if value, ok := os.LookupEnv("JELLYFIN_URL"); ok {
			c.Server.URL = value
		}
	}
	if c.Server.Token == "" {
		if value, ok := os.LookupEnv("JELLYFIN_TOKEN"); ok {
			c.Server.Token = value
		}
	}
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	c.Server.Token = strings.TrimSpace(c.Server.Token)
}

func (c *Config) normalizeClient() {
	if c.Client.TimeoutSeconds <= 0 {
		c.Client.TimeoutSeconds = defaultTimeout
	}
	if c.Client.ContainerSize <= 0 {
		c.Client.ContainerSize = defaultContainerSize
	}
	c.Client.Language = strings.TrimSpace(c.Client.Language)
	if c.Client.Language == "" {
		c.Client.Language = defaultLanguage
	}
}

func (c *Config) normalizeIdentity() {
	if strings.TrimSpace(c.Identity.Product) == "" {
		c.Identity.Product = defaultProduct
	}
	if strings.TrimSpace(c.Identity.Version) == "" {
		c.Identity.Version = defaultVersion
	}
	if strings.TrimSpace(c.Identity.Platform) == "" {
		c.Identity.Platform = runtime.GOOS
	}
	if strings.TrimSpace(c.Identity.Device) == "" {
		c.Identity.Device = c.Identity.Platform
	}
	if strings.TrimSpace(c.Identity.DeviceName) == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Identity.DeviceName = hostname
		} else {
			c.Identity.DeviceName = c.Identity.Product
		}
	}
	if strings.TrimSpace(c.Identity.Provides) == "" {
		c.Identity.Provides = defaultProvides
	}
	if strings.TrimSpace(c.Identity.Identifier) == "" {
		c.Identity.Identifier = strings.ReplaceAll(uuid.New().String(), "-", "")
	}
}

func (c *Config) normalizeMyJellyfin() {
	c.MyJellyfin.URL = strings.TrimRight(strings.TrimSpace(c.MyJellyfin.URL), "/")
	if c.MyJellyfin.URL == "" {
		c.MyJellyfin.URL = defaultMyJellyfinURL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
