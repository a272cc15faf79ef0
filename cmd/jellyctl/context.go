package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jellyfinapi/internal/config"
	"jellyfinapi/internal/logging"
	"jellyfinapi/jellyfin"
	"jellyfinapi/myjellyfin"
)

const tokenStateFileName = "myjellyfin_auth.json"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil || cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// server builds a client for the configured server. The token falls back to
// the linked MyJellyfin account token when the config carries none.
func (c *commandContext) server(ctx context.Context) (*jellyfin.Server, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Server.URL) == "" {
		return nil, errors.New("server url not configured; set server.url or run 'jellyctl config init'")
	}

	token := strings.TrimSpace(cfg.Server.Token)
	if token == "" {
		state, err := c.tokenStore().Load()
		if err != nil {
			return nil, err
		}
		token = state.Token
	}
	if token == "" {
		return nil, errors.New("no authentication token available; set server.token or run 'jellyctl account link'")
	}

	timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	srv, err := jellyfin.New(cfg.Server.URL, token,
		jellyfin.WithHTTPClient(&http.Client{Timeout: timeout}),
		jellyfin.WithIdentity(c.identity()),
		jellyfin.WithContainerSize(cfg.Client.ContainerSize),
		jellyfin.WithRateLimit(cfg.Client.RequestsPerSecond),
		jellyfin.WithLogger(c.ensureLogger()),
	)
	if err != nil {
		return nil, err
	}
	if err := srv.Reload(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Server.URL, err)
	}
	return srv, nil
}

func (c *commandContext) cloudClient() (*myjellyfin.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return myjellyfin.NewClient(
		myjellyfin.WithBaseURL(cfg.MyJellyfin.URL),
		myjellyfin.WithIdentity(c.identity()),
		myjellyfin.WithLogger(c.ensureLogger()),
	), nil
}

func (c *commandContext) tokenStore() *myjellyfin.FileTokenStore {
	cfg, _ := c.ensureConfig()
	stateDir := ""
	if cfg != nil {
		stateDir = cfg.Paths.StateDir
	}
	return myjellyfin.NewFileTokenStore(filepath.Join(stateDir, tokenStateFileName))
}

func (c *commandContext) identity() jellyfin.Identity {
	identity := jellyfin.DefaultIdentity()
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return identity
	}
	identity.Product = cfg.Identity.Product
	identity.Version = cfg.Identity.Version
	identity.Platform = cfg.Identity.Platform
	identity.PlatformVersion = cfg.Identity.PlatformVersion
	identity.Device = cfg.Identity.Device
	identity.DeviceName = cfg.Identity.DeviceName
	identity.Provides = cfg.Identity.Provides
	identity.ClientIdentifier = cfg.Identity.Identifier
	if cfg.Client.Language != "" {
		identity.Language = cfg.Client.Language
	}
	return identity
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
