package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Client.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout 30, got %d", cfg.Client.TimeoutSeconds)
	}
	if cfg.Client.ContainerSize != 100 {
		t.Fatalf("expected default container size 100, got %d", cfg.Client.ContainerSize)
	}
	if cfg.MyJellyfin.URL != "https://my.jellyfin.tv" {
		t.Fatalf("unexpected myjellyfin url: %q", cfg.MyJellyfin.URL)
	}
	if cfg.Identity.Product != "JellyfinAPI" {
		t.Fatalf("unexpected identity product: %q", cfg.Identity.Product)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
url = "http://jellyfin.local:8096/"
token = "  secret-token  "

[client]
timeout_seconds = 5
container_size = 50

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Server.URL != "http://jellyfin.local:8096" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.URL)
	}
	if cfg.Server.Token != "secret-token" {
		t.Fatalf("expected token trimmed, got %q", cfg.Server.Token)
	}
	if cfg.Client.TimeoutSeconds != 5 {
		t.Fatalf("expected timeout 5, got %d", cfg.Client.TimeoutSeconds)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadEnvironmentFallback(t *testing.T) {
	t.Setenv("JELLYFIN_URL", "http://env.example:8096")
	t.Setenv("JELLYFIN_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Server.URL != "http://env.example:8096" {
		t.Fatalf("expected env url, got %q", cfg.Server.URL)
	}
	if cfg.Server.Token != "env-token" {
		t.Fatalf("expected env token, got %q", cfg.Server.Token)
	}
}

func TestNormalizeFillsIdentity(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Identity.Platform == "" {
		t.Fatal("expected platform to be filled")
	}
	if cfg.Identity.DeviceName == "" {
		t.Fatal("expected device name to be filled")
	}
	if cfg.Identity.Identifier == "" {
		t.Fatal("expected identifier to be minted")
	}
	if strings.Contains(cfg.Identity.Identifier, "-") {
		t.Fatalf("expected identifier without dashes, got %q", cfg.Identity.Identifier)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad server scheme", func(c *Config) { c.Server.URL = "ftp://example" }},
		{"negative rate", func(c *Config) { c.Client.RequestsPerSecond = -1 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "yaml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := ExpandPath("~/state")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}
	if expanded != filepath.Join(home, "state") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatal("expected sample to contain a [server] section")
	}
}
