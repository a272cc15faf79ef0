package config

const (
	defaultStateDir      = "~/.config/jellyfinapi"
	defaultLogDir        = "~/.local/share/jellyfinapi/logs"
	defaultDownloadDir   = "~/.local/share/jellyfinapi/downloads"
	defaultSnapshotPath  = "~/.local/share/jellyfinapi/snapshot.db"
	defaultMyJellyfinURL = "https://my.jellyfin.tv"
	defaultTimeout       = 30
	defaultContainerSize = 100
	defaultLanguage      = "en"
	defaultProduct       = "JellyfinAPI"
	defaultVersion       = "0.1.0"
	defaultProvides      = "controller"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Client: Client{
			TimeoutSeconds: defaultTimeout,
			ContainerSize:  defaultContainerSize,
			Language:       defaultLanguage,
		},
		Identity: Identity{
			Product:  defaultProduct,
			Version:  defaultVersion,
			Provides: defaultProvides,
		},
		MyJellyfin: MyJellyfin{
			URL: defaultMyJellyfinURL,
		},
		Paths: Paths{
			StateDir:     defaultStateDir,
			LogDir:       defaultLogDir,
			DownloadDir:  defaultDownloadDir,
			SnapshotPath: defaultSnapshotPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
