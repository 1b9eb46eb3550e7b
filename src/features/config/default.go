package config

import "time"

// DefaultExtensions are the audio file extensions imported as singletons.
var DefaultExtensions = []string{".mp3", ".flac", ".m4a", ".ogg", ".wav"}

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		UnsortedPath: "/data/music/unsorted",
		SortedPath:   "/data/music/sorted",
		LockPath:     "./beetwatch.lock",
		Beets: Beets{
			Command:            "beet",
			ConfigPath:         "/app/config/config.yaml",
			RenderedConfigPath: "",
			LogPath:            "/app/logs/beets.log",
			Verbosity:          5,
			DirectoryArgs:      []string{"-q", "-g", "-a"},
			FileArgs:           []string{"-q", "-s"},
			Timeout:            0,
		},
		Watch: Watch{
			Extensions:    append([]string(nil), DefaultExtensions...),
			Debounce:      2 * time.Second,
			MaxConcurrent: 0,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Server: Server{
			Enabled:     true,
			PrintRoutes: false,
			Port:        3636,
		},
		Database: Database{
			Enabled: true,
			Path:    "./beetwatch.db",
		},
		Notify: Notify{
			OnSuccess: false,
			Telegram: Telegram{
				Enabled: false,
				Token:   "", // Can be obtained with https://t.me/BotFather
				ChatIDs: []int64{},
			},
			Webhook: Webhook{
				Enabled: false,
				Command: "",
				Timeout: 30 * time.Second,
			},
		},
	}
}

// applyDefaults fills values a hand written config file commonly leaves out.
func applyDefaults(cfg *Config) {
	def := createDefaultConfig()
	if cfg.Beets.Command == "" {
		cfg.Beets.Command = def.Beets.Command
	}
	if cfg.Beets.LogPath == "" {
		cfg.Beets.LogPath = def.Beets.LogPath
	}
	if len(cfg.Beets.DirectoryArgs) == 0 {
		cfg.Beets.DirectoryArgs = def.Beets.DirectoryArgs
	}
	if len(cfg.Beets.FileArgs) == 0 {
		cfg.Beets.FileArgs = def.Beets.FileArgs
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = def.Watch.Extensions
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = def.Watch.Debounce
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = def.Logger.Level
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = def.Logger.Format
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Notify.Webhook.Timeout == 0 {
		cfg.Notify.Webhook.Timeout = def.Notify.Webhook.Timeout
	}
	if cfg.LockPath == "" {
		cfg.LockPath = def.LockPath
	}
}
