package config

import "time"

// Config holds the application configuration.
type Config struct {
	UnsortedPath string   `yaml:"unsorted_path" validate:"required"`
	SortedPath   string   `yaml:"sorted_path"`
	LockPath     string   `yaml:"lock_path"`
	Beets        Beets    `yaml:"beets"`
	Watch        Watch    `yaml:"watch"`
	Logger       Logger   `yaml:"logger"`
	Server       Server   `yaml:"server"`
	Database     Database `yaml:"database"`
	Notify       Notify   `yaml:"notify"`
}

// Beets holds the configuration for the external beet command.
type Beets struct {
	Command            string        `yaml:"command" validate:"required"`
	ConfigPath         string        `yaml:"config_path" validate:"required"`
	RenderedConfigPath string        `yaml:"rendered_config_path"` // Temp file when empty
	LogPath            string        `yaml:"log_path" validate:"required"`
	Verbosity          int           `yaml:"verbosity" validate:"min=0,max=5"`
	DirectoryArgs      []string      `yaml:"directory_args"`
	FileArgs           []string      `yaml:"file_args"`
	Timeout            time.Duration `yaml:"timeout"` // 0 means no timeout
}

// Watch holds the configuration for the unsorted directory watcher.
type Watch struct {
	Extensions    []string      `yaml:"extensions"`
	Debounce      time.Duration `yaml:"debounce"`
	MaxConcurrent int64         `yaml:"max_concurrent" validate:"min=0"` // 0 means unbounded
}

// Database holds the configuration for the dispatch history database
type Database struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// Server hold the configuration for the Fiber status server
type Server struct {
	Enabled     bool   `yaml:"enabled"`
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=text json logfmt"`
}

// Notify holds the configuration for dispatch notifications.
type Notify struct {
	OnSuccess bool     `yaml:"on_success"`
	Telegram  Telegram `yaml:"telegram"`
	Webhook   Webhook  `yaml:"webhook"`
}

type Telegram struct {
	Enabled bool    `yaml:"enabled"`
	Token   string  `yaml:"token" validate:"required_if=Enabled true"`
	ChatIDs []int64 `yaml:"chat_ids"`
}

type Webhook struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command" validate:"required_if=Enabled true"`
	Timeout time.Duration `yaml:"timeout"`
}
