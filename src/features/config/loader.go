package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// applyEnvOverrides overrides file values with the environment variables the container image sets.
func applyEnvOverrides(cfg *Config) {
	if dir := os.Getenv("UNSORTED_DIR"); dir != "" {
		cfg.UnsortedPath = dir
	}
	if dir := os.Getenv("SORTED_DIR"); dir != "" {
		cfg.SortedPath = dir
	}
	if beetsCfg := os.Getenv("BEETS_CONFIG"); beetsCfg != "" {
		// BEETS_CONFIG may point at the beets config directory instead of the file
		if info, err := os.Stat(beetsCfg); err == nil && info.IsDir() {
			beetsCfg = filepath.Join(beetsCfg, "config.yaml")
		}
		cfg.Beets.ConfigPath = beetsCfg
	}
	if logs := os.Getenv("LOGS_PATH"); logs != "" {
		cfg.Beets.LogPath = filepath.Join(logs, "beets.log")
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Notify.Telegram.Token = token
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logger.Level = level
	}
}

// Load reads a YAML file from the given path and returns a new ConfigManager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnvOverrides(defaultCfg)
		if err := Validate(defaultCfg); err != nil {
			return nil, err
		}
		slog.Info("Default configuration created successfully", "path", path)
		return NewManager(defaultCfg), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return NewManager(&cfg), nil
}

// Validate checks the struct tags of the configuration.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// saveDefaultConfig writes cfg to path, creating the parent directory.
func saveDefaultConfig(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return NewManager(cfg).Save(path)
}
