package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	BaseURL  string `toml:"base_url"`
	APIToken string `toml:"api_token"`
	PageSize int    `toml:"page_size"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:  "http://localhost:8000/api",
		APIToken: "",
		PageSize: 10,
	}
}

func DeskctlDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".deskctl"), nil
}

func ConfigPath() (string, error) {
	dir, err := DeskctlDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := DeskctlDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "deskctl.sqlite"), nil
}

func ErrorLogPath() (string, error) {
	dir, err := DeskctlDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "errors.log"), nil
}

func EnsureDirectories() error {
	dir, err := DeskctlDir()
	if err != nil {
		return err
	}

	// Create main directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create db subdirectory
	dbDir := filepath.Join(dir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	if cfg.PageSize < 1 {
		cfg.PageSize = DefaultConfig().PageSize
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}
