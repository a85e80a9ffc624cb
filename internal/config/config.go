package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TASKBOARD"

// Config holds application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig points at the board service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HistoryConfig holds the recent-boards sqlite settings.
type HistoryConfig struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Load reads configuration from .env, file and env, in increasing priority.
// Env var overrides use prefix TASKBOARD_, e.g. TASKBOARD_API_BASE_URL.
// TASKBOARD_API_URL is accepted as a shorthand for the base URL.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv(envPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "taskboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if short := strings.TrimSpace(os.Getenv(envPrefix + "_API_URL")); short != "" && os.Getenv(envPrefix+"_API_BASE_URL") == "" {
		c.API.BaseURL = short
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := homeDir()
	v.SetDefault("api.base_url", "https://task-management-boards-server.onrender.com")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("history.path", filepath.Join(home, ".local", "share", "taskboard", "history.db"))
	v.SetDefault("history.limit", 10)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "taskboard", "taskboard.log"))
	v.SetDefault("log.level", "info")
}

// Validate checks values that would otherwise fail later at first use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative")
	}
	return nil
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
