// Package config handles configuration loading for Taskify. It reads an
// optional YAML file plus TASKIFY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"taskify/internal/storage"
)

// Config holds all configuration for Taskify.
type Config struct {
	// DBPath is the SQLite file holding all state.
	DBPath string `mapstructure:"db_path"`
	// UserName personalizes the daily summary.
	UserName string `mapstructure:"user_name"`
	// Anthropic configures the optional AI daily digest.
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Load reads config from ~/.config/taskify/config.yaml (when present) and
// the environment. Missing config files are fine; defaults cover
// everything.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "taskify"))
	}

	v.SetEnvPrefix("TASKIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaultDB, err := storage.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	v.SetDefault("db_path", defaultDB)
	v.SetDefault("user_name", "User")
	v.SetDefault("anthropic.api_key", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return &cfg, nil
}
