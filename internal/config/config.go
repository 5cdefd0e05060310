// Package config provides configuration loading for the Courtside client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the client.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig holds remote API configuration.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OAuthConfig holds the Google OAuth client settings. Empty values disable
// Google sign-in; password login still works.
type OAuthConfig struct {
	ClientID    string `mapstructure:"client_id"`
	RedirectURI string `mapstructure:"redirect_uri" validate:"omitempty,uri"`
}

// StorageConfig holds local durable storage settings.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load reads configuration from files and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".courtside"))
	}

	v.SetEnvPrefix("COURTSIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// Config file not found is OK, we use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://project2cst438group9-70c9b7b662e0.herokuapp.com")
	v.SetDefault("api.timeout", "15s")

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.redirect_uri", "")

	defaultPath := "courtside.db"
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath = filepath.Join(home, ".courtside", "session.db")
	}
	v.SetDefault("storage.path", defaultPath)

	v.SetDefault("log.level", "info")
}
