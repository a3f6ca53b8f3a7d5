// Package config loads settings from defaults, an optional config file and
// STUDYNOTES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBPath string `mapstructure:"db_path"`
	Log    Log    `mapstructure:"log"`
	AI     AI     `mapstructure:"ai"`
	Server Server `mapstructure:"server"`
}

type Log struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// AI configures the text-generation provider. FastModel serves chat turns,
// ThoroughModel serves analysis and quiz authoring.
type AI struct {
	Provider      string        `mapstructure:"provider"`
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	FastModel     string        `mapstructure:"fast_model"`
	ThoroughModel string        `mapstructure:"thorough_model"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

// DefaultDir is where the database and config file live unless overridden.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".studynotes")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", filepath.Join(DefaultDir(), "notes.db"))
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "warn")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.fast_model", "")
	v.SetDefault("ai.thorough_model", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("server.addr", "127.0.0.1:8080")
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is looked up in DefaultDir and the working directory; a missing
// file is not an error.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STUDYNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = providerKeyFromEnv(cfg.AI.Provider)
	}
	if cfg.AI.Timeout <= 0 {
		return Config{}, fmt.Errorf("ai.timeout must be positive, got %s", cfg.AI.Timeout)
	}
	return cfg, nil
}

// providerKeyFromEnv falls back to the provider's conventional variable.
func providerKeyFromEnv(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}
