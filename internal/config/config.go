package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBTimeout      time.Duration // 0 disables the client timeout

	// Server
	ServerPort string

	// Sessions
	SessionTTL       time.Duration
	SessionSweepCron string

	// Home page
	CategoryConcurrency int

	// Paths
	ConfigDir      string
	CategoriesFile string // $CONFIG_DIR/categories.yaml

	// Logging
	LogLevel string
	LogFile  string

	// Tracing
	TracingEnabled bool
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	v.SetDefault("TMDB_TIMEOUT", "0s")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SESSION_TTL_MINUTES", 720)
	v.SetDefault("SESSION_SWEEP_CRON", "*/10 * * * *")
	v.SetDefault("CATEGORY_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper(), ".")
}

// LoadFrom reads configuration through v, looking for a .env file in dir
func LoadFrom(v *viper.Viper, dir string) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	SetDefaults(v)

	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "browsefilms")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	cfg := &Config{
		TMDBAPIKey:       v.GetString("TMDB_API_KEY"),
		TMDBBaseURL:      v.GetString("TMDB_BASE_URL"),
		TMDBImageBaseURL: v.GetString("TMDB_IMAGE_BASE_URL"),
		TMDBTimeout:      v.GetDuration("TMDB_TIMEOUT"),

		ServerPort: v.GetString("SERVER_PORT"),

		SessionTTL:       time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		SessionSweepCron: v.GetString("SESSION_SWEEP_CRON"),

		CategoryConcurrency: v.GetInt("CATEGORY_CONCURRENCY"),

		ConfigDir:      configDir,
		CategoriesFile: filepath.Join(configDir, "categories.yaml"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),

		TracingEnabled: v.GetBool("TRACING_ENABLED"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TMDBBaseURL == "" {
		return fmt.Errorf("TMDB_BASE_URL must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if c.CategoryConcurrency < 1 {
		return fmt.Errorf("CATEGORY_CONCURRENCY must be at least 1")
	}
	if c.TMDBTimeout < 0 {
		return fmt.Errorf("TMDB_TIMEOUT must not be negative")
	}
	return nil
}
