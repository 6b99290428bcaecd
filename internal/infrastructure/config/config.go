package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Desktop   DesktopConfig
	Media     MediaConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// DesktopConfig holds window manager configuration.
type DesktopConfig struct {
	Width          int           `envconfig:"DESKTOP_WIDTH" default:"1280"`
	Height         int           `envconfig:"DESKTOP_HEIGHT" default:"800"`
	TaskbarHeight  int           `envconfig:"TASKBAR_HEIGHT" default:"36"`
	ZIndexBase     int           `envconfig:"Z_INDEX_BASE" default:"20"`
	CloseAnimation time.Duration `envconfig:"CLOSE_ANIMATION" default:"300ms"`
	InitTimeout    time.Duration `envconfig:"INIT_TIMEOUT" default:"30s"`
	CatalogPath    string        `envconfig:"CATALOG_PATH"`
	PlacementSeed  uint64        `envconfig:"PLACEMENT_SEED" default:"0"`
}

// MediaConfig holds media player configuration.
type MediaConfig struct {
	APIURL       string        `envconfig:"MEDIA_API_URL" default:"https://www.youtube.com/iframe_api"`
	LoadTimeout  time.Duration `envconfig:"MEDIA_LOAD_TIMEOUT" default:"10s"`
	DefaultVideo string        `envconfig:"MEDIA_DEFAULT_VIDEO" default:"WXuK6gekU1Y"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Desktop: DesktopConfig{
			Width:          1280,
			Height:         800,
			TaskbarHeight:  36,
			ZIndexBase:     20,
			CloseAnimation: 300 * time.Millisecond,
			InitTimeout:    30 * time.Second,
		},
		Media: MediaConfig{
			APIURL:       "https://www.youtube.com/iframe_api",
			LoadTimeout:  10 * time.Second,
			DefaultVideo: "WXuK6gekU1Y",
		},
	}
}
