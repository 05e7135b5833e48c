package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all process configuration.
type Config struct {
	Server    ServerConfig
	Installer InstallerConfig
	Dev       DevConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds the local HTTP listener configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"0"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// InstallerConfig holds installer bundle settings.
type InstallerConfig struct {
	// WorkDir is the installer bundle. Empty means the working directory.
	WorkDir         string `envconfig:"NEWTONIUM_WORK_DIR" default:""`
	ManifestPath    string `envconfig:"NEWTONIUM_CONFIG" default:"newtonium.config.json"`
	ViewDir         string `envconfig:"NEWTONIUM_VIEW_DIR" default:"installer_view"`
	Elevator        string `envconfig:"NEWTONIUM_ELEVATOR" default:"pkexec"`
	ApplicationsDir string `envconfig:"NEWTONIUM_APPLICATIONS_DIR" default:"/usr/share/applications"`
	OpenBrowser     bool   `envconfig:"NEWTONIUM_OPEN_BROWSER" default:"true"`
}

// DevConfig switches UI assets to a development server.
type DevConfig struct {
	Enabled bool   `envconfig:"NEWTONIUM_DEV" default:"false"`
	URL     string `envconfig:"NEWTONIUM_DEV_URL" default:"http://localhost:3000"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE" default:""`
}

// RateLimitConfig holds rate limiting configuration for the API routes.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "0",
			Host: "127.0.0.1",
		},
		Installer: InstallerConfig{
			ManifestPath:    "newtonium.config.json",
			ViewDir:         "installer_view",
			Elevator:        "pkexec",
			ApplicationsDir: "/usr/share/applications",
			OpenBrowser:     true,
		},
		Dev: DevConfig{
			Enabled: false,
			URL:     "http://localhost:3000",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
