package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "0", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Installer config
	assert.Equal(t, "newtonium.config.json", cfg.Installer.ManifestPath)
	assert.Equal(t, "installer_view", cfg.Installer.ViewDir)
	assert.Equal(t, "pkexec", cfg.Installer.Elevator)
	assert.Equal(t, "/usr/share/applications", cfg.Installer.ApplicationsDir)
	assert.Empty(t, cfg.Installer.WorkDir)
	assert.True(t, cfg.Installer.OpenBrowser)

	// Dev config
	assert.False(t, cfg.Dev.Enabled)
	assert.Equal(t, "http://localhost:3000", cfg.Dev.URL)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Empty(t, cfg.Logging.File)

	// Rate limit config
	assert.Equal(t, 50, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                   "9000",
		"HOST":                   "0.0.0.0",
		"NEWTONIUM_CONFIG":       "/tmp/app.yaml",
		"NEWTONIUM_VIEW_DIR":     "view",
		"NEWTONIUM_ELEVATOR":     "sudo",
		"NEWTONIUM_WORK_DIR":     "/tmp/bundle",
		"NEWTONIUM_OPEN_BROWSER": "false",
		"NEWTONIUM_DEV":          "true",
		"NEWTONIUM_DEV_URL":      "http://localhost:5173",
		"LOG_LEVEL":              "debug",
		"LOG_DEV":                "true",
		"LOG_FILE":               "/tmp/installer.log",
		"RATE_LIMIT_RPS":         "5",
		"RATE_LIMIT_BURST":       "10",
		"RATE_LIMIT_ENABLED":     "false",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())

	assert.Equal(t, "/tmp/app.yaml", cfg.Installer.ManifestPath)
	assert.Equal(t, "view", cfg.Installer.ViewDir)
	assert.Equal(t, "sudo", cfg.Installer.Elevator)
	assert.Equal(t, "/tmp/bundle", cfg.Installer.WorkDir)
	assert.False(t, cfg.Installer.OpenBrowser)

	assert.True(t, cfg.Dev.Enabled)
	assert.Equal(t, "http://localhost:5173", cfg.Dev.URL)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "/tmp/installer.log", cfg.Logging.File)

	assert.Equal(t, 5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadWithInvalidValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "fast")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}

func TestDevConfig(t *testing.T) {
	tests := []struct {
		name        string
		dev         string
		wantEnabled bool
	}{
		{name: "unset", dev: "", wantEnabled: false},
		{name: "true", dev: "true", wantEnabled: true},
		{name: "one", dev: "1", wantEnabled: true},
		{name: "false", dev: "false", wantEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("NEWTONIUM_DEV")
			if tt.dev != "" {
				t.Setenv("NEWTONIUM_DEV", tt.dev)
			}

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnabled, cfg.Dev.Enabled)
		})
	}
}
