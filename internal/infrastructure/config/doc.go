// Package config provides 12-factor process configuration for the installer.
//
// Settings come from environment variables with defaults; CLI flags override
// them in cmd/installer. The application manifest (newtonium.config.json) is
// not handled here, see internal/domain/manifest.
//
// Configuration Sections:
//   - Server: loopback listener (port 0 picks a free port)
//   - Installer: manifest path, UI asset directory, elevation helper
//   - Dev: serve UI assets from a development server
//   - Logging: level, output format, optional rotated file
//   - RateLimit: limiter for the /api routes
//
// Environment Variables:
//   - PORT, HOST
//   - NEWTONIUM_CONFIG, NEWTONIUM_VIEW_DIR, NEWTONIUM_ELEVATOR, NEWTONIUM_OPEN_BROWSER
//   - NEWTONIUM_DEV, NEWTONIUM_DEV_URL
//   - LOG_LEVEL, LOG_DEV, LOG_FILE
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
