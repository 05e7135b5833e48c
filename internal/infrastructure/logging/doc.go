// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// When Config.File is set every entry is also written, as JSON, to a
// size-rotated file (lumberjack). Installs usually run without a terminal,
// so the file is the only place a user can find the full privileged output
// after the window is gone.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	logger.Info("Installer starting", zap.String("addr", "127.0.0.1:0"))
//	logger.Error("Install failed", zap.Error(err))
package logging
