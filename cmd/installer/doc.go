// Package main is the entry point for the Newtonium installer.
//
// The installer serves a bundled web UI on a loopback port and performs the
// privileged install the UI asks for:
//
//	Browser UI ⇄ /ipc websocket → command router → install executor (pkexec sh)
//	           ← status channel ←
//
// Configuration:
//   - Environment variables (NEWTONIUM_*, PORT, HOST, LOG_*)
//   - CLI flags (override env vars)
//   - Installer manifest (newtonium.config.json, YAML or TOML)
//
// Usage:
//
//	# Run from an installer bundle
//	./newtonium-installer
//
//	# UI development
//	./newtonium-installer --dev --dev-url http://localhost:3000 --log-level debug
//
// Signals:
//   - SIGINT, SIGTERM: cancel a running install and shut down
package main
