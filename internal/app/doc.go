// Package app holds the installer's command line.
//
// The root command loads process configuration from the environment,
// applies flag overrides, reads the installer manifest and runs the local
// UI server until the user closes or launches the application. The exit
// code requested by the UI becomes the process exit code.
//
// Subcommands:
//   - desktop-entry: print the launcher entry an install would register
package app
