package paths

import (
	"fmt"
	"path/filepath"
)

// System locations
const (
	// Applications is where desktop entries are registered.
	Applications = "/usr/share/applications"

	// DefaultInstallRoot is the parent of the default install location.
	DefaultInstallRoot = "/usr/local"
)

// Installer bundle layout
const (
	// ViewDir holds the installer UI assets.
	ViewDir = "installer_view"

	// EntryDocument is served for the root path.
	EntryDocument = "index.html"

	// ConfigFile is the installer manifest looked up in the working directory.
	ConfigFile = "newtonium.config.json"

	// ResourceMarker in a request authority selects the filesystem root
	// instead of ViewDir.
	ResourceMarker = "nai_res"
)

// Runner contract
const (
	// Runner is the launcher executable, relative to the install location.
	Runner = "newtonium_binaries/runner"

	// Runtime is the embedded runtime, relative to the install location.
	Runtime = "newtonium_binaries/bun"

	// Entrypoint is the script the runner executes.
	Entrypoint = "index.js"

	EnvRoot       = "NEWTONIUM_ROOT"
	EnvRuntime    = "NEWTONIUM_BUN"
	EnvEntrypoint = "NEWTONIUM_ENTRYPOINT"
)

// RunnerIn returns the runner executable inside an install location.
func RunnerIn(location string) string {
	return filepath.Join(location, Runner)
}

// DefaultLocation returns the suggested install location for a package.
func DefaultLocation(packageName string) string {
	return filepath.Join(DefaultInstallRoot, packageName)
}

// DesktopFileName returns the desktop entry file name for a package.
func DesktopFileName(packageName string) string {
	return packageName + ".desktop"
}

// LaunchEnv returns the environment assignments the runner expects when
// started from root.
func LaunchEnv(root string) []string {
	return []string{
		fmt.Sprintf("%s=%s", EnvRoot, root),
		fmt.Sprintf("%s=%s", EnvRuntime, Runtime),
		fmt.Sprintf("%s=%s", EnvEntrypoint, Entrypoint),
	}
}
