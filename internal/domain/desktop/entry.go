// Package desktop generates freedesktop.org launcher entries for installed
// applications.
package desktop

import (
	"fmt"

	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

// Generate returns the desktop entry text for an application installed at
// location. The Exec line changes into location and starts the runner with
// the launcher environment; location is embedded verbatim, so callers must
// validate it first.
func Generate(name, icon, location string) string {
	return fmt.Sprintf(`[Desktop Entry]
Name=%s
Exec=bash -ic "cd %s; %s=. %s=%s %s=%s ./%s"
Icon=%s
Type=Application
Categories=Development`,
		name,
		location,
		paths.EnvRoot,
		paths.EnvRuntime, paths.Runtime,
		paths.EnvEntrypoint, paths.Entrypoint,
		paths.Runner,
		icon,
	)
}
