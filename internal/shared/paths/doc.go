// Package paths provides the fixed filesystem layout shared by the installer
// and the installed application's launcher.
//
// Names in this package are part of the launcher contract: the desktop entry
// written at install time and the runner started by "launch" must agree on
// them, so they never change between releases.
//
// # Layout
//
//	<workdir>/                 (installer bundle, copied verbatim)
//	  ├── installer_view/      (installer UI assets)
//	  ├── newtonium.config.json
//	  └── newtonium_binaries/
//	      ├── runner           (launcher executable)
//	      └── bun              (embedded runtime)
//	/usr/share/applications/   (desktop entries)
//
// # Usage
//
//	import "github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
//
//	runner := paths.RunnerIn("/opt/app") // /opt/app/newtonium_binaries/runner
//	env := paths.LaunchEnv("/opt/app")
package paths
