package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/desktop"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/install"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

func newDesktopEntryCommand(f *flags) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "desktop-entry",
		Short: "Print the launcher entry an install would register",
		Long: `Print the desktop entry the installer writes to the applications
directory for an install at --location. Without --location the manifest's
default location is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			m, err := manifest.Load(manifestPath(cfg))
			if err != nil {
				return err
			}

			if location == "" {
				location = paths.DefaultLocation(m.App.PackageName)
			}
			if err := (install.Request{Location: location}).Validate(); err != nil {
				return err
			}

			entry := desktop.Generate(m.App.Name, filepath.Join(location, m.App.Icon), location)
			fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", m.App.DesktopFileName())
			fmt.Fprintln(cmd.OutOrStdout(), entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "install location (default: /usr/local/<package_name>)")
	return cmd
}
