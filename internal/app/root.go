package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/config"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/logging"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/server"
)

// flags are the command line overrides for the environment configuration.
type flags struct {
	configPath string
	workDir    string
	viewDir    string
	elevator   string
	host       string
	port       string
	logLevel   string
	logFile    string
	dev        bool
	devURL     string
	noBrowser  bool
}

// state carries the exit code out of cobra's RunE.
type state struct {
	code int
}

// NewRootCommand builds the installer command tree. The returned pointer
// receives the exit code requested by the UI once the command finishes.
func NewRootCommand() (*cobra.Command, *int) {
	st := &state{}
	return newRootCommand(&flags{}, st), &st.code
}

func newRootCommand(f *flags, st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   "newtonium-installer",
		Short: "Graphical installer for Newtonium applications",
		Long: `newtonium-installer serves the bundled installer UI on a loopback port,
opens it in the default browser and performs the privileged install the UI
requests.

The installer bundle (manifest, icon, runtime binaries and installer_view/)
is read from the working directory unless --work-dir is given.

Examples:
  # Run the installer for the bundle in the current directory
  newtonium-installer

  # Develop the UI against a dev server without opening a browser
  newtonium-installer --dev --dev-url http://localhost:5173 --no-browser

  # Show the launcher entry for an install location
  newtonium-installer desktop-entry --location /opt/my-app`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			code, err := run(cmd.Context(), cfg)
			st.code = code
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "installer manifest (default: newtonium.config.json in the work dir)")
	pf.StringVar(&f.workDir, "work-dir", "", "installer bundle directory (default: current directory)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFile, "log-file", "", "also write logs to this rotated file")

	fl := root.Flags()
	fl.StringVar(&f.viewDir, "view-dir", "", "installer UI directory, relative to the work dir")
	fl.StringVar(&f.elevator, "elevator", "", "privilege helper for the install step; empty runs it directly")
	fl.StringVar(&f.host, "host", "", "listen host")
	fl.StringVar(&f.port, "port", "", "listen port (0 picks a free port)")
	fl.BoolVar(&f.dev, "dev", false, "serve the UI from a development server")
	fl.StringVar(&f.devURL, "dev-url", "", "development server URL")
	fl.BoolVar(&f.noBrowser, "no-browser", false, "do not open the UI in a browser")

	root.AddCommand(newDesktopEntryCommand(f))

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, code := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if *code == 0 {
			return 1
		}
	}
	return *code
}

// loadConfig reads the environment and applies every flag the user set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("config") {
		cfg.Installer.ManifestPath = f.configPath
	}
	if changed("work-dir") {
		cfg.Installer.WorkDir = f.workDir
	}
	if changed("view-dir") {
		cfg.Installer.ViewDir = f.viewDir
	}
	if changed("elevator") {
		cfg.Installer.Elevator = f.elevator
	}
	if changed("host") {
		cfg.Server.Host = f.host
	}
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Logging.File = f.logFile
	}
	if changed("dev") {
		cfg.Dev.Enabled = f.dev
	}
	if changed("dev-url") {
		cfg.Dev.URL = f.devURL
	}
	if changed("no-browser") {
		cfg.Installer.OpenBrowser = !f.noBrowser
	}

	if cfg.Installer.WorkDir != "" {
		abs, err := filepath.Abs(cfg.Installer.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve work dir: %w", err)
		}
		cfg.Installer.WorkDir = abs
	}

	return cfg, nil
}

// manifestPath resolves a relative manifest path against the bundle.
func manifestPath(cfg *config.Config) string {
	path := cfg.Installer.ManifestPath
	if filepath.IsAbs(path) || cfg.Installer.WorkDir == "" {
		return path
	}
	return filepath.Join(cfg.Installer.WorkDir, path)
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logCfg.File = cfg.Logging.File
	return logging.New(logCfg)
}

func run(ctx context.Context, cfg *config.Config) (int, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return 1, err
	}
	defer func() { _ = logger.Sync() }()

	m, err := manifest.Load(manifestPath(cfg))
	if err != nil {
		switch {
		case errors.Is(err, manifest.ErrConfigMissing):
			logger.Error("Installer manifest is incomplete", zap.Error(err))
		case errors.Is(err, manifest.ErrConfigMalformed):
			logger.Error("Installer manifest is malformed", zap.Error(err))
		}
		return 1, err
	}

	srv, err := server.NewServer(cfg, m, logger)
	if err != nil {
		return 1, fmt.Errorf("failed to create server: %w", err)
	}

	code, err := srv.Run(ctx)
	if err != nil {
		return code, err
	}
	logger.Info("Installer exited", zap.Int("code", code))
	return code, nil
}
