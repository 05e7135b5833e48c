package command

import (
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

// ProcessLauncher starts an installed application's runner as a detached
// process that outlives the installer.
type ProcessLauncher struct {
	logger *zap.Logger
}

// NewProcessLauncher creates a launcher.
func NewProcessLauncher(logger *zap.Logger) *ProcessLauncher {
	return &ProcessLauncher{logger: logger}
}

// Launch starts <location>/newtonium_binaries/runner with location as its
// working directory and the runner environment set. It returns once the
// process has started.
func (l *ProcessLauncher) Launch(location string) error {
	runner := paths.RunnerIn(location)

	cmd := exec.Command(runner)
	cmd.Dir = location
	cmd.Env = append(os.Environ(), paths.LaunchEnv(location)...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", runner, err)
	}

	l.logger.Info("Launched application runner",
		zap.String("runner", runner),
		zap.Int("pid", cmd.Process.Pid),
	)
	return cmd.Process.Release()
}
