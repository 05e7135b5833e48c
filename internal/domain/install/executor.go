package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/desktop"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/status"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/newtonium-installer/internal/shared/id"
	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

var (
	// ErrPrivilegeDenied is returned when the elevation helper is missing,
	// cannot start, or refuses authorization.
	ErrPrivilegeDenied = errors.New("privilege denied")

	// ErrStepFailed is returned when the privileged command exits non-zero.
	ErrStepFailed = errors.New("install step failed")

	// ErrCanceled is returned when the install context ends first.
	ErrCanceled = errors.New("install canceled")
)

// pkexec exit codes for a dismissed dialog and failed authentication.
const (
	exitNotAuthorized = 126
	exitAuthFailed    = 127
)

// installScript runs as: sh -c installScript newtonium-install LOCATION
// APPLICATIONS ENTRY ICON_SRC ICON_DST PAYLOAD...
const installScript = `location=$1 apps=$2 entry=$3 icon_src=$4 icon_dst=$5
shift 5
mkdir -p -- "$location" &&
cp -- "$entry" "$apps" &&
mkdir -p -- "$(dirname -- "$icon_dst")" &&
cp -- "$icon_src" "$icon_dst" &&
chmod +x -- "$icon_dst" &&
cp -r -- "$@" "$location/"`

// Error describes a failed install.
type Error struct {
	Kind     error
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v (exit code %d)", e.Kind, e.ExitCode)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Result holds the captured output of a successful install.
type Result struct {
	JobID    id.JobID
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Options configures an Executor.
type Options struct {
	// WorkDir is the installer bundle directory. Defaults to the process
	// working directory.
	WorkDir string

	// Elevator is the elevation helper. Empty runs the shell directly.
	Elevator string

	// Shell runs the install script. Defaults to "sh".
	Shell string

	// ApplicationsDir receives the desktop entry. Defaults to
	// /usr/share/applications.
	ApplicationsDir string
}

// Executor runs installs for one manifest.
type Executor struct {
	manifest *manifest.Manifest
	opts     Options
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewExecutor creates an executor. Missing options get their defaults.
func NewExecutor(m *manifest.Manifest, opts Options, logger *zap.Logger) (*Executor, error) {
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		opts.WorkDir = wd
	}
	abs, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	opts.WorkDir = abs

	if opts.Shell == "" {
		opts.Shell = "sh"
	}
	if opts.ApplicationsDir == "" {
		opts.ApplicationsDir = paths.Applications
	}

	return &Executor{
		manifest: m,
		opts:     opts,
		logger:   logger,
	}, nil
}

// WithMetrics attaches metrics recording.
func (e *Executor) WithMetrics(metrics *monitoring.Metrics) *Executor {
	e.metrics = metrics
	return e
}

// WorkDir returns the resolved installer bundle directory.
func (e *Executor) WorkDir() string {
	return e.opts.WorkDir
}

// Install runs an install and reports it as exactly one Ok or Err message.
func (e *Executor) Install(ctx context.Context, req Request) status.Message {
	res, err := e.Run(ctx, req)
	if err != nil {
		return status.Err(diagnostic(err))
	}
	return status.Ok(res.Stdout)
}

// Run performs the install described in the package documentation.
func (e *Executor) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	jobID := id.NewJobID()
	logger := e.logger.With(
		zap.String("job_id", jobID.String()),
		zap.String("location", req.Location),
	)

	app := e.manifest.App
	iconDst := filepath.Join(req.Location, app.Icon)
	entryPath := filepath.Join(e.opts.WorkDir, app.DesktopFileName())

	entry := desktop.Generate(app.Name, iconDst, req.Location)
	if err := os.WriteFile(entryPath, []byte(entry), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write desktop entry: %w", err)
	}

	payload, err := PayloadEntries(e.opts.WorkDir)
	if err != nil {
		return nil, err
	}

	args := append([]string{
		"-c", installScript, "newtonium-install",
		req.Location,
		e.opts.ApplicationsDir,
		entryPath,
		filepath.Join(e.opts.WorkDir, app.Icon),
		iconDst,
	}, payload...)

	name := e.opts.Shell
	if e.opts.Elevator != "" {
		name = e.opts.Elevator
		args = append([]string{e.opts.Shell}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.opts.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info("Running privileged install",
		zap.String("helper", name),
		zap.Int("payload_entries", len(payload)),
	)

	if e.metrics != nil {
		e.metrics.InstallStarted()
	}
	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	res := &Result{
		JobID:    jobID,
		Stdout:   decodeOutput(stdout.Bytes()),
		Stderr:   decodeOutput(stderr.Bytes()),
		Duration: duration,
	}

	err = e.classify(ctx, runErr, res.Stderr)
	e.record(err, duration)

	if err != nil {
		logger.Error("Install failed",
			zap.Error(err),
			zap.String("stderr", res.Stderr),
			zap.Duration("duration", duration),
		)
		return nil, err
	}

	logger.Info("Install finished", zap.Duration("duration", duration))
	return res, nil
}

func (e *Executor) classify(ctx context.Context, runErr error, stderr string) error {
	if runErr == nil {
		return nil
	}

	// An elevated helper runs as root and survives the kill on cancel, so a
	// real exit status wins over the context.
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && exitErr.Exited() {
		code := exitErr.ExitCode()
		if e.opts.Elevator != "" && (code == exitNotAuthorized || code == exitAuthFailed) {
			return &Error{Kind: ErrPrivilegeDenied, ExitCode: code, Stderr: stderr}
		}
		return &Error{Kind: ErrStepFailed, ExitCode: code, Stderr: stderr}
	}

	if ctx.Err() != nil {
		return &Error{Kind: ErrCanceled, Err: ctx.Err(), Stderr: stderr}
	}

	if exitErr == nil {
		// The helper never ran.
		return &Error{Kind: ErrPrivilegeDenied, Err: runErr, ExitCode: -1}
	}
	return &Error{Kind: ErrStepFailed, ExitCode: exitErr.ExitCode(), Stderr: stderr}
}

func (e *Executor) record(err error, duration time.Duration) {
	if e.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrCanceled):
		outcome = "canceled"
	case errors.Is(err, ErrPrivilegeDenied):
		outcome = "denied"
	case err != nil:
		outcome = "err"
	}
	e.metrics.InstallFinished(outcome, duration)
}

// diagnostic returns the user-facing text for an install error: the
// command's stderr when there is one.
func diagnostic(err error) string {
	var ie *Error
	if !errors.As(err, &ie) {
		return err.Error()
	}

	switch {
	case errors.Is(ie.Kind, ErrCanceled):
		return "installation canceled"
	case ie.Err != nil && ie.ExitCode == -1:
		return fmt.Sprintf("failed to run elevation helper: %v", ie.Err)
	case ie.Stderr != "":
		return ie.Stderr
	case errors.Is(ie.Kind, ErrPrivilegeDenied):
		return "authorization was denied"
	default:
		return ie.Error()
	}
}
