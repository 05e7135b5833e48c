package command

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/install"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/status"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/monitoring"
)

// Installer runs one install and reports its terminal status.
type Installer interface {
	Install(ctx context.Context, req install.Request) status.Message
}

// Launcher starts an installed application.
type Launcher interface {
	Launch(location string) error
}

// Lifecycle receives process shutdown requests.
type Lifecycle interface {
	Shutdown(code int)
}

// InProgressText is the error text sent when an install is requested while
// another is still running.
const InProgressText = "installation already in progress"

// Router dispatches parsed actions. It is safe for concurrent use.
type Router struct {
	installer Installer
	launcher  Launcher
	lifecycle Lifecycle
	statuses  *status.Channel
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// NewRouter creates a router posting status updates to statuses.
func NewRouter(installer Installer, launcher Launcher, lifecycle Lifecycle, statuses *status.Channel, logger *zap.Logger) *Router {
	return &Router{
		installer: installer,
		launcher:  launcher,
		lifecycle: lifecycle,
		statuses:  statuses,
		logger:    logger,
	}
}

// WithMetrics attaches metrics recording.
func (r *Router) WithMetrics(metrics *monitoring.Metrics) *Router {
	r.metrics = metrics
	return r
}

// Handle parses and dispatches one inbound message. It never blocks on the
// install itself. Installs inherit ctx's values but not its cancellation, so
// they keep running when the UI connection that started them goes away.
func (r *Router) Handle(ctx context.Context, raw string) {
	action, err := Parse(raw)
	if err != nil {
		r.logger.Warn("Rejected inbound message", zap.Error(err))
		r.statuses.Send(status.Err(err.Error()))
		return
	}

	r.logger.Debug("Dispatching action",
		zap.Stringer("action", action.Kind),
		zap.String("location", action.Request.Location),
	)

	switch action.Kind {
	case ActionInstall:
		r.install(context.WithoutCancel(ctx), action.Request)
	case ActionLaunch:
		r.launch(action.Request)
	case ActionClose:
		r.Cancel()
		r.lifecycle.Shutdown(0)
	case ActionUnknown:
		r.logger.Debug("Ignoring unknown action", zap.String("action", action.Name))
	}
}

func (r *Router) install(ctx context.Context, req install.Request) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.statuses.Send(status.Err(InProgressText))
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	r.statuses.Send(status.Progress())

	go func() {
		defer r.wg.Done()
		defer cancel()

		r.statuses.Send(r.installer.Install(ctx, req))

		r.mu.Lock()
		r.running = false
		r.cancel = nil
		r.mu.Unlock()
	}()
}

func (r *Router) launch(req install.Request) {
	if err := r.launcher.Launch(req.Location); err != nil {
		r.logger.Error("Launch failed", zap.Error(err))
		r.recordLaunch("err")
		r.statuses.Send(status.Err(fmt.Sprintf("failed to launch application: %v", err)))
		return
	}
	r.recordLaunch("ok")
	r.lifecycle.Shutdown(0)
}

func (r *Router) recordLaunch(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordLaunch(outcome)
	}
}

// Cancel stops a running install, if any. Its terminal status is still
// posted.
func (r *Router) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Running reports whether an install is in progress.
func (r *Router) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Wait blocks until the running install, if any, has posted its status.
func (r *Router) Wait() {
	r.wg.Wait()
}
