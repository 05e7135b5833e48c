package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skratchdot/open-golang/open"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/newtonium-installer/internal/api/http"
	"github.com/GriffinCanCode/newtonium-installer/internal/api/middleware"
	"github.com/GriffinCanCode/newtonium-installer/internal/api/resource"
	"github.com/GriffinCanCode/newtonium-installer/internal/api/ws"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/command"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/install"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/status"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/config"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/httpclient"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/logging"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/monitoring"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	engine   *gin.Engine
	http     *http.Server
	router   *command.Router
	bridge   *ws.Handler
	statuses *status.Channel
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	opener   func(url string) error

	ready chan struct{}
	url   string

	once     sync.Once
	shutdown chan struct{}
	code     int
}

// NewServer wires every component for the installer bundle described by m.
func NewServer(cfg *config.Config, m *manifest.Manifest, logger *logging.Logger) (*Server, error) {
	workDir := cfg.Installer.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		workDir = wd
	}

	viewDir := cfg.Installer.ViewDir
	if !filepath.IsAbs(viewDir) {
		viewDir = filepath.Join(workDir, viewDir)
	}

	logger.Info("Initializing installer server",
		zap.String("app", m.App.Name),
		zap.String("work_dir", workDir),
		zap.String("view_dir", viewDir),
		zap.Bool("dev", cfg.Dev.Enabled),
	)

	metrics := monitoring.NewMetrics()
	statuses := status.NewChannel()

	executor, err := install.NewExecutor(m, install.Options{
		WorkDir:         workDir,
		Elevator:        cfg.Installer.Elevator,
		ApplicationsDir: cfg.Installer.ApplicationsDir,
	}, logger.Logger)
	if err != nil {
		return nil, err
	}
	executor.WithMetrics(metrics)

	s := &Server{
		statuses: statuses,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		opener:   open.Start,
		ready:    make(chan struct{}),
		shutdown: make(chan struct{}),
	}

	s.router = command.NewRouter(executor, command.NewProcessLauncher(logger.Logger), s, statuses, logger.Logger).
		WithMetrics(metrics)
	s.bridge = ws.NewHandler(s.router, statuses, logger.Logger).WithMetrics(metrics)

	resolver, err := resource.NewResolver(viewDir)
	if err != nil {
		return nil, err
	}
	resources, err := resource.NewHandler(resolver, m.InitData(workDir), logger.Logger)
	if err != nil {
		return nil, err
	}
	resources.WithMetrics(metrics)
	if cfg.Dev.Enabled {
		logger.Info("Serving UI from development server", zap.String("url", cfg.Dev.URL))
		resources.WithDevServer(httpclient.New(httpclient.Options{BaseURL: cfg.Dev.URL}, logger.Logger))
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger(logger.Logger))
	engine.Use(monitoring.Middleware(metrics))
	engine.Use(middleware.LoopbackOnly())
	if cfg.Dev.Enabled {
		engine.Use(middleware.CORS(middleware.DevCORSConfig(cfg.Dev.URL)))
	}

	// Filesystem resources take precedence over every route.
	served := resources.Compressed()
	engine.Use(func(c *gin.Context) {
		if resource.IsResourceAuthority(c.Request.Host) {
			served.ServeHTTP(c.Writer, c.Request)
			c.Abort()
			return
		}
		c.Next()
	})

	handlers := apihttp.NewHandlers(m, workDir, s.router, logger.Logger)

	engine.GET("/health", handlers.Health)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	engine.GET("/ipc", s.bridge.HandleConnection)

	api := engine.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	api.GET("/installer", handlers.Installer)

	// Everything else is a UI asset.
	engine.NoRoute(gin.WrapH(served))

	s.engine = engine
	s.http = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// WithOpener replaces the function used to show the UI.
func (s *Server) WithOpener(opener func(url string) error) *Server {
	s.opener = opener
	return s
}

// Shutdown requests process exit with code. Only the first request counts.
// It never blocks, so it is safe to call from a request handler.
func (s *Server) Shutdown(code int) {
	s.once.Do(func() {
		s.logger.Info("Shutdown requested", zap.Int("code", code))
		s.code = code
		close(s.shutdown)
	})
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// URL returns the UI address. Valid after Ready.
func (s *Server) URL() string {
	return s.url
}

// Run serves until ctx ends or a shutdown is requested, then stops every
// component and returns the exit code.
func (s *Server) Run(ctx context.Context) (int, error) {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return 1, fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}

	port := ln.Addr().(*net.TCPAddr).Port
	s.url = fmt.Sprintf("http://localhost:%d/", port)
	close(s.ready)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("Installer UI available", zap.String("url", s.url))
	if s.config.Installer.OpenBrowser {
		if err := s.opener(s.url); err != nil {
			s.logger.Warn("Failed to open browser", zap.String("url", s.url), zap.Error(err))
		}
	}

	code := 0
	select {
	case <-ctx.Done():
		s.logger.Info("Interrupted")
	case <-s.shutdown:
		code = s.code
	case err := <-errCh:
		s.Close()
		return 1, fmt.Errorf("server error: %w", err)
	}

	return code, s.Close()
}

// Close stops the listener, cancels a running install and waits for its
// status, then flushes the logs.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.router.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(ctx)

	s.bridge.Close()
	s.router.Wait()

	_ = s.logger.Sync()

	if err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
