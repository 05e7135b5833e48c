package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/install"
	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
)

// InstallState reports whether an install is running.
type InstallState interface {
	Running() bool
}

// Handlers serves the installer's JSON endpoints.
type Handlers struct {
	manifest *manifest.Manifest
	workDir  string
	installs InstallState
	logger   *zap.Logger
	started  time.Time
}

// NewHandlers creates the handlers for an installer bundle in workDir.
func NewHandlers(m *manifest.Manifest, workDir string, installs InstallState, logger *zap.Logger) *Handlers {
	return &Handlers{
		manifest: m,
		workDir:  workDir,
		installs: installs,
		logger:   logger,
		started:  time.Now(),
	}
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"installing": h.installs.Running(),
		"uptime":     time.Since(h.started).Round(time.Second).String(),
	})
}

// Installer returns the values behind window.nai plus a summary of what an
// install would copy
func (h *Handlers) Installer(c *gin.Context) {
	summary, err := install.Summarize(h.workDir)
	if err != nil {
		h.logger.Warn("Failed to summarize payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"init":    h.manifest.InitData(h.workDir),
		"app": gin.H{
			"name":         h.manifest.App.Name,
			"package_name": h.manifest.App.PackageName,
		},
		"payload":    summary,
		"installing": h.installs.Running(),
	})
}
