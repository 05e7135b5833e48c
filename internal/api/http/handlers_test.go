package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
)

type stubInstalls bool

func (s stubInstalls) Running() bool { return bool(s) }

func setupRouter(t *testing.T, workDir string, running bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := &manifest.Manifest{
		Installer: manifest.InstallerConfig{Title: "My App Setup"},
		App:       manifest.AppConfig{Name: "My App", PackageName: "my-app", Icon: "icon.png"},
	}
	h := NewHandlers(m, workDir, stubInstalls(running), zap.NewNop())

	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/api/installer", h.Installer)
	return router
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, t.TempDir(), true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["installing"])
}

func TestInstaller(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "icon.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "index.js"), []byte("run()"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".hidden"), []byte("skip"), 0o644))

	router := setupRouter(t, workDir, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/installer", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool               `json:"success"`
		Init    manifest.InitData  `json:"init"`
		App     map[string]string  `json:"app"`
		Payload map[string]float64 `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, "My App Setup", body.Init.Title)
	assert.Equal(t, "/usr/local/my-app", body.Init.DefaultLocation)
	assert.Equal(t, filepath.Join(workDir, "icon.png"), body.Init.Icon)
	assert.Equal(t, "my-app", body.App["package_name"])
	assert.Equal(t, 2.0, body.Payload["entries"])
	assert.Equal(t, 2.0, body.Payload["files"])
	assert.Equal(t, 8.0, body.Payload["bytes"])
}

func TestInstallerMissingWorkDir(t *testing.T) {
	router := setupRouter(t, filepath.Join(t.TempDir(), "gone"), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/installer", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
