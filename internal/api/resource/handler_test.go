package resource

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/httpclient"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/monitoring"
)

func newTestHandler(t *testing.T) (*Handler, string, *monitoring.Metrics) {
	t.Helper()
	r, base := newTestResolver(t)
	metrics := monitoring.NewMetrics()

	h, err := NewHandler(r, testInit, zap.NewNop())
	require.NoError(t, err)
	return h.WithMetrics(metrics), base, metrics
}

func serve(h http.Handler, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandlerServesEntryWithScripts(t *testing.T) {
	h, _, metrics := newTestHandler(t)

	w := serve(h, "localhost:4321", "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))

	root, err := htmlquery.Parse(w.Body)
	require.NoError(t, err)

	scripts := htmlquery.Find(root, "//head/script[@data-nai]")
	require.Len(t, scripts, 2)
	assert.Contains(t, htmlquery.InnerText(scripts[0]), `"title":"My App Setup"`)
	assert.Contains(t, htmlquery.InnerText(scripts[1]), "window.ipc")
	assert.Equal(t, "installer", htmlquery.InnerText(htmlquery.FindOne(root, "//body")))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResourceRequests.WithLabelValues(RootView, "200")))
}

func TestHandlerServesAssetsVerbatim(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := serve(h, "localhost:4321", "/styles/site.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
	assert.Equal(t, "text/css", w.Header().Get("Content-Type"))
}

func TestHandlerServesFilesystemResources(t *testing.T) {
	h, base, metrics := newTestHandler(t)

	w := serve(h, "nai_res.localhost:4321", filepath.Join(base, "secret.txt"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "outside", w.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResourceRequests.WithLabelValues(RootFilesystem, "200")))
}

func TestHandlerFailuresAre500(t *testing.T) {
	h, _, metrics := newTestHandler(t)

	for _, path := range []string{"/missing.js", "/../secret.txt", "/styles"} {
		w := serve(h, "localhost:4321", path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"), path)
		assert.NotEmpty(t, w.Body.String(), path)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ResourceRequests.WithLabelValues(RootView, "500")))

	w := serve(h, "nai_res.localhost:4321", "/no/such/file")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "resource not found")
}

func TestHandlerCompressed(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "localhost:4321"
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.Compressed().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "window.nai")
}

func TestHandlerDevProxy(t *testing.T) {
	dev := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, "<html><head></head><body>dev build</body></html>")
		case "/_next/app.js":
			w.Header().Set("Content-Type", "application/javascript")
			_, _ = io.WriteString(w, "hot("+r.URL.RawQuery+")")
		default:
			http.NotFound(w, r)
		}
	}))
	defer dev.Close()

	h, base, metrics := newTestHandler(t)
	h.WithDevServer(httpclient.New(httpclient.Options{BaseURL: dev.URL, RetryMax: -1}, zap.NewNop()))

	w := serve(h, "localhost:4321", "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dev build")
	assert.Contains(t, w.Body.String(), "window.nai")

	w = serve(h, "localhost:4321", "/_next/app.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hot()", w.Body.String())

	w = serve(h, "localhost:4321", "/_next/app.js?v=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hot(v=3)", w.Body.String())

	w = serve(h, "localhost:4321", "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResourceRequests.WithLabelValues(RootDev, "404")))

	// Filesystem resources never go to the dev server.
	w = serve(h, "nai_res.localhost:4321", filepath.Join(base, "secret.txt"))
	assert.Equal(t, "outside", w.Body.String())
}

func TestHandlerDevProxyUnreachable(t *testing.T) {
	dev := httptest.NewServer(http.NotFoundHandler())
	url := dev.URL
	dev.Close()

	h, _, _ := newTestHandler(t)
	h.WithDevServer(httpclient.New(httpclient.Options{BaseURL: url, RetryMax: -1}, zap.NewNop()))

	w := serve(h, "localhost:4321", "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
