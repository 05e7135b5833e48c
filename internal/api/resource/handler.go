package resource

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/httpclient"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

// Handler serves the resource protocol over HTTP. Requests whose host
// contains the resource marker read from the filesystem root; all others
// read UI assets, from the view directory or the development server.
type Handler struct {
	resolver *Resolver
	scripts  []string
	dev      *httpclient.Client
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a handler injecting the init and bridge scripts into
// the UI entry document.
func NewHandler(resolver *Resolver, init manifest.InitData, logger *zap.Logger) (*Handler, error) {
	initScript, err := InitScript(init)
	if err != nil {
		return nil, err
	}
	return &Handler{
		resolver: resolver,
		scripts:  []string{initScript, BridgeScript()},
		logger:   logger,
	}, nil
}

// WithDevServer proxies UI assets to a development server.
func (h *Handler) WithDevServer(client *httpclient.Client) *Handler {
	h.dev = client
	return h
}

// WithMetrics attaches metrics recording.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// Compressed returns the handler wrapped with gzip compression.
func (h *Handler) Compressed() http.Handler {
	return gzhttp.GzipHandler(h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.dev != nil && !IsResourceAuthority(r.Host) {
		h.proxy(w, r)
		return
	}

	res, err := h.resolver.Resolve(r.Host, r.URL.Path)
	if err != nil {
		root := RootView
		if IsResourceAuthority(r.Host) {
			root = RootFilesystem
		}
		h.fail(w, root, r.URL.Path, err)
		return
	}

	body := res.Body
	if res.Entry {
		if body, err = Inject(body, h.scripts...); err != nil {
			h.fail(w, res.Root, r.URL.Path, err)
			return
		}
	}

	h.logger.Debug("Serving resource",
		zap.String("root", res.Root),
		zap.String("path", res.Path),
		zap.String("content_type", res.ContentType),
	)
	h.write(w, res.Root, http.StatusOK, res.ContentType, body)
}

func (h *Handler) proxy(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "" || path == "/" {
		path = "/" + paths.EntryDocument
	}

	resp, err := h.dev.Get(r.Context(), path, r.URL.RawQuery, r.Header)
	if err != nil {
		h.fail(w, RootDev, path, err)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFor(path, resp.Body)
	}

	body := resp.Body
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(contentType, "text/html") && path == "/"+paths.EntryDocument {
		if body, err = Inject(body, h.scripts...); err != nil {
			h.fail(w, RootDev, path, err)
			return
		}
	}
	h.write(w, RootDev, resp.StatusCode, contentType, body)
}

// fail converts any resolution failure into a plain-text 500.
func (h *Handler) fail(w http.ResponseWriter, root, path string, err error) {
	h.logger.Warn("Resource request failed",
		zap.String("root", root),
		zap.String("path", path),
		zap.Error(err),
	)
	h.write(w, root, http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(err.Error()))
}

func (h *Handler) write(w http.ResponseWriter, root string, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write(body)

	if h.metrics != nil {
		h.metrics.RecordResource(root, strconv.Itoa(code))
	}
}
