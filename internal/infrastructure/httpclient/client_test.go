package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/resilience"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.html":
			assert.Equal(t, "text/html", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/"}, zap.NewNop())

	resp, err := c.Get(context.Background(), "/index.html", "", http.Header{"Accept": {"text/html"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<html></html>", string(resp.Body))

	resp, err = c.Get(context.Background(), "missing.js", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}

func TestClientForwardsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL}, zap.NewNop())

	resp, err := c.Get(context.Background(), "/_next/static/chunk.js", "v=3", nil)
	require.NoError(t, err)
	assert.Equal(t, "/_next/static/chunk.js?v=3", string(resp.Body))
}

func TestClientServerErrorsOpenBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RetryMax: -1}, zap.NewNop())

	for i := 0; i < 3; i++ {
		resp, err := c.Get(context.Background(), "/app.js", "", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}
	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	before := hits.Load()
	_, err := c.Get(context.Background(), "/app.js", "", nil)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, before, hits.Load())
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, RetryMax: -1}, zap.NewNop())
	_, err := c.Get(context.Background(), "/", "", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestClientCanceledContext(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", RPS: 1}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/", "", nil)
	require.Error(t, err)
}
