package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIsLoopbackHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"localhost:8080", true},
		{"LOCALHOST:8080", true},
		{"nai_res.localhost:8080", true},
		{"127.0.0.1:8080", true},
		{"127.0.0.1", true},
		{"[::1]:8080", true},
		{"nai_res.attacker.example:8080", false},
		{"attacker.example", false},
		{"localhost.attacker.example", false},
		{"192.168.1.10:8080", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLoopbackHost(tt.host))
		})
	}
}

func TestLoopbackOnly(t *testing.T) {
	router := setupTestRouter()
	router.Use(LoopbackOnly())
	router.GET("/etc/hostname", func(c *gin.Context) {
		c.String(http.StatusOK, "served")
	})

	tests := []struct {
		name       string
		host       string
		wantStatus int
	}{
		{name: "ui host", host: "localhost:8080", wantStatus: http.StatusOK},
		{name: "resource host", host: "nai_res.localhost:8080", wantStatus: http.StatusOK},
		{name: "loopback ip", host: "127.0.0.1:8080", wantStatus: http.StatusOK},
		{name: "rebound resource host", host: "nai_res.attacker.example:8080", wantStatus: http.StatusMisdirectedRequest},
		{name: "foreign host", host: "attacker.example", wantStatus: http.StatusMisdirectedRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/etc/hostname", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.NotContains(t, w.Body.String(), "served")
			}
		})
	}
}
