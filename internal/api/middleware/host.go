package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// IsLoopbackHost reports whether a request Host header names this machine:
// localhost, a *.localhost subdomain or a loopback IP. The port, if any, is
// ignored.
func IsLoopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(strings.Trim(host, "[]"), "."))

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// LoopbackOnly rejects requests addressed to any other host name. A page on
// a foreign name that resolves to 127.0.0.1 would otherwise share an origin
// with the installer UI.
func LoopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsLoopbackHost(c.Request.Host) {
			c.AbortWithStatusJSON(http.StatusMisdirectedRequest, gin.H{
				"error": "unknown host",
			})
			return
		}
		c.Next()
	}
}
