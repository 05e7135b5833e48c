// Package http provides the installer's JSON endpoints.
//
// Endpoints:
//   - GET /health: liveness and whether an install is running
//   - GET /api/installer: window.nai values, app identity and payload summary
package http
