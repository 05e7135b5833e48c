// Package middleware provides the HTTP middleware for the installer server.
//
//   - CORS: admits the UI development server origin in dev mode
//   - RateLimit: token bucket limit for the /api group
//   - Logger: request logging via zap
//
// Example Usage:
//
//	router.Use(middleware.Logger(logger))
//	api := router.Group("/api", middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
