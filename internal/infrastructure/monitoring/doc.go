/*
Package monitoring provides Prometheus metrics for the installer.

# Overview

Every Metrics value owns a private registry, so tests can build several
servers in one process without duplicate-registration panics.

# Features

- HTTP request metrics (latency, status)
- Resource protocol requests by root (view, filesystem, dev)
- Install attempts, outcomes, duration and in-flight count
- Runner launch outcomes
- UI bridge connections and messages
- Go runtime, process and uptime metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.InstallStarted()
	// ... run the privileged command ...
	metrics.InstallFinished("ok", time.Since(start))
*/
package monitoring
