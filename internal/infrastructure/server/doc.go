// Package server wires the installer together and owns its lifecycle.
//
// Routes on the loopback listener:
//
//	GET /              UI entry document (with window.nai and the IPC bridge)
//	GET /ipc           UI bridge websocket
//	GET /health        liveness
//	GET /metrics       Prometheus metrics
//	GET /api/installer init values and payload summary
//	*                  UI assets, or filesystem resources on a nai_res host
//
// The server runs until its context ends or a component requests
// Shutdown(code), for example after launching the installed application.
// Stopping cancels a running install and waits for its final status.
package server
