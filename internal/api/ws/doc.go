// Package ws implements the UI bridge: a websocket at /ipc carrying inbound
// "<action>;<json>" messages from the UI and "<tag>;<text>" status updates
// back to it.
//
// Each connection runs one UI loop. Every iteration first polls the status
// channel; a pending status is written and the iteration ends. Otherwise the
// loop handles one inbound message, or waits for either. At most one status
// is delivered per iteration and none is dropped.
//
// Only one UI is served at a time. A new connection (for example after a
// page reload) takes over from the previous one, whose loop stops before
// the new one starts.
//
// Example Usage:
//
//	bridge := ws.NewHandler(router, statuses, logger)
//	engine.GET("/ipc", bridge.HandleConnection)
package ws
