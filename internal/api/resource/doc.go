// Package resource implements the local resource protocol.
//
// The installer UI is served from http://localhost:<port>/ and reads its
// assets from the installer_view directory. Any host containing the marker
// "nai_res" (for example http://nai_res.localhost:<port>/home/me/icon.png)
// addresses the filesystem root instead, which is how the UI loads the
// application icon. The entry document gets two scripts prepended to its
// head: one defining window.nai and the IPC bridge connecting
// window.ipc.postMessage and window.setStatus to the /ipc websocket.
//
// Any failure is answered with a plain-text 500 carrying the error text.
package resource
