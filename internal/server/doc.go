// Package server wires the interactive window provider, the host window
// registry, the resolved command set, and the HTTP/WebSocket surface into
// one runnable service.
package server
