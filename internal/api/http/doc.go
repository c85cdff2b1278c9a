// Package http exposes the REST surface: opening the interactive window,
// submitting input, listing and invoking resolved commands, window
// inspection and teardown, health and metrics.
package http
