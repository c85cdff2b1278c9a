// Package monitoring provides Prometheus metrics for the HTTP surface,
// interactive sessions, evaluations, and WebSocket streams, plus a JSON
// snapshot for dashboards that do not scrape.
package monitoring
