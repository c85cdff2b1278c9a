// Package ws streams interactive window transcripts over WebSocket. A
// client watches a window to receive its submission and close events, and
// may submit input to the live session over the same connection.
package ws
