// Package window is the in-process host window system.
//
// The Registry implements interactive.WindowFactory: it materializes tool
// windows, tracks focus across them, and honors the persisted-layout hidden
// flag unless creation is forced. Each Window owns its transcript buffers,
// exposes a view-closed event that fires exactly once per window lifetime,
// and fans submission output out to attached listeners (the WebSocket
// stream, primarily).
package window
