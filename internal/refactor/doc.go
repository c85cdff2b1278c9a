// Package refactor is a thin client for the external change-signature
// refactoring service, plus a harness for exercising it against in-memory
// documents in tests. The service computes the edits; this package only
// transports requests and applies the returned edits.
package refactor
