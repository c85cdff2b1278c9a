// Package repl provides the evaluator implementations behind interactive
// windows.
//
// JS wraps a sandboxed goja runtime: dangerous globals are removed, console
// output is captured into the window transcript, and long-running scripts
// are interrupted on timeout or context cancellation. Shell wraps a PTY
// process for languages hosted by an external shell. Both satisfy
// interactive.Evaluator; Factory selects one by language identity.
package repl
