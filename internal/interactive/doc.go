// Package interactive implements the REPL tool window provider.
//
// A Provider owns at most one live session: one hosted window bound to one
// evaluator. Open lazily creates the session on first call and afterwards
// only re-shows the existing window. Teardown is driven by the window's
// view-closed event through a one-shot handler that unsubscribes itself
// before running side effects, so a re-fired event can never dispose the
// evaluator twice.
//
// The host window system and the evaluator are collaborators behind the
// WindowFactory, WindowHandle and Evaluator contracts; package window and
// package repl supply the production implementations.
package interactive
