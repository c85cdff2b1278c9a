package interactive

import (
	"context"
	"io"

	"github.com/waiyiptam/roslyn/internal/shared/id"
)

// Evaluator is the execution engine behind an interactive window. It owns
// its resources; the session's close handler is the only caller of Dispose.
type Evaluator interface {
	// Initialize performs content setup (preludes, process spawn). The
	// provider runs it on its own goroutine; callers of Open never wait
	// for it.
	Initialize(ctx context.Context) error

	// Evaluate executes one submission and returns its printed result.
	Evaluate(ctx context.Context, input string) (string, error)

	// ContentType reports the buffer content classification bound to the
	// window at creation.
	ContentType() string

	// Dispose releases all resources. Called at most once per session.
	Dispose() error
}

// OutputBinder is implemented by evaluators that emit output outside the
// Evaluate return value (console writes, process output). The provider
// binds the window's transcript as the sink once the window exists.
type OutputBinder interface {
	BindOutput(w io.Writer)
}

// Subscription is a removable registration on a window event.
type Subscription interface {
	Unsubscribe()
}

// WindowHandle is the session's borrowed reference to a hosted window.
// The host window system owns the window; the handle is sufficient to
// show, classify and observe it. Write appends raw evaluator output to the
// window's transcript.
type WindowHandle interface {
	io.Writer

	ID() id.WindowID

	// SetLanguage associates editor services with the window's buffers.
	SetLanguage(languageID, contentType string)

	// Show makes the window visible, optionally stealing input focus.
	Show(focus bool)

	// OnViewClosed registers a handler for the view-closed event. The
	// event fires exactly once per window lifetime; handlers may return
	// an error, which propagates to whoever closed the window.
	OnViewClosed(fn func() error) Subscription

	// BufferCount reports the number of live transcript buffers.
	BufferCount() int
}

// WindowFactory materializes host windows.
type WindowFactory interface {
	// Create returns a window already bound to the given evaluator.
	// forceCreate means create even if persisted layout marks the window
	// type hidden.
	Create(windowTypeID string, instanceID int, title string, evaluator Evaluator, forceCreate bool) (WindowHandle, error)
}

// EvaluatorFactory builds a fresh evaluator for a new session.
type EvaluatorFactory func(ctx context.Context) (Evaluator, error)
