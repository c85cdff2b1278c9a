package window

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/shared/id"
)

// ErrClosed reports an operation on a window whose view has already closed.
var ErrClosed = errors.New("window: view already closed")

const transcriptCapacity = 256 * 1024

// Event is a transcript notification fanned out to listeners.
type Event struct {
	Type      string `json:"type"` // "submission", "output" or "closed"
	WindowID  string `json:"window_id"`
	Input     string `json:"input,omitempty"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Window is one hosted tool window. It implements interactive.WindowHandle.
type Window struct {
	id         id.WindowID
	typeID     string
	instanceID int
	title      string
	evaluator  interactive.Evaluator
	createdAt  time.Time
	onFocus    func(id.WindowID)

	mu          sync.RWMutex
	languageID  string
	contentType string
	visible     bool
	closed      bool
	buffers     int
	transcript  *Buffer

	subs    map[int64]func() error
	nextSub int64

	listeners    map[int64]chan Event
	nextListener int64
}

func newWindow(typeID string, instanceID int, title string, evaluator interactive.Evaluator, onFocus func(id.WindowID)) *Window {
	return &Window{
		id:         id.NewWindowID(),
		typeID:     typeID,
		instanceID: instanceID,
		title:      title,
		evaluator:  evaluator,
		createdAt:  time.Now(),
		onFocus:    onFocus,
		buffers:    1, // the initial prompt buffer
		transcript: NewBuffer(transcriptCapacity),
		subs:       make(map[int64]func() error),
		listeners:  make(map[int64]chan Event),
	}
}

// ID returns the window identifier.
func (w *Window) ID() id.WindowID { return w.id }

// Title returns the window caption.
func (w *Window) Title() string { return w.title }

// TypeID returns the registered window type.
func (w *Window) TypeID() string { return w.typeID }

// SetLanguage associates editor services with the window's buffers.
func (w *Window) SetLanguage(languageID, contentType string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.languageID = languageID
	w.contentType = contentType
}

// Language returns the bound language and content type.
func (w *Window) Language() (string, string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.languageID, w.contentType
}

// Show makes the window visible, optionally stealing input focus.
func (w *Window) Show(focus bool) {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()

	if focus && w.onFocus != nil {
		w.onFocus(w.id)
	}
}

// Visible reports whether Show has been called.
func (w *Window) Visible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// BufferCount reports the number of live transcript buffers. Each
// submission contributes one buffer beyond the initial prompt buffer.
func (w *Window) BufferCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.buffers
}

// OnViewClosed registers a handler for the view-closed event. The returned
// subscription can be removed before the event fires; handlers registered
// when Close runs are invoked exactly once.
func (w *Window) OnViewClosed(fn func() error) interactive.Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	token := w.nextSub
	w.nextSub++
	w.subs[token] = fn
	return &subscription{w: w, token: token}
}

type subscription struct {
	w     *Window
	token int64
}

func (s *subscription) Unsubscribe() {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	delete(s.w.subs, s.token)
}

// Submit evaluates one input submission in the window's evaluator, appends
// it to the transcript and notifies listeners.
func (w *Window) Submit(ctx context.Context, input string) (string, error) {
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()
	if closed {
		return "", ErrClosed
	}

	output, err := w.evaluator.Evaluate(ctx, input)

	w.mu.Lock()
	w.buffers++
	fmt.Fprintf(w.transcript, "> %s\n", input)
	if err != nil {
		fmt.Fprintf(w.transcript, "error: %v\n", err)
	} else if output != "" {
		fmt.Fprintf(w.transcript, "%s\n", output)
	}
	w.mu.Unlock()

	event := Event{
		Type:      "submission",
		WindowID:  w.id.String(),
		Input:     input,
		Output:    output,
		Timestamp: time.Now().Unix(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	w.notify(event)

	return output, err
}

// Write appends raw evaluator output to the transcript and notifies
// listeners. Evaluators that stream output outside Evaluate results (console
// writes, process output) hold this as their sink.
func (w *Window) Write(p []byte) (int, error) {
	w.mu.Lock()
	n, err := w.transcript.Write(p)
	w.mu.Unlock()
	if err != nil {
		return n, err
	}

	w.notify(Event{
		Type:      "output",
		WindowID:  w.id.String(),
		Output:    string(p),
		Timestamp: time.Now().Unix(),
	})
	return n, nil
}

// Transcript returns a copy of the buffered transcript text.
func (w *Window) Transcript() []byte {
	return w.transcript.Snapshot()
}

// Listen attaches a transcript listener. The returned function detaches it.
// Events are dropped rather than blocking when the listener falls behind.
func (w *Window) Listen(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	w.mu.Lock()
	token := w.nextListener
	w.nextListener++
	w.listeners[token] = ch
	w.mu.Unlock()

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners, token)
	}
}

func (w *Window) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, ch := range w.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close fires the view-closed event. The event fires exactly once per
// window lifetime: a second Close returns ErrClosed without invoking any
// handler. Handler errors are joined and returned to the closer.
func (w *Window) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	handlers := make([]func() error, 0, len(w.subs))
	for _, fn := range w.subs {
		handlers = append(handlers, fn)
	}
	w.mu.Unlock()

	var errs []error
	for _, fn := range handlers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}

	w.notify(Event{
		Type:      "closed",
		WindowID:  w.id.String(),
		Timestamp: time.Now().Unix(),
	})

	return errors.Join(errs...)
}

// Closed reports whether the view-closed event has fired.
func (w *Window) Closed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}

// Info is the public representation of a window.
type Info struct {
	ID          string    `json:"id"`
	TypeID      string    `json:"type_id"`
	InstanceID  int       `json:"instance_id"`
	Title       string    `json:"title"`
	LanguageID  string    `json:"language_id"`
	ContentType string    `json:"content_type"`
	Visible     bool      `json:"visible"`
	Closed      bool      `json:"closed"`
	BufferCount int       `json:"buffer_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Info snapshots the window state.
func (w *Window) Info() Info {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Info{
		ID:          w.id.String(),
		TypeID:      w.typeID,
		InstanceID:  w.instanceID,
		Title:       w.title,
		LanguageID:  w.languageID,
		ContentType: w.contentType,
		Visible:     w.visible,
		Closed:      w.closed,
		BufferCount: w.buffers,
		CreatedAt:   w.createdAt,
	}
}
