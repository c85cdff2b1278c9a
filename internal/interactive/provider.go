package interactive

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/waiyiptam/roslyn/internal/logging"
	"github.com/waiyiptam/roslyn/internal/shared/id"
)

// ErrInstanceUnsupported reports an Open or Create call with a non-zero
// instance ID. Multi-instance windows are unsupported; a non-zero ID is a
// caller bug, not a runtime condition.
var ErrInstanceUnsupported = errors.New("interactive: only instance 0 is supported")

// Config carries the provider's static identity.
type Config struct {
	// WindowTypeID names the window type registered with the host.
	WindowTypeID string
	// Title is the window caption.
	Title string
	// LanguageID is the language identity bound to the window's buffers.
	LanguageID string
}

// Provider creates and owns a single interactive window session.
//
// Provider methods are safe for concurrent use. A mutex guards the session
// slot so concurrent Open calls observe one creation: the callers here are
// HTTP and WebSocket handlers, which run on arbitrary goroutines.
type Provider struct {
	cfg     Config
	factory WindowFactory
	newEval EvaluatorFactory
	log     *logging.Logger

	mu        sync.Mutex
	sessionID id.SessionID
	current   WindowHandle
}

// NewProvider constructs a provider. The evaluator factory is invoked once
// per session, inside Create.
func NewProvider(cfg Config, factory WindowFactory, newEval EvaluatorFactory, log *logging.Logger) *Provider {
	return &Provider{
		cfg:     cfg,
		factory: factory,
		newEval: newEval,
		log:     log,
	}
}

// Create builds a fresh session: evaluator, window, language binding, a
// one-shot close handler, and fire-and-forget initialization. The returned
// handle is not stored; Open is responsible for that.
func (p *Provider) Create(ctx context.Context, instanceID int) (WindowHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.create(ctx, instanceID)
}

// create does the work of Create. Caller holds p.mu.
func (p *Provider) create(ctx context.Context, instanceID int) (WindowHandle, error) {
	evaluator, err := p.newEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("create evaluator: %w", err)
	}

	win, err := p.factory.Create(p.cfg.WindowTypeID, instanceID, p.cfg.Title, evaluator, true)
	if err != nil {
		// No session exists yet, so the close handler will never run;
		// release the evaluator here instead of leaking it.
		if derr := evaluator.Dispose(); derr != nil {
			p.log.Event("evaluator_dispose_failed", zap.Error(derr))
		}
		return nil, fmt.Errorf("create window: %w", err)
	}

	win.SetLanguage(p.cfg.LanguageID, evaluator.ContentType())

	// Evaluators that stream output outside Evaluate results (console
	// writes, process output) write into the window transcript.
	if binder, ok := evaluator.(OutputBinder); ok {
		binder.BindOutput(win)
	}

	sessionID := id.NewSessionID()

	// One-shot teardown: unsubscribe before side effects so a re-entrant
	// or duplicated view-closed event finds no handler.
	var sub Subscription
	sub = win.OnViewClosed(func() error {
		sub.Unsubscribe()
		p.log.Event("interactive_session_closed",
			zap.String("session_id", sessionID.String()),
			zap.String("window_id", win.ID().String()),
			zap.Int("buffer_count", win.BufferCount()),
		)
		return evaluator.Dispose()
	})

	// Initialization is fire and forget: Open returns before it completes
	// and its failure is invisible to the caller. Detach from the request
	// context so a finished HTTP request does not cancel window setup.
	go func() {
		if err := evaluator.Initialize(context.WithoutCancel(ctx)); err != nil {
			p.log.Event("interactive_initialize_failed",
				zap.String("session_id", sessionID.String()),
				zap.String("window_id", win.ID().String()),
				zap.Error(err),
			)
		}
	}()

	p.sessionID = sessionID
	p.log.Event("interactive_session_created",
		zap.String("session_id", sessionID.String()),
		zap.String("window_id", win.ID().String()),
		zap.String("language", p.cfg.LanguageID),
		zap.Int("instance_id", instanceID),
	)

	return win, nil
}

// Open returns the provider's window, creating the session on first call.
// Repeated calls never create a second session; they re-show the existing
// window, optionally taking focus. The boolean reports whether this call
// created the session.
func (p *Provider) Open(ctx context.Context, instanceID int, focus bool) (WindowHandle, bool, error) {
	if instanceID != 0 {
		return nil, false, fmt.Errorf("%w: got %d", ErrInstanceUnsupported, instanceID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	created := false
	if p.current == nil {
		win, err := p.create(ctx, instanceID)
		if err != nil {
			// Leave the session absent so a later Open may retry.
			return nil, false, err
		}
		p.current = win
		created = true
	}

	p.current.Show(focus)
	return p.current, created, nil
}

// Current returns the live window handle, or nil when no session exists.
func (p *Provider) Current() WindowHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SessionID returns the identifier of the current session, empty when no
// session has been created.
func (p *Provider) SessionID() id.SessionID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}
