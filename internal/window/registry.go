package window

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/logging"
	"github.com/waiyiptam/roslyn/internal/shared/id"
)

// ErrNotFound reports a lookup for an unknown window ID.
var ErrNotFound = errors.New("window: not found")

// ErrHiddenByLayout reports a non-forced creation of a window type the
// persisted layout marks hidden.
var ErrHiddenByLayout = errors.New("window: type hidden by persisted layout")

// Registry is the host window system. It implements
// interactive.WindowFactory.
type Registry struct {
	windows sync.Map // map[string]*Window

	mu        sync.RWMutex
	focusedID *id.WindowID
	hidden    map[string]bool

	log *logging.Logger
}

// NewRegistry creates an empty window registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		hidden: make(map[string]bool),
		log:    log,
	}
}

// SetHidden records the persisted-layout visibility for a window type.
// Create honors it unless forceCreate is set.
func (r *Registry) SetHidden(typeID string, hidden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden[typeID] = hidden
}

// Create materializes a new window bound to the given evaluator.
func (r *Registry) Create(windowTypeID string, instanceID int, title string, evaluator interactive.Evaluator, forceCreate bool) (interactive.WindowHandle, error) {
	r.mu.RLock()
	hidden := r.hidden[windowTypeID]
	r.mu.RUnlock()
	if hidden && !forceCreate {
		return nil, fmt.Errorf("%w: %s", ErrHiddenByLayout, windowTypeID)
	}

	w := newWindow(windowTypeID, instanceID, title, evaluator, r.setFocused)
	r.windows.Store(w.ID().String(), w)

	r.log.Event("window_created",
		zap.String("window_id", w.ID().String()),
		zap.String("type_id", windowTypeID),
		zap.Int("instance_id", instanceID),
	)

	return w, nil
}

// Get retrieves a window by ID.
func (r *Registry) Get(windowID string) (*Window, bool) {
	val, ok := r.windows.Load(windowID)
	if !ok {
		return nil, false
	}
	return val.(*Window), true
}

// List returns all registered windows.
func (r *Registry) List() []Info {
	var infos []Info
	r.windows.Range(func(_, value interface{}) bool {
		infos = append(infos, value.(*Window).Info())
		return true
	})
	return infos
}

// CloseWindow fires the window's view-closed event and removes it from the
// registry. Handler errors propagate to the caller.
func (r *Registry) CloseWindow(windowID string) error {
	w, ok := r.Get(windowID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, windowID)
	}

	err := w.Close()
	r.windows.Delete(windowID)

	r.mu.Lock()
	if r.focusedID != nil && r.focusedID.String() == windowID {
		r.focusedID = nil
	}
	r.mu.Unlock()

	r.log.Event("window_closed",
		zap.String("window_id", windowID),
		zap.Int("buffer_count", w.BufferCount()),
	)

	return err
}

// Focused returns the ID of the focused window, if any.
func (r *Registry) Focused() (id.WindowID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.focusedID == nil {
		return "", false
	}
	return *r.focusedID, true
}

func (r *Registry) setFocused(windowID id.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focusedID = &windowID
}

// Stats contains window registry statistics.
type Stats struct {
	TotalWindows   int     `json:"total_windows"`
	VisibleWindows int     `json:"visible_windows"`
	FocusedWindow  *string `json:"focused_window,omitempty"`
}

// Stats returns registry statistics.
func (r *Registry) Stats() Stats {
	var total, visible int
	r.windows.Range(func(_, value interface{}) bool {
		total++
		if value.(*Window).Visible() {
			visible++
		}
		return true
	})

	stats := Stats{TotalWindows: total, VisibleWindows: visible}
	r.mu.RLock()
	if r.focusedID != nil {
		s := r.focusedID.String()
		stats.FocusedWindow = &s
	}
	r.mu.RUnlock()
	return stats
}
