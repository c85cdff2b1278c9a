package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waiyiptam/roslyn/internal/command"
	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/monitoring"
	"github.com/waiyiptam/roslyn/internal/window"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	provider *interactive.Provider
	registry *window.Registry
	commands []command.Descriptor
	metrics  *monitoring.Metrics
	language string
}

// NewHandlers creates a new handler set. The command list must already be
// resolved; metrics may be nil in tests.
func NewHandlers(
	provider *interactive.Provider,
	registry *window.Registry,
	commands []command.Descriptor,
	metrics *monitoring.Metrics,
	language string,
) *Handlers {
	return &Handlers{
		provider: provider,
		registry: registry,
		commands: commands,
		metrics:  metrics,
		language: language,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Interactive Window Service",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"windows":      h.registry.Stats(),
		"session_open": h.provider.Current() != nil,
		"language":     h.language,
	})
}

// OpenWindow opens the interactive window, creating the session on first
// call. Repeated calls re-show the existing window.
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req struct {
		InstanceID int  `json:"instance_id"`
		Focus      bool `json:"focus"`
	}
	// The body is optional; defaults open instance 0 without focus.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	win, created, err := h.provider.Open(c.Request.Context(), req.InstanceID, req.Focus)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, interactive.ErrInstanceUnsupported) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if created && h.metrics != nil {
		h.metrics.RecordSessionOpened()
		h.metrics.SetWindowsActive(h.registry.Stats().TotalWindows)
	}

	c.JSON(http.StatusOK, gin.H{
		"window_id":  win.ID().String(),
		"session_id": h.provider.SessionID().String(),
		"created":    created,
	})
}

// Submit evaluates one input submission in the live session
func (h *Handlers) Submit(c *gin.Context) {
	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := h.provider.Current()
	if current == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no open session"})
		return
	}

	win, ok := h.registry.Get(current.ID().String())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found"})
		return
	}

	var timer *monitoring.Timer
	if h.metrics != nil {
		timer = monitoring.NewTimer(h.metrics, h.language)
	}

	output, err := win.Submit(c.Request.Context(), req.Input)
	if err != nil {
		if timer != nil {
			timer.Stop("error")
		}
		if errors.Is(err, window.ErrClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		// Evaluation errors are part of the transcript, not transport
		// failures.
		c.JSON(http.StatusOK, gin.H{
			"output": "",
			"error":  err.Error(),
		})
		return
	}
	if timer != nil {
		timer.Stop("success")
	}

	c.JSON(http.StatusOK, gin.H{
		"output":       output,
		"buffer_count": win.BufferCount(),
	})
}

// commandView is the wire representation of a resolved command
type commandView struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Kind        string   `json:"kind"`
	Description string   `json:"description,omitempty"`
}

// ListCommands lists the resolved command set in resolution order
func (h *Handlers) ListCommands(c *gin.Context) {
	views := make([]commandView, 0, len(h.commands))
	for _, d := range h.commands {
		v := commandView{
			Name:        d.Name(),
			Kind:        string(d.Kind),
			Description: d.Description,
		}
		if len(d.Names) > 1 {
			v.Aliases = d.Names[1:]
		}
		views = append(views, v)
	}

	c.JSON(http.StatusOK, gin.H{
		"commands": views,
		"count":    len(views),
	})
}

// InvokeCommand invokes a resolved command by display name
func (h *Handlers) InvokeCommand(c *gin.Context) {
	name := c.Param("name")

	var req struct {
		Args string `json:"args"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	d, ok := command.Lookup(h.commands, name)
	if !ok {
		if h.metrics != nil {
			h.metrics.RecordCommand(name, "unknown")
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown command: " + name})
		return
	}

	output, err := d.Handler(c.Request.Context(), req.Args)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordCommand(d.Name(), "error")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCommand(d.Name(), "success")
	}
	c.JSON(http.StatusOK, gin.H{
		"command": d.Name(),
		"output":  output,
	})
}

// ListWindows lists all registered windows
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"windows": h.registry.List(),
		"stats":   h.registry.Stats(),
	})
}

// GetTranscript returns the buffered transcript text of a window
func (h *Handlers) GetTranscript(c *gin.Context) {
	windowID := c.Param("id")

	win, ok := h.registry.Get(windowID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_id":    windowID,
		"transcript":   string(win.Transcript()),
		"buffer_count": win.BufferCount(),
	})
}

// CloseWindow fires the window's view-closed event and removes it
func (h *Handlers) CloseWindow(c *gin.Context) {
	windowID := c.Param("id")

	if err := h.registry.CloseWindow(windowID); err != nil {
		if errors.Is(err, window.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		// The window is gone; teardown errors are reported, not retried.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSessionClosed()
		h.metrics.SetWindowsActive(h.registry.Stats().TotalWindows)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": windowID,
	})
}

// MetricsSnapshot returns current metric values as JSON
func (h *Handlers) MetricsSnapshot(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.GetSnapshot())
}
