package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/logging"
	"github.com/waiyiptam/roslyn/internal/monitoring"
	"github.com/waiyiptam/roslyn/internal/window"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Message is an inbound client frame.
type Message struct {
	Type     string `json:"type"`
	WindowID string `json:"window_id,omitempty"`
	Input    string `json:"input,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	provider *interactive.Provider
	registry *window.Registry
	metrics  *monitoring.Metrics
	log      *logging.Logger
}

// NewHandler creates a new WebSocket handler. Metrics may be nil.
func NewHandler(provider *interactive.Provider, registry *window.Registry, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{
		provider: provider,
		registry: registry,
		metrics:  metrics,
		log:      log,
	}
}

// conn wraps a websocket connection with a write lock; gorilla connections
// do not allow concurrent writers.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Event("ws_upgrade_failed", zap.Error(err))
		return
	}
	wc := &conn{ws: raw}
	defer raw.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	wc.send(map[string]interface{}{
		"type":    "system",
		"message": "Connected to Interactive Window Service",
	})

	// One active watch per connection; replaced when the client watches a
	// different window.
	var detach func()
	defer func() {
		if detach != nil {
			detach()
		}
	}()

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendError(wc, "malformed message")
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "watch":
			if detach != nil {
				detach()
				detach = nil
			}
			detach = h.watch(wc, msg.WindowID)
		case "submit":
			h.handleSubmit(wc, c, msg)
		case "ping":
			wc.send(map[string]interface{}{"type": "pong"})
		default:
			h.sendError(wc, "unknown message type")
		}
	}
}

// watch streams a window's transcript events to the client until the window
// closes or the returned detach function runs.
func (h *Handler) watch(wc *conn, windowID string) func() {
	win, ok := h.registry.Get(windowID)
	if !ok {
		h.sendError(wc, "window not found: "+windowID)
		return nil
	}

	events, detach := win.Listen(64)

	wc.send(map[string]interface{}{
		"type":      "watching",
		"window_id": windowID,
		"timestamp": time.Now().Unix(),
	})

	go func() {
		for event := range events {
			if err := wc.send(event); err != nil {
				detach()
				return
			}
			if h.metrics != nil {
				h.metrics.RecordWSMessage("out", event.Type)
			}
			if event.Type == "closed" {
				detach()
				return
			}
		}
	}()

	return detach
}

func (h *Handler) handleSubmit(wc *conn, c *gin.Context, msg Message) {
	current := h.provider.Current()
	if current == nil {
		h.sendError(wc, "no open session")
		return
	}

	win, ok := h.registry.Get(current.ID().String())
	if !ok {
		h.sendError(wc, "window not found")
		return
	}

	output, err := win.Submit(c.Request.Context(), msg.Input)
	resp := map[string]interface{}{
		"type":      "result",
		"window_id": win.ID().String(),
		"output":    output,
		"timestamp": time.Now().Unix(),
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	wc.send(resp)
}

func (h *Handler) sendError(wc *conn, message string) {
	wc.send(map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}
