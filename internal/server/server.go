package server

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/waiyiptam/roslyn/internal/api/http"
	"github.com/waiyiptam/roslyn/internal/api/middleware"
	"github.com/waiyiptam/roslyn/internal/config"
	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/logging"
	"github.com/waiyiptam/roslyn/internal/monitoring"
	"github.com/waiyiptam/roslyn/internal/refactor"
	"github.com/waiyiptam/roslyn/internal/repl"
	"github.com/waiyiptam/roslyn/internal/window"
	"github.com/waiyiptam/roslyn/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	log      *logging.Logger
	registry *window.Registry
	provider *interactive.Provider
	metrics  *monitoring.Metrics
	httpSrv  *nethttp.Server
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, log *logging.Logger) (*Server, error) {
	registry := window.NewRegistry(log)
	metrics := monitoring.NewMetrics()

	evalFactory, err := repl.Factory(repl.Options{
		Language: cfg.Interactive.Language,
		Timeout:  cfg.Interactive.EvalTimeout,
		Shell:    cfg.Interactive.Shell,
	})
	if err != nil {
		return nil, fmt.Errorf("configure evaluator: %w", err)
	}

	provider := interactive.NewProvider(
		interactive.Config{
			WindowTypeID: "interactive",
			Title:        cfg.Interactive.Title,
			LanguageID:   cfg.Interactive.Language,
		},
		registry,
		evalFactory,
		log,
	)

	var commands commandSet
	if err := commands.build(provider, registry, cfg.Interactive.Language, cfg.Interactive.ManifestPath); err != nil {
		return nil, fmt.Errorf("build command set: %w", err)
	}
	log.Event("commands_resolved", zap.Int("count", len(commands.resolved)))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := http.NewHandlers(provider, registry, commands.resolved, metrics, cfg.Interactive.Language)
	wsHandler := ws.NewHandler(provider, registry, metrics, log)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Interactive session
	router.POST("/interactive/open", handlers.OpenWindow)
	router.POST("/interactive/submit", handlers.Submit)
	router.GET("/interactive/commands", handlers.ListCommands)
	router.POST("/interactive/commands/:name", handlers.InvokeCommand)

	// Windows
	router.GET("/windows", handlers.ListWindows)
	router.GET("/windows/:id/transcript", handlers.GetTranscript)
	router.DELETE("/windows/:id", handlers.CloseWindow)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/metrics/snapshot", handlers.MetricsSnapshot)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Change-signature refactoring proxy, enabled when the external service
	// is configured.
	if cfg.Refactor.Enabled {
		client := refactor.NewClient(refactor.ClientConfig{Addr: cfg.Refactor.Address})
		router.POST("/refactor/change-signature", changeSignatureHandler(client))
		log.Event("refactor_client_enabled", zap.String("addr", cfg.Refactor.Address))
	}

	return &Server{
		router:   router,
		log:      log,
		registry: registry,
		provider: provider,
		metrics:  metrics,
	}, nil
}

func changeSignatureHandler(client *refactor.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refactor.ChangeSignatureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := client.ChangeSignature(c.Request.Context(), &req)
		if err != nil {
			c.JSON(nethttp.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(nethttp.StatusOK, result)
	}
}

// Run starts the server and blocks until it stops
func (s *Server) Run(addr string) error {
	s.log.Event("server_starting", zap.String("addr", addr))
	s.httpSrv = &nethttp.Server{
		Addr:    addr,
		Handler: s.router,
	}
	err := s.httpSrv.ListenAndServe()
	if err == nethttp.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the live window, if any.
func (s *Server) Shutdown(ctx context.Context) error {
	if current := s.provider.Current(); current != nil {
		if err := s.registry.CloseWindow(current.ID().String()); err != nil {
			s.log.Event("session_close_failed", zap.Error(err))
		}
	}
	s.metrics.Stop()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
