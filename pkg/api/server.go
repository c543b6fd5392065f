package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwfinch/contrast/internal/ntuple"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host           string        // Host to bind to (default "localhost")
	Port           int           // Port to listen on (default 8080)
	ReadTimeout    time.Duration // Read timeout (default 30s)
	WriteTimeout   time.Duration // Write timeout (default 30s)
	IdleTimeout    time.Duration // Idle timeout (default 60s)
	MaxFastWorkers int           // Max concurrent fast operations (default 100)
	MaxSlowWorkers int           // Max concurrent slow operations (default 4)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	registry *Registry
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
}

// NewServer creates a new API server hosting a fresh game Registry.
// net may be nil; if so "mcts" ai_move requests fall back to a
// freshly initialized (untrained) evaluator.
func NewServer(net *ntuple.Network, config ServerConfig, version string) *Server {
	poolConfig := PoolConfig{
		MaxFastWorkers: config.MaxFastWorkers,
		MaxSlowWorkers: config.MaxSlowWorkers,
	}
	if poolConfig.MaxFastWorkers <= 0 {
		poolConfig.MaxFastWorkers = 100
	}
	if poolConfig.MaxSlowWorkers <= 0 {
		poolConfig.MaxSlowWorkers = 4
	}

	pool := NewWorkerPool(poolConfig)
	registry := NewRegistry()
	handlers := NewHandlersWithPool(registry, version, pool).WithNetwork(net)

	return &Server{
		config:   config,
		registry: registry,
		handlers: handlers,
		pool:     pool,
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("GET /api/pool", s.handlers.PoolStatsHandler)

	mux.HandleFunc("POST /api/game/new", s.handlers.NewGame)
	mux.HandleFunc("GET /api/game/{id}", s.handlers.GetGame)
	mux.HandleFunc("GET /api/game/{id}/moves", s.handlers.LegalMoves)
	mux.HandleFunc("POST /api/game/{id}/move", s.handlers.Move)
	mux.HandleFunc("POST /api/game/{id}/ai_move", s.handlers.AIMove)
	mux.HandleFunc("GET /api/game/{id}/ai_move/stream", s.handlers.AIMoveSSE)
	mux.HandleFunc("POST /api/game/{id}/reset", s.handlers.Reset)
	mux.HandleFunc("GET /api/game/{id}/board_text", s.handlers.BoardText)
	mux.HandleFunc("GET /api/game/{id}/board_array", s.handlers.BoardArray)

	mux.HandleFunc("/api/ws", s.handlers.WebSocket)

	// Apply middleware
	handler := corsMiddleware(loggingMiddleware(mux))

	return handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Printf("Starting contrast API server v%s on %s", s.version, addr)
	log.Printf("Endpoints:")
	log.Printf("  GET  /api/health                  - Health check")
	log.Printf("  GET  /api/pool                     - Worker pool stats")
	log.Printf("  POST /api/game/new                 - Start a game")
	log.Printf("  GET  /api/game/{id}                - Game snapshot")
	log.Printf("  GET  /api/game/{id}/moves          - Legal moves")
	log.Printf("  POST /api/game/{id}/move           - Apply a move")
	log.Printf("  POST /api/game/{id}/ai_move        - Let the AI move")
	log.Printf("  GET  /api/game/{id}/ai_move/stream - AI move with SSE search progress")
	log.Printf("  POST /api/game/{id}/reset          - Reset to the initial position")
	log.Printf("  GET  /api/game/{id}/board_text     - ASCII board")
	log.Printf("  GET  /api/game/{id}/board_array    - Encoded board array")
	log.Printf("  WS   /api/ws?game={id}             - STATE stream")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	// Channel to listen for errors from server
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
