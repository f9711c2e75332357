package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"manaclock/internal/app"
	"manaclock/internal/config"
	"manaclock/internal/transport/ws"
)

// Server represents the HTTP server.
type Server struct {
	server  *http.Server
	service *app.Service
	config  *config.Config
	logger  *slog.Logger
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Config, service *app.Service, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		config:  cfg,
		logger:  logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.middleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Game lifecycle
	mux.HandleFunc("POST /api/game/start", s.handleStartGame)
	mux.HandleFunc("POST /api/game/next-turn", s.handleNextTurn)
	mux.HandleFunc("POST /api/game/advance-phantom", s.handleAdvancePhantom)
	mux.HandleFunc("POST /api/game/end", s.handleEndGame)
	mux.HandleFunc("POST /api/game/reset", s.handleResetGame)
	mux.HandleFunc("POST /api/game/continue", s.handleContinueGame)
	mux.HandleFunc("POST /api/game/displayed-player", s.handleSetDisplayedPlayer)
	mux.HandleFunc("GET /api/game/state", s.handleGetState)
	mux.HandleFunc("GET /api/game/saved", s.handleSavedGame)

	// Roster and per-player intents
	mux.HandleFunc("POST /api/players", s.handleAddPlayer)
	mux.HandleFunc("PATCH /api/players/{id}", s.handleUpdatePlayer)
	mux.HandleFunc("DELETE /api/players/{id}", s.handleRemovePlayer)
	mux.HandleFunc("POST /api/players/{id}/lands", s.handleAddLand)
	mux.HandleFunc("DELETE /api/players/{id}/lands/{type}", s.handleRemoveLand)
	mux.HandleFunc("POST /api/players/{id}/lands/{landId}/toggle", s.handleToggleLand)
	mux.HandleFunc("POST /api/players/{id}/mana", s.handleAdjustMana)

	// Chess clock
	mux.HandleFunc("POST /api/clock/pause", s.handlePauseClock)
	mux.HandleFunc("POST /api/clock/resume", s.handleResumeClock)

	// Settings
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// WebSocket
	wsHandler := ws.NewHandler(s.service, s.logger)
	mux.Handle("GET /ws", wsHandler)
}

// middleware wraps the handler with logging and CORS.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
