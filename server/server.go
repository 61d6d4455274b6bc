package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Gaelhpalmer/diarized-stt/logger"
)

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string
	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration
	// IdleTimeout bounds idle keep-alive connections.
	IdleTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:8080"
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
}

// Server is an HTTP server backed by Gin.
type Server struct {
	httpServer   *http.Server
	engine       *gin.Engine
	log          *logger.Logger
	resolvedAddr string
}

// New creates a Server with a recovery-only middleware stack. Routes are
// registered on GinEngine before Start.
func New(cfg Config, log *logger.Logger) *Server {
	cfg.applyDefaults()

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		engine: engine,
		log:    log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Addr returns the actual listen address once Start has bound the
// listener, or the configured address before that. The two differ when
// the configuration asked for port 0.
func (s *Server) Addr() string {
	if s.resolvedAddr != "" {
		return s.resolvedAddr
	}
	return s.httpServer.Addr
}

// Start binds the port and begins serving. It returns once the listener
// is bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.httpServer.Addr, err)
	}
	s.resolvedAddr = listener.Addr().String()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("http server started", logger.Fields("addr", s.httpServer.Addr))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}
