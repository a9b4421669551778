// Package server hosts the optimization collaborator endpoint the wizard
// posts drafts to.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ronaldsalkes/cvmaster/internal/llm"
	"github.com/ronaldsalkes/cvmaster/internal/logging"
	"github.com/ronaldsalkes/cvmaster/internal/optimize"
	"github.com/ronaldsalkes/cvmaster/internal/server/middleware"
)

const maxRequestBytes = 1 << 20

// Config controls the server.
type Config struct {
	// Port to listen on.
	Port int
	// APIKey for the model provider. Empty selects the stub engine.
	APIKey string
	// Model override for the LLM engine.
	Model string
	// JWTSecret verifies identity-provider tokens. Empty disables auth,
	// which is only acceptable for local development.
	JWTSecret string
	// Logger receives request and error logs. Nil gets a default.
	Logger logging.Logger
}

// Server wires the optimize engine behind an HTTP mux.
type Server struct {
	cfg    Config
	engine optimize.Collaborator
	client llm.Client
	log    logging.Logger
	http   *http.Server
}

// New builds a server from the config. When an API key is present the LLM
// engine is used; otherwise requests are answered by the stub engine so the
// endpoint stays exercisable without credentials.
func New(ctx context.Context, cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.NewDefault()
	}

	s := &Server{cfg: cfg, log: log}

	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.client = client
		s.engine = optimize.NewLLMEngine(client)
	} else {
		log.Warn(ctx, "no API key configured, serving stub optimizations")
		s.engine = optimize.StubEngine{}
	}

	handler, err := s.routes(ctx)
	if err != nil {
		return nil, err
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(ctx context.Context) (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	var optimizeHandler http.Handler = http.HandlerFunc(s.handleOptimize)
	if s.cfg.JWTSecret != "" {
		verifier, err := NewTokenVerifier(s.cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		optimizeHandler = middleware.Auth(verifier)(optimizeHandler)
	} else {
		s.log.Warn(ctx, "no JWT secret configured, optimize endpoint is unauthenticated")
	}
	mux.Handle("POST /optimize", optimizeHandler)

	return s.withCORS(s.withLogging(mux)), nil
}

// Handler exposes the configured routes, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info(ctx, "server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info(ctx, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}

		if s.client != nil {
			if err := s.client.Close(); err != nil {
				s.log.Warn(ctx, "failed to close LLM client", "error", err)
			}
		}
		return nil
	})

	return g.Wait()
}

// withLogging tags each request with an ID and logs method, path and caller.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.log.Info(r.Context(), "request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
