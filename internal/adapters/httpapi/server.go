// Package httpapi hosts the validation engine behind a local-first JSON
// API: submit extraction results, inspect the pattern catalog, record
// corrections, and download generated report artifacts.
package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/calder/vouch/internal/app"
	"github.com/calder/vouch/internal/config"
	"github.com/calder/vouch/internal/domain/patterns"
)

// Server serves the validation API over HTTP.
type Server struct {
	cfg      config.Server
	engine   *app.Engine
	feedback *patterns.FeedbackLoop
	log      zerolog.Logger
	limiter  *rate.Limiter

	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	stopOnce sync.Once
}

// NewServer wires the API around one engine. The feedback hook writes
// through the engine's catalog.
func NewServer(cfg config.Server, engine *app.Engine, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		engine:   engine,
		feedback: patterns.NewFeedbackLoop(engine.Catalog(), nil),
		log:      log,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(s.rateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Get("/health", s.handleHealth)
		r.Get("/patterns", s.handlePatterns)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/outputs/{name}", s.handleOutput)
	})
	return r
}

// Start begins listening on the configured address. The bound address
// is available from Addr once Start returns.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.RequestTimeout,
	}

	go s.httpSrv.Serve(ln)
	s.log.Info().Str("addr", s.Addr()).Msg("HTTP API listening")
	return nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.httpSrv.Shutdown(ctx)
	})
}
