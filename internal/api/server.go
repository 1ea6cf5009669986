// Package api exposes the screening pipeline over HTTP: job submission,
// resume upload, analysis runs, the ranked view, and a stateless
// skill-extraction relay.
package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/screenrank/screenrank/internal/analyzer"
	"github.com/screenrank/screenrank/internal/screening"
	"github.com/screenrank/screenrank/internal/source/gemini"
)

// Server holds the handlers' shared state for one screening session.
type Server struct {
	pool   *screening.Pool
	runner *analyzer.Runner
	relay  *gemini.Source // nil when no external service is configured
	logger *zap.Logger
}

func NewServer(pool *screening.Pool, runner *analyzer.Runner, relay *gemini.Source, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{pool: pool, runner: runner, relay: relay, logger: logger}
}

// Router wires up all endpoints.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/job", s.handleSubmitJob)
	mux.HandleFunc("GET /api/job", s.handleGetJob)
	mux.HandleFunc("POST /api/candidates", s.handleUpload)
	mux.HandleFunc("GET /api/candidates", s.handleListCandidates)
	mux.HandleFunc("DELETE /api/candidates/{id}", s.handleRemoveCandidate)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/ranking", s.handleRanking)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/extract", s.handleExtract)

	return mux
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // analysis runs block on model calls
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("server shutdown", zap.Error(err))
		return err
	}
	return nil
}
