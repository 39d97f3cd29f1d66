package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/habiliai/memorymap/memory"
	"github.com/habiliai/memorymap/narrative"
	"github.com/pkg/errors"
)

// Server exposes the memory service over HTTP.
type Server struct {
	service    memory.Service
	narrator   *narrative.Generator
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer builds the HTTP server. narrator may be nil; the /synthesize
// endpoint then returns timelines without narratives.
func NewServer(logger *slog.Logger, service memory.Service, narrator *narrative.Generator) *Server {
	return &Server{
		service:  service,
		narrator: narrator,
		logger:   logger,
	}
}

// Handler builds the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.registerRoutes(router)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true),
		handlers.RecoveryLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError)),
	)

	return cors(recovery(router))
}

// Serve listens on addr until the context is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info("HTTP server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "http server failed")
	}
}
