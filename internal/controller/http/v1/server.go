package v1

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kurochkinivan/cdr_converter/internal/config"
)

type Server struct {
	httpServer *http.Server
}

func NewRouter(runsRepo RunsRepository) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := NewRunsHandler(runsRepo)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", h.GetRuns)
		r.Get("/runs/{run_id}", h.GetRun)
		r.Get("/runs/{run_id}/records", h.GetRecords)
	})

	return r
}

func NewServer(cfg config.HTTP, runsRepo RunsRepository) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      NewRouter(runsRepo),
		},
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
