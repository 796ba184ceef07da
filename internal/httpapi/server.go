package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/clipfile/clipper/internal/jobs"
	"github.com/clipfile/clipper/internal/storage"
)

type Server struct {
	queue  *jobs.Queue
	layout *storage.Layout

	corsOrigins []string

	router *chi.Mux
	server *http.Server
}

type Option func(*Server)

// WithCORSOrigins restricts browser access to the given origins. The
// default allows any origin.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

func NewServer(queue *jobs.Queue, layout *storage.Layout, opts ...Option) *Server {
	s := &Server{
		queue:       queue,
		layout:      layout,
		corsOrigins: []string{"*"},
		router:      chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.RealIP)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	s.router.Get("/", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/progress/{id}", s.handleProgress)
		r.Get("/download/{id}", s.handleDownload)
		r.Get("/jobs", s.handleJobs)
	})
}
