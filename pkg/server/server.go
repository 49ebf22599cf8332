package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/cypherview/pkg/buildinfo"
	"github.com/matzehuels/cypherview/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	DefaultTimeout      = 2 * time.Minute
	shutdownTimeout     = 10 * time.Second
)

// Config configures the HTTP API.
type Config struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 32 MiB.
	MaxBodyBytes int64

	// Timeout bounds each API request. Defaults to two minutes.
	Timeout time.Duration

	// Fetcher serves POST /api/v1/fetch. Nil disables the route.
	Fetcher pipeline.Fetcher

	// Database is reported to fetch hooks and keys the fetch cache.
	Database string

	// Query is run by POST /api/v1/fetch when the request names none.
	Query string
}

// Server is the HTTP front end of a [pipeline.Runner].
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(requestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.cfg.Timeout))
		r.Post("/concentrate", s.concentrate)
		r.Post("/groups", s.groups)
		if s.cfg.Fetcher != nil {
			r.Post("/fetch", s.fetch)
		}
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	return router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
