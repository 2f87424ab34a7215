// Package server exposes the registration and search workflows over HTTP.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employee"
	"github.com/spigell/skillmatch/internal/workflow"
)

const (
	DefaultListen   = ":8080"
	shutdownTimeout = 10 * time.Second
)

// Config controls the HTTP listener.
type Config struct {
	Listen     string
	RateLimit  int
	RateWindow time.Duration
	BodyLimit  int
}

// Registrar runs the registration workflow.
type Registrar interface {
	Register(ctx context.Context, name, description string) (*workflow.RegistrationResult, error)
}

// Searcher runs the search workflow.
type Searcher interface {
	Search(ctx context.Context, query string) (*workflow.SearchResult, error)
}

// Deps are the collaborators served over HTTP.
type Deps struct {
	Registrar Registrar
	Searcher  Searcher
	Store     employee.Store
	Logger    *zap.Logger
}

type Server struct {
	app    *fiber.App
	listen string
	logger *zap.Logger
}

func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Registrar == nil || deps.Searcher == nil || deps.Store == nil {
		return nil, errors.New("server requires registrar, searcher and store")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	listen := strings.TrimSpace(cfg.Listen)
	if listen == "" {
		listen = DefaultListen
	}

	app := fiber.New(fiber.Config{
		AppName:               "skillmatch",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	app.Use(requestLogger(deps.Logger))

	h := &handlers{
		registrar: deps.Registrar,
		searcher:  deps.Searcher,
		store:     deps.Store,
		logger:    deps.Logger,
	}
	register(app, h, RateLimiter(cfg.RateLimit, cfg.RateWindow))

	return &Server{app: app, listen: listen, logger: deps.Logger}, nil
}

// register wires all HTTP routes onto the app.
func register(app *fiber.App, h *handlers, limit fiber.Handler) {
	v1 := app.Group("/api").Group("/v1")

	v1.Get("/health", h.health)
	v1.Get("/ready", h.ready)

	v1.Get("/employees", h.listEmployees)
	v1.Post("/employees", limit, h.registerEmployee)
	v1.Post("/search", limit, h.search)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("listen", s.listen))
		errCh <- s.app.Listen(s.listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
