package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/triska-dev/person-registry/internal/auth"
	"github.com/triska-dev/person-registry/internal/infrastructure/cache"
	"github.com/triska-dev/person-registry/internal/infrastructure/config"
	"github.com/triska-dev/person-registry/internal/infrastructure/database"
	"github.com/triska-dev/person-registry/internal/infrastructure/logging"
	"github.com/triska-dev/person-registry/internal/person"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Security    config.SecurityConfig
	Logger      *logging.Logger
	Queries     *person.QueryService
	Commands    *person.CommandService
	AccountRepo auth.AccountRepository
	DB          *database.DB  // optional: exposes pool stats on /metrics
	Cache       *cache.Client // optional: exposes cache status on /metrics
	Version     string
}

// Server is the HTTP API server for the person registry.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	secCfg      config.SecurityConfig
	logger      *logging.Logger
	queries     *person.QueryService
	commands    *person.CommandService
	accountRepo auth.AccountRepository
	db          *database.DB
	cache       *cache.Client
	version     string
	startTime   time.Time
	server      *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Queries == nil {
		return nil, fmt.Errorf("person query service is required")
	}
	if deps.Commands == nil {
		return nil, fmt.Errorf("person command service is required")
	}
	if deps.AccountRepo == nil {
		return nil, fmt.Errorf("account repository is required")
	}

	return &Server{
		cfg:         deps.Config,
		secCfg:      deps.Security,
		logger:      deps.Logger,
		queries:     deps.Queries,
		commands:    deps.Commands,
		accountRepo: deps.AccountRepo,
		db:          deps.DB,
		cache:       deps.Cache,
		version:     deps.Version,
		startTime:   time.Now(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
