package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/reminder"
	"github.com/mikey/eco-scheduler/internal/schedule"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes bounds request bodies when no limit is configured
const DefaultMaxUploadBytes = 10 << 20

// Deps are the services exposed over HTTP
type Deps struct {
	Engine     *core.DateInferenceEngine
	Batch      *core.BatchDateProcessor
	Classifier *core.WasteClassifier
	Resolver   core.ColumnResolver
	Scheduler  *schedule.Scheduler
	Reminders  *reminder.Service
}

// Server is the HTTP frontend
type Server struct {
	deps    Deps
	cfg     config.ServerConfig
	proxies []netip.Prefix
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a new HTTP frontend
func NewServer(deps Deps, cfg config.ServerConfig, logger *zap.Logger) (*Server, error) {
	proxies, err := parseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		deps:    deps,
		cfg:     cfg,
		proxies: proxies,
		logger:  logger,
	}, nil
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	if s.cfg.RateLimitPerMin > 0 {
		r.Use(newRateLimiter(s.cfg.RateLimitPerMin, s.proxies).middleware)
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limitBody)

		r.Post("/generate-date", s.handleGenerateDate)
		r.Post("/process-csv", s.handleProcessCSV)
		r.Post("/classify", s.handleClassify)

		r.Get("/events", s.handleListEvents)
		r.Post("/events", s.handleCreateEvent)
		r.Get("/events.ics", s.handleExportICS)
		r.Delete("/events/{id}", s.handleDeleteEvent)

		r.Post("/run-notifications", s.handleRunNotifications)
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.logger.Info("HTTP frontend started", zap.String("address", ln.Addr().String()))

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
