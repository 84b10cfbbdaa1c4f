package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/getmockd/odatamock/internal/id"
	"github.com/getmockd/odatamock/pkg/catalog"
	"github.com/getmockd/odatamock/pkg/config"
	"github.com/getmockd/odatamock/pkg/keyschema"
	"github.com/getmockd/odatamock/pkg/logging"
	"github.com/getmockd/odatamock/pkg/metrics"
	"github.com/getmockd/odatamock/pkg/odata"
	"github.com/getmockd/odatamock/pkg/ratelimit"
	"github.com/getmockd/odatamock/pkg/requestlog"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// Server is the OData mock HTTP server.
type Server struct {
	cfg      *config.ServerConfig
	catalog  *catalog.Catalog
	service  *odata.Service
	odata    *odata.Handler
	counters *catalog.Counters
	metrics  *metrics.Metrics
	limiter  *ratelimit.PerIPLimiter
	requests requestlog.Store
	log      *slog.Logger
	version  string

	serviceOpts []odata.ServiceOption
	handler     http.Handler

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	done       chan error
	running    bool
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics collector. By default a new one is created.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithRequestLog sets the request journal served under /__admin/requests.
// By default an in-memory journal of requestlog.DefaultCapacity entries is used.
func WithRequestLog(store requestlog.Store) ServerOption {
	return func(s *Server) { s.requests = store }
}

// WithVersion sets the version reported in the OpenAPI document.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// WithServiceOptions passes extra options to the odata.Service, after the
// ones derived from configuration.
func WithServiceOptions(opts ...odata.ServiceOption) ServerOption {
	return func(s *Server) { s.serviceOpts = append(s.serviceOpts, opts...) }
}

// NewServer creates a Server serving cat. A nil cfg uses config.Default().
func NewServer(cfg *config.ServerConfig, cat *catalog.Catalog, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if cat == nil {
		cat = catalog.New()
	}

	s := &Server{
		cfg:      cfg,
		catalog:  cat,
		counters: catalog.NewCounters(),
		log:      logging.Nop(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(
			metrics.WithCollectionCount(cat.Len),
			metrics.WithKnownCollections(KnownCollections(cfg, cat)...),
		)
	}
	if s.requests == nil {
		s.requests = requestlog.NewMemory(requestlog.DefaultCapacity)
	}

	svcOpts := []odata.ServiceOption{
		odata.WithRegistry(keyschema.NewRegistry(cat, cfg.KeySchemas)),
		odata.WithIDSource(id.NewSource(cfg.Synthesis.Seed)),
		odata.WithObserver(catalog.Observers{s.counters, s.metrics}),
		odata.WithLogger(s.log),
	}
	s.service = odata.NewService(cat, append(svcOpts, s.serviceOpts...)...)
	s.odata = odata.NewHandler(s.service,
		odata.WithBasePath(cfg.Server.BasePath),
		odata.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		odata.WithHandlerLogger(s.log),
	)

	if cfg.RateLimit.Enabled() {
		s.limiter = ratelimit.NewPerIPLimiter(ratelimit.PerIPConfig{
			Rate:  cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
	}

	s.handler = s.buildHandler()
	return s
}

// KnownCollections lists the seeded collections plus those with a configured
// key schema. Only these get their own metric label.
func KnownCollections(cfg *config.ServerConfig, cat *catalog.Catalog) []string {
	names := cat.Names()
	for name := range cfg.KeySchemas {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Requests returns the request journal.
func (s *Server) Requests() requestlog.Store {
	return s.requests
}

// Service returns the dispatcher.
func (s *Server) Service() *odata.Service {
	return s.service
}

// Catalog returns the record store.
func (s *Server) Catalog() *catalog.Catalog {
	return s.catalog
}

// Counters returns the in-memory operation counters.
func (s *Server) Counters() *catalog.Counters {
	return s.counters
}

// Metrics returns the Prometheus collector.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.cfg
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr(), err)
	}

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
			done <- err
		}
	}()

	s.httpServer = srv
	s.listener = ln
	s.done = done
	s.running = true
	s.startTime = time.Now()
	s.log.Info("server started",
		"addr", ln.Addr().String(),
		"basePath", s.odata.BasePath(),
		"collections", s.catalog.Len(),
		"rateLimit", s.cfg.RateLimit.Enabled(),
	)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Run starts the server and blocks until ctx is cancelled or serving fails,
// then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err, ok := <-done; ok {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.Stop(sctx)
	})
	if s.limiter != nil {
		g.Go(func() error { return s.limiter.Run(gctx) })
	}
	return g.Wait()
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime in seconds.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}
