package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentOS/desktop/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/api/ws"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/paint"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/events"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/tracing"
)

// sweepInterval is how often idle rate limiter entries are evicted
const sweepInterval = time.Minute

// Server wraps the HTTP server and the desktop it exposes
type Server struct {
	router  *gin.Engine
	http    *http.Server
	manager *window.Manager
	bus     *events.Bus
	tracer  *tracing.Tracer
	limiter *middleware.ClientLimiter
	clock   clockwork.Clock
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics

	stopSweep chan struct{}
	stopOnce  sync.Once
}

// Options customizes New beyond what config carries
type Options struct {
	Logger *logging.Logger
	Clock  clockwork.Clock
	Critic paint.Critic
}

// NewServer creates a server with a logger built from cfg
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return New(cfg, Options{Logger: logger})
}

// New creates a new server instance
func New(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger.Info("Initializing desktop server",
		zap.String("port", cfg.Server.Port),
		zap.Int("width", cfg.Desktop.Width),
		zap.Int("height", cfg.Desktop.Height),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.NewWithClock("desktop", logger.Named("trace"), clock)

	cat, err := catalog.Load(cfg.Desktop.CatalogPath)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Catalog loaded",
		zap.String("path", cfg.Desktop.CatalogPath),
		zap.Int("apps", len(cat.IDs())),
	)

	winCfg := window.Config{
		Viewport: window.Viewport{
			Width:         cfg.Desktop.Width,
			Height:        cfg.Desktop.Height,
			TaskbarHeight: cfg.Desktop.TaskbarHeight,
		},
		ZIndexBase:     cfg.Desktop.ZIndexBase,
		CloseAnimation: cfg.Desktop.CloseAnimation,
		InitTimeout:    cfg.Desktop.InitTimeout,
	}
	desktop := surface.NewDesktop(winCfg.Viewport, cat.IDs(), cfg.Desktop.PlacementSeed)

	suite := apps.NewSuite(apps.Options{
		Media:  cfg.Media,
		Critic: opts.Critic,
		Clock:  clock,
		Logger: logger,
	})
	dispatcher := window.NewDispatcher()
	if err := apps.Register(dispatcher, cat, suite); err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to register apps: %w", err)
	}
	logger.Info("App collaborators registered", zap.Strings("apps", dispatcher.Registered()))

	bus := events.NewBus(events.DefaultHistory).
		WithClock(clock).
		WithLogger(logger.Named("events")).
		WithMetrics(metrics)

	manager := window.NewManager(winCfg, desktop, dispatcher, cat).
		WithClock(clock).
		WithLogger(logger.Named("window")).
		WithMetrics(metrics).
		WithObserver(bus)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	var limiter *middleware.ClientLimiter
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		limiter = middleware.NewClientLimiter(rl, clock)
		router.Use(limiter.Handler())
	}

	handlers := apihttp.NewHandlers(manager, cat, desktop, suite, bus, metrics).
		WithWaitTimeout(cfg.Desktop.InitTimeout)
	handlers.Routes(router)

	wsHandler := ws.NewHandler(manager, bus, logger.Named("ws")).
		WithTracer(tracer).
		WithMetrics(metrics)
	router.GET("/stream", wsHandler.HandleConnection)

	s := &Server{
		router:  router,
		manager: manager,
		bus:     bus,
		tracer:  tracer,
		limiter: limiter,
		clock:   clock,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		http: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		stopSweep: make(chan struct{}),
	}
	if limiter != nil {
		go s.sweepLimiter()
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the HTTP handler serving the desktop
func (s *Server) Handler() http.Handler {
	return s.router
}

// Manager returns the window manager
func (s *Server) Manager() *window.Manager {
	return s.manager
}

// Run starts the HTTP server and blocks until Shutdown
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, closes every window so collaborators
// release their timers, and flushes traces and logs
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
	}

	s.stopOnce.Do(func() { close(s.stopSweep) })

	open := s.manager.OpenIDs()
	for _, appID := range open {
		s.manager.CloseApp(appID)
	}
	if len(open) > 0 {
		s.logger.Info("Closed open windows", zap.Strings("apps", open))
	}

	s.bus.Close()
	s.tracer.Close()
	_ = s.logger.Sync()

	return err
}

func (s *Server) sweepLimiter() {
	ticker := s.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopSweep:
			return
		case <-ticker.Chan():
			if n := s.limiter.Sweep(); n > 0 {
				s.logger.Debug("Evicted idle rate limiter clients", zap.Int("count", n))
			}
		}
	}
}
