package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/app/boards"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/app/sessions"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/config"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	httpserver "github.com/preston-bernstein/cricket-scoreboard-service/internal/http"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scoring"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/store"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/sweeper"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg             config.Config
	logger          *slog.Logger
	metrics         *metrics.Recorder
	store           *store.MemoryStore
	sessionsService *sessions.Service
	boardsService   *boards.Service
	journal         *journal.Store
	httpServer      httpServer
	metricsServer   httpServer
	sweeper         Sweeper
	metricsStop     func(context.Context) error
}

// New constructs a server with the configured gateway and sweeper wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithGateway(cfg, logger, nil)
}

func newServerWithGateway(cfg config.Config, logger *slog.Logger, gw gateway.MatchGateway) *Server {
	return newServerWithMetrics(cfg, logger, gw, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, gw gateway.MatchGateway, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newGatewayFactory(logger, recorder)
	if gw == nil {
		gw = factory.build(cfg)
	} else {
		gw = factory.wrap(cfg, gw)
	}
	storage := buildStorage(cfg, logger)
	memoryStore, sessionSvc, boardSvc := buildServices(gw, storage, logger, recorder)
	swp := sweeper.New(boardSvc, sessionSvc, logger, recorder, cfg.Sweeper.Interval, cfg.Sweeper.IdleTTL)
	httpSrv := buildHTTPServer(cfg, sessionSvc, boardSvc, storage, logger, recorder, swp)

	return &Server{
		cfg:             cfg,
		logger:          logger,
		metrics:         recorder,
		store:           memoryStore,
		sessionsService: sessionSvc,
		boardsService:   boardSvc,
		journal:         storage.journal,
		httpServer:      httpSrv,
		metricsServer:   metricsSrv,
		sweeper:         swp,
		metricsStop:     metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, swp Sweeper) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		sweeper:    swp,
	}
}

func buildServices(gw gateway.MatchGateway, storage storageComponents, logger *slog.Logger, recorder *metrics.Recorder) (*store.MemoryStore, *sessions.Service, *boards.Service) {
	memoryStore := store.NewMemoryStore()
	opts := scoring.Options{
		Notifier: noticeLogger(logger),
		Metrics:  recorder,
		Logger:   logger,
	}
	if storage.journal != nil {
		opts.Journal = storage.journal
	}
	if storage.writer != nil {
		opts.Archive = storage.writer
	}
	boardSvc := boards.NewService(memoryStore, func(sess *session.Session, matchID string) *scoring.Board {
		return scoring.NewBoard(sess, gw, matchID, opts)
	}, nil)
	return memoryStore, sessions.NewService(memoryStore, nil), boardSvc
}

// noticeLogger records every board notice at debug level against the request logger.
func noticeLogger(fallback *slog.Logger) scoring.Notifier {
	return scoring.NotifierFunc(func(ctx context.Context, n scoring.Notice) {
		logging.Debug(logging.FromContext(ctx, fallback), "board notice",
			slog.String("level", string(n.Level)),
			slog.String("message", n.Message),
		)
	})
}

func buildHTTPServer(cfg config.Config, sessionSvc *sessions.Service, boardSvc *boards.Service, storage storageComponents, logger *slog.Logger, recorder *metrics.Recorder, swp Sweeper) httpServer {
	var statusFn func() sweeper.Status
	if swp != nil {
		statusFn = swp.Status
	}

	var events handlers.EventLister
	if storage.journal != nil {
		events = storage.journal
	}
	handler := handlers.NewHandler(boardSvc, sessionSvc, events, storage.cards, logger, statusFn)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	router := httpserver.NewRouter(handler, logger, recorder)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeoutFor(cfg.Backend),
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the sweeper and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.sweeper.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.sweeper.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop sweeper", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	// The journal closes last so in-flight actions can still record.
	if s.journal != nil {
		if err := s.journal.Close(); err != nil && s.logger != nil {
			s.logger.Warn("journal close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
