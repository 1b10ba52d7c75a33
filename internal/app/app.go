package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"pitchpulse/internal/auth"
	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	apierrors "pitchpulse/internal/errors"
	"pitchpulse/internal/exporter"
	"pitchpulse/internal/feeds"
	"pitchpulse/internal/infrastructure"
	customMiddleware "pitchpulse/internal/middleware"
	"pitchpulse/internal/operations"
	"pitchpulse/internal/services"
	handlers "pitchpulse/internal/transport/http"
	ws "pitchpulse/internal/websocket"
	"pitchpulse/pkg/contracts"
)

// Application is the wired dashboard server
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger

	Router *chi.Mux
	Server *http.Server

	OTelProviders *infrastructure.OTelProviders
	ErrorHandler  *apierrors.ErrorHandler

	WebSocketHub *ws.Hub
	Broadcaster  *operations.StatusBroadcaster
	Manager      *operations.Manager

	AuthService      *auth.Service
	DataService      *services.DataService
	OperationService *services.OperationService
	HealthService    *services.HealthService

	upgrader websocket.Upgrader
}

// NewApplication loads configuration and wires every component
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("create data directories: %w", err)
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.ServiceVersion = contracts.Version
	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	logger.Info("application initialized",
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port),
		slog.Bool("auth", cfg.Auth.Enabled),
		slog.Bool("sheets_publish", cfg.Sheets.Enabled))
	return app, nil
}

// initializeServices builds the hub, pipeline and service layer
func (a *Application) initializeServices() error {
	a.WebSocketHub = ws.NewHub(a.Logger)
	a.WebSocketHub.Start()

	a.Broadcaster = operations.NewStatusBroadcaster(a.WebSocketHub, a.Logger)

	authService, err := auth.NewService(a.Config.Auth, a.Logger)
	if err != nil {
		return fmt.Errorf("initialize auth: %w", err)
	}
	a.AuthService = authService

	feedClient := feeds.NewClient(a.Config.Feeds, a.Logger)
	processor := dataprocessing.NewProcessor(a.Paths, a.Logger)
	datasets := exporter.NewDatasetExporter(a.Paths, a.Logger)
	workbooks := exporter.NewWorkbookExporter(a.Paths, a.Logger)

	publisher, err := exporter.NewSheetsPublisher(context.Background(), a.Config.Sheets, a.Paths, a.Logger)
	if err != nil {
		return fmt.Errorf("initialize sheets publisher: %w", err)
	}

	registry := operations.NewRegistry()
	steps := []operations.Step{
		operations.NewScrapeStep(feedClient, a.Paths, a.Broadcaster, a.Logger),
		operations.NewProcessStep(processor, a.Logger),
		operations.NewExportStep(datasets, workbooks, a.Logger),
		operations.NewPublishStep(publisher, a.Logger),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return fmt.Errorf("register step %s: %w", step.ID(), err)
		}
	}

	a.Manager = operations.NewManager(registry, operations.DefaultConfig(), a.Broadcaster, a.Logger)

	a.DataService = services.NewDataService(a.Paths, a.Logger)
	a.OperationService = services.NewOperationService(a.Manager, a.Broadcaster, a.Logger)
	a.HealthService = services.NewHealthService(a.Paths, a.Manager, a.WebSocketHub, a.Logger)

	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		CheckOrigin:     a.checkWebSocketOrigin,
	}

	return nil
}

// setupRouter configures middleware and mounts the route tree
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	if a.OTelProviders.Meter != nil {
		if otelMW, err := customMiddleware.NewOTelMiddleware(a.OTelProviders); err == nil {
			r.Use(otelMW.Handler)
			a.Manager.SetMetrics(otelMW.Metrics())
		} else {
			a.Logger.Warn("request telemetry disabled", slog.String("error", err.Error()))
		}
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins:   a.Config.Security.AllowedOrigins,
			AllowCredentials: true,
			Logger:           a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	a.setupAPIRoutes(r)

	// Live updates; the session gate covers the upgrade request too.
	r.With(a.AuthService.RequireSession).Get("/ws", a.handleWebSocket)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.setupStaticRoutes(r)

	a.Router = r
}

// setupAPIRoutes mounts the /api tree. Health, version and auth stay
// open; everything else requires a session.
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	authHandler := handlers.NewAuthHandler(a.AuthService, a.secureCookies(), a.Logger, a.ErrorHandler)
	dataHandler := handlers.NewDataHandler(a.DataService, a.Logger, a.ErrorHandler)
	operationsHandler := handlers.NewOperationsHandler(a.OperationService, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(a.Config.Server.WriteTimeout))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(a.AuthService.RequireSession)
			r.Mount("/data", dataHandler.Routes())
			r.Mount("/operations", operationsHandler.Routes())
		})
	})
}

// setupStaticRoutes serves the dashboard frontend from the web tree,
// falling back to index.html for client-side routes.
func (a *Application) setupStaticRoutes(r chi.Router) {
	staticDir := a.Paths.StaticDir
	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	index := filepath.Join(a.Paths.WebDir, "index.html")
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api") {
			a.ErrorHandler.NotFound(w, req)
			return
		}
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
}

// handleWebSocket upgrades the connection and hands it to the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response
		a.Logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}
	ws.ServeWS(a.WebSocketHub, conn)
}

// checkWebSocketOrigin allows same-host upgrades plus the configured origins
func (a *Application) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range a.Config.Security.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return strings.Contains(origin, r.Host)
}

func (a *Application) secureCookies() bool {
	for _, origin := range a.Config.Security.AllowedOrigins {
		if strings.HasPrefix(origin, "https://") {
			return true
		}
	}
	return false
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start runs the HTTP server until the context is cancelled
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
		return a.Stop()
	}
}

// Stop shuts the server and all background components down
func (a *Application) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		firstErr = err
	}

	a.WebSocketHub.Stop()
	a.Broadcaster.Stop()
	a.AuthService.Close()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}

	a.Logger.Info("shutdown complete")
	return firstErr
}

// Run starts the application and blocks until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.Start(ctx)
}
