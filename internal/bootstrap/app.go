// Package bootstrap wires the marketplace client together: configuration,
// logging, telemetry, the persisted session, the resilient API client, the
// per-role workspaces, and the background loops.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pro_market/internal/admin"
	"pro_market/internal/api"
	"pro_market/internal/booking"
	"pro_market/internal/config"
	"pro_market/internal/core"
	"pro_market/internal/infrastructure/health"
	"pro_market/internal/infrastructure/metrics"
	"pro_market/internal/notify"
	"pro_market/internal/poll"
	"pro_market/internal/session"
	"pro_market/internal/views"
	"pro_market/pkg/concurrency"
	"pro_market/pkg/httpx"
	"pro_market/pkg/logging"
	"pro_market/pkg/telemetry"
)

// App holds the assembled client
type App struct {
	Cfg      *config.Config
	Logger   core.ILogger
	Store    *session.Store
	API      *api.Client
	Notifier *notify.Queue
	Shell    *views.Shell

	ClientHome *views.ClientHome
	ProHome    *views.ProWorkspace
	AdminPanel *views.AdminPanel

	pool      *concurrency.WorkerPool
	telemetry *telemetry.Telemetry
	health    *health.HealthManager
	metrics   *metrics.Server
	poller    *poll.BookingPoller
	refresher *admin.AnalyticsRefresher
}

// NewApp builds the full dependency graph from a config file
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewZapLogger(cfg.System.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	tel, err := telemetry.Setup("pro_market")
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	persist, err := session.NewSQLiteStore(cfg.Session.DBPath)
	if err != nil {
		return nil, fmt.Errorf("session persistence: %w", err)
	}

	store, err := session.Open(ctx, persist, logger)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	httpClient := httpx.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		store,
		cfg.API.RateLimitRPS,
		cfg.API.RateLimitBurst,
	)
	apiClient := api.NewClient(httpClient, logger)

	notifier := notify.NewQueue(cfg.NotificationTTL(), logger)

	shell := views.NewShell(apiClient, store, notifier, logger)
	apiClient.SetUnauthorizedHandler(shell.HandleUnauthorized)

	pool := concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:        "AdminActionPool",
		MaxWorkers:  cfg.Concurrency.ActionPoolSize,
		MaxCapacity: cfg.Concurrency.ActionPoolBuffer,
		NonBlocking: true,
	}, logger)

	actions := booking.NewActions(apiClient, store, notifier, logger)
	poller := poll.NewBookingPoller(apiClient, notifier, logger, cfg.BookingInterval(), cfg.FetchTimeout())
	refresher := admin.NewAnalyticsRefresher(apiClient, logger, cfg.AnalyticsInterval(), cfg.FetchTimeout())
	console := admin.NewConsole(apiClient, notifier, pool, logger)

	clientHome := views.NewClientHome(apiClient, actions, poller, notifier, store, logger)
	proHome := views.NewProWorkspace(apiClient, actions, store, logger)
	adminPanel := views.NewAdminPanel(apiClient, console, refresher, store, logger)

	healthMgr := health.NewHealthManager(logger)
	healthMgr.Register("backend", func() error {
		return apiClient.CheckHealth(context.Background())
	})
	healthMgr.Register("booking_poller", health.FreshnessCheck(poller.LastCycle, 3*cfg.BookingInterval()))

	var metricsSrv *metrics.Server
	if cfg.Telemetry.EnableMetrics {
		metricsSrv = metrics.NewServer(cfg.Telemetry.MetricsPort, healthMgr, logger)
	}

	return &App{
		Cfg:        cfg,
		Logger:     logger,
		Store:      store,
		API:        apiClient,
		Notifier:   notifier,
		Shell:      shell,
		ClientHome: clientHome,
		ProHome:    proHome,
		AdminPanel: adminPanel,
		pool:       pool,
		telemetry:  tel,
		health:     healthMgr,
		metrics:    metricsSrv,
		poller:     poller,
		refresher:  refresher,
	}, nil
}

// Run starts the background pieces and blocks until a termination signal
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info("Starting marketplace client",
		"backend", a.Cfg.API.BaseURL,
		"route", a.Shell.CurrentRoute())

	if a.metrics != nil {
		a.metrics.Start()
	}

	// The landing workspace for an authenticated session opens eagerly so
	// its polling loop is live before any interaction.
	switch a.Shell.CurrentRoute() {
	case core.RouteClientHome:
		if err := a.ClientHome.Open(ctx); err != nil {
			a.Logger.Error("Failed to open client home", "error", err.Error())
		}
	case core.RouteProHome:
		if err := a.ProHome.Open(ctx); err != nil {
			a.Logger.Error("Failed to open pro workspace", "error", err.Error())
		}
	case core.RouteAdmin:
		if err := a.AdminPanel.Open(ctx); err != nil {
			a.Logger.Error("Failed to open admin panel", "error", err.Error())
		}
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal, gracefully shutting down")
	return a.Shutdown()
}

// Shutdown stops loops and releases resources in dependency order
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.poller.Stop(); err != nil {
		a.Logger.Warn("Poller stop failed", "error", err.Error())
	}
	if err := a.refresher.Stop(); err != nil {
		a.Logger.Warn("Analytics refresher stop failed", "error", err.Error())
	}
	a.pool.Stop()
	a.Notifier.Close()

	if a.metrics != nil {
		if err := a.metrics.Stop(shutdownCtx); err != nil {
			a.Logger.Warn("Metrics server stop failed", "error", err.Error())
		}
	}
	if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn("Telemetry shutdown failed", "error", err.Error())
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("Session store close failed", "error", err.Error())
	}

	a.Logger.Info("Marketplace client stopped")
	return nil
}
