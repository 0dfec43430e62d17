package app

import (
	"context"
	"fmt"
	"time"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/config"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/dashboard"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/handlers"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/mcp"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/telemetry"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Catalog  *catalog.Catalog
	Proxy    *mcp.Proxy
	Recorder *telemetry.Recorder
	Poller   *dashboard.Poller

	// HTTP handlers
	HealthHandler       *handlers.HealthHandler
	VersionHandler      *handlers.VersionHandler
	ServerHealthHandler *handlers.ServerHealthHandler
	ToolsHandler        *handlers.ToolsHandler
	MetricsHandler      *handlers.MetricsSummaryHandler
	MCPHandler          *mcp.Handler
}

// New initializes the application with all dependencies. The metrics poller
// is created but not started; call Start.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	cat, err := LoadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	a.Proxy = mcp.NewProxy(cfg.API.URL, cfg.API.GetTimeout(), logger, nil)
	a.Recorder = telemetry.NewRecorder()

	a.Poller, err = dashboard.NewPoller(dashboard.PollerConfig{
		Source:   a.Proxy,
		Path:     cfg.Metrics.Path,
		Interval: cfg.Metrics.GetPollInterval(),
		Timeout:  cfg.Metrics.GetTimeout(),
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics poller: %w", err)
	}

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// LoadCatalog returns the catalog named by [catalog] file, or the built-in one.
func LoadCatalog(cfg *config.Config, logger *common.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.File == "" {
		cat := catalog.Default()
		logger.Debug().Int("tools", cat.Len()).Msg("using built-in tool catalog")
		return cat, nil
	}

	cat, err := catalog.LoadFile(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info().Str("file", cfg.Catalog.File).Int("tools", cat.Len()).Msg("tool catalog loaded")
	return cat, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Catalog)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ServerHealthHandler = handlers.NewServerHealthHandler(a.Logger, a.Proxy, "/health")
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, a.Catalog, a.Proxy)
	a.MetricsHandler = handlers.NewMetricsSummaryHandler(a.Logger, a.Poller)
	a.MCPHandler = mcp.NewHandler(a.Config.MCP.Name, a.Catalog, a.Proxy, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Start begins background work.
func (a *App) Start() {
	a.Poller.Start()
}

// Close stops background work.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Poller.Stop(ctx)
}
