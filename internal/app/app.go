// Package app wires the dashboard's components together.
package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/cache"
	"github.com/bobmcallan/vire-dashboard/internal/client"
	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/config"
	"github.com/bobmcallan/vire-dashboard/internal/dashboard"
	"github.com/bobmcallan/vire-dashboard/internal/handlers"
	"github.com/bobmcallan/vire-dashboard/internal/mcp"
	"github.com/bobmcallan/vire-dashboard/internal/proxy"
)

const minPurgeInterval = time.Second

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	EquityClient *client.EquityClient
	Sessions     *cache.Cache[*dashboard.Store]
	Proxy        *proxy.Proxy

	// HTTP handlers
	PageHandler          *handlers.PageHandler
	HealthHandler        *handlers.HealthHandler
	VersionHandler       *handlers.VersionHandler
	BackendHealthHandler *handlers.BackendHealthHandler
	DashboardHandler     *handlers.DashboardHandler
	MCPHandler           *mcp.Handler

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
		stop:   make(chan struct{}),
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Info().Str("environment", cfg.Environment).Msg("running in dev mode")
	} else if env != "prod" && env != "production" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	a.EquityClient = client.NewEquityClient(cfg.API.URL,
		client.WithTimeout(cfg.API.Timeout.Duration),
		client.WithLogger(logger),
	)

	a.Sessions = cache.New[*dashboard.Store](cfg.Dashboard.SessionTTL.Duration, cfg.Dashboard.MaxSessions,
		cache.WithEvictHandler(func(id string, _ *dashboard.Store) {
			logger.Debug().Str("session", id).Msg("dashboard session evicted")
		}),
	)

	if err := a.initProxy(); err != nil {
		return nil, err
	}
	if err := a.initHandlers(); err != nil {
		return nil, err
	}

	a.startPurge()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

func (a *App) initProxy() error {
	if !a.Config.Proxy.Enabled {
		return nil
	}

	routes := proxy.DefaultRoutes()
	if len(a.Config.Proxy.Routes) > 0 {
		routes = make([]proxy.Route, 0, len(a.Config.Proxy.Routes))
		for _, r := range a.Config.Proxy.Routes {
			routes = append(routes, proxy.Route{Prefix: r.Prefix, StripPrefix: r.StripPrefix})
		}
	}

	p, err := proxy.New(a.Config.API.URL, routes, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create proxy: %w", err)
	}
	a.Proxy = p

	a.Logger.Info().Str("target", a.Config.API.URL).Int("routes", len(p.Routes())).Msg("dev proxy enabled")
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() error {
	pages, err := handlers.NewPageHandler(a.Logger, a.Config.IsDevMode())
	if err != nil {
		return err
	}
	a.PageHandler = pages

	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.BackendHealthHandler = handlers.NewBackendHealthHandler(a.Logger, a.EquityClient, a.Config.API.HealthPath)

	a.DashboardHandler = handlers.NewDashboardHandler(
		a.Logger,
		pages,
		a.Sessions,
		a.EquityClient,
		a.EquityClient,
		handlers.DashboardOptions{
			Load: dashboard.LoadOptions{
				OverviewSymbol:  a.Config.Dashboard.OverviewSymbol,
				SentimentTicker: a.Config.Dashboard.SentimentTicker,
			},
			DefaultPortfolio: a.Config.Dashboard.DefaultPortfolio,
		},
	)

	a.MCPHandler = mcp.NewHandler(a.Config, mcp.Deps{
		Source:   a.EquityClient,
		Searcher: a.EquityClient,
		Pinger:   a.EquityClient,
	}, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
	return nil
}

// startPurge drops expired sessions in the background until Close.
func (a *App) startPurge() {
	interval := a.Config.Dashboard.SessionTTL.Duration / 2
	if interval < minPurgeInterval {
		interval = minPurgeInterval
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				if n := a.Sessions.Purge(); n > 0 {
					a.Logger.Debug().Int("purged", n).Int("sessions", a.Sessions.Len()).Msg("expired dashboard sessions purged")
				}
			}
		}
	}()
}

// Close stops background work. It is safe to call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		close(a.stop)
		a.wg.Wait()
	})
	return nil
}
