package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/posbot/core/bootstrap"
	"github.com/m3rciful/posbot/core/cmd"
	coretelegram "github.com/m3rciful/posbot/core/telegram"
	"github.com/m3rciful/posbot/core/telegram/router"
	"github.com/m3rciful/posbot/core/telegram/state"
	"github.com/m3rciful/posbot/core/telegram/ui"
	"github.com/m3rciful/posbot/internal/bot"
	"github.com/m3rciful/posbot/internal/config"
	"github.com/m3rciful/posbot/internal/service"
	"github.com/m3rciful/posbot/internal/store"
)

// App holds the assembled application: infrastructure, services, and
// the bot handler set.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	handlers *bot.Handlers
	registry *coretelegram.Registry
}

// New bootstraps infrastructure and wires the service and bot layers.
func New(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	st := store.New(res.DB)
	catalog := service.NewCatalog(st)
	customers := service.NewCustomers(st)
	orders := service.NewOrders(st)

	sessions := state.NewMemoryManager()
	flow := state.NewRouter(sessions)
	handlers := bot.New(sessions, flow, catalog, customers, orders, cfg.Auth)

	registry := coretelegram.NewRegistry()
	handlers.Register(registry)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		handlers: handlers,
		registry: registry,
	}, nil
}

// TelegramRunOptions assembles routes and middleware for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	if a.registry == nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: registry not initialized")
	}

	var fallbacks ui.FallbackProvider = a.handlers
	routes := router.TextRoutes(a.handlers.Flow(), a.handlers.MenuResolver(), a.registry, router.TextOptions{
		UnknownText:     fallbacks.UnknownText,
		UnknownDocument: fallbacks.UnknownDocument,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: fallbacks.UnknownCallback,
	}))
	routes = append(routes, router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

var _ cmd.TelegramApp = (*App)(nil)
var _ cmd.ConfigCarrier = (*config.Config)(nil)
