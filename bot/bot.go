// Package bot implements the crypto price dialog: a small state
// machine over the CoinGecko client, rendered through inline keyboards.
package bot

import (
	"context"
	"time"

	"log/slog"

	"github.com/m3rciful/coinbot/coingecko"
	"github.com/m3rciful/coinbot/core/buildinfo"
	"github.com/m3rciful/coinbot/core/config"
	"github.com/m3rciful/coinbot/core/logger"
	tg "github.com/m3rciful/coinbot/core/telegram"
	"github.com/m3rciful/coinbot/core/telegram/router"
)

// App assembles the bot: market data client, dialog, command registry.
type App struct {
	cfg     *config.Config
	conv    *Conversation
	reg     *tg.Registry
	started time.Time

	// dispatcherErrs is wired on start, once the runtime exists.
	dispatcherErrs func() uint64
}

// New builds the application from configuration.
func New(cfg *config.Config) *App {
	client := coingecko.New(cfg.Coingecko)
	menu := NewRenderer(SupportedCurrencies)
	conv := NewConversation(client, menu, NewSessions())

	a := &App{
		cfg:     cfg,
		conv:    conv,
		reg:     tg.NewRegistry(),
		started: time.Now(),
	}
	a.registerCommands()
	return a
}

// Conversation exposes the dialog, mainly for tests.
func (a *App) Conversation() *Conversation {
	return a.conv
}

// RunOptions produces the full wiring for tg.RunTelegram.
func (a *App) RunOptions() tg.RunOptions {
	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      a.routes(),
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.dispatcherErrs = rt.Dispatcher.ErrorCount
			logger.Info(ctx, "bot", "ready",
				slog.String("version", versionString()),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			logger.Info(ctx, "bot", "stopping",
				slog.Int("sessions", a.conv.Sessions().Len()),
				slog.Uint64("send_errors", rt.Dispatcher.ErrorCount()),
			)
			return nil
		},
	}
}

func versionString() string {
	return buildinfo.Version + " (" + buildinfo.Commit + ")"
}

func (a *App) routes() []tg.Route {
	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(a.conv, a.reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.conv, a.reg, router.TextOptions{})...)
	return routes
}
