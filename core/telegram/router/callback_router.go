package router

import (
	"time"

	"log/slog"

	tg "github.com/m3rciful/coinbot/core/telegram"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"
	"github.com/m3rciful/coinbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TokenHandler consumes a raw callback token.
// It reports false when the token does not map to a known action,
// letting the route fall back to the registry's not-found handler.
type TokenHandler interface {
	HandleToken(c tele.Context, token string) (bool, error)
}

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that feeds raw callback tokens to the
// token handler, falling back to the registry's not-found handler for
// tokens nothing claims.
func CallbackRoute(th TokenHandler, reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		token := rawToken(cb)
		name := "callback." + normalizeHandlerName(token)
		extras := []slog.Attr{slog.String("cb_key", token)}

		tghelpers.WithHandler(c, name)

		var (
			handled bool
			err     error
		)
		if th != nil {
			handled, err = th.HandleToken(c, token)
		}
		if !handled {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			if fallback != nil {
				err = fallback(c)
			}
		}

		logHandlerSummary(c, name, start, "", "", err, extras...)
		return err
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
