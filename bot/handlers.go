package bot

import (
	"errors"

	"log/slog"

	"github.com/m3rciful/coinbot/core/logger"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"
	"github.com/m3rciful/coinbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// HandleToken consumes a raw callback token. It reports false for
// tokens outside the dialog's event set, so the router can answer with
// its not-found fallback.
//
// Replies are rendered synchronously: a transition may emit several
// messages (placeholder, then result) whose order matters.
func (cv *Conversation) HandleToken(c tele.Context, token string) (bool, error) {
	ev, ok := ParseToken(token, cv.menu.Currencies())
	if !ok {
		return false, nil
	}
	if c.Sender() == nil {
		return false, nil
	}

	// Acknowledge the button press before any fetch happens.
	if err := c.Respond(); err != nil {
		logger.Warn(tghelpers.BuildContext(c), "bot", "callback.ack_fail",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}

	ctx := tghelpers.BuildContext(c)
	sess := cv.sessions.Get(c.Sender().ID)

	logger.Debug(ctx, "bot", "dialog.event",
		slog.String("stage", sess.Stage.String()),
		slog.String("cb_key", token),
	)

	return true, cv.run(c, sess, ev)
}

// ExpectsText reports whether the user is mid-search, which is the only
// stage where plain text belongs to the dialog.
func (cv *Conversation) ExpectsText(userID int64) bool {
	return cv.sessions.Stage(userID) == StageTypingSearch
}

// HandleText feeds a typed message into the dialog.
func (cv *Conversation) HandleText(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	sess := cv.sessions.Get(c.Sender().ID)

	logger.Debug(ctx, "bot", "dialog.event",
		slog.String("stage", sess.Stage.String()),
		slog.String("query", logger.SanitizeLimit(c.Text(), 64)),
	)

	return cv.run(c, sess, FreeText(c.Text()))
}

func (cv *Conversation) run(c tele.Context, sess *Session, ev Event) error {
	ctx := tghelpers.BuildContext(c)

	var errs []error
	cv.Advance(ctx, sess, ev, func(r Reply) {
		if err := render(c, r); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

func render(c tele.Context, r Reply) error {
	markup := markupFor(r)
	if r.Edit && c.Callback() != nil {
		if markup != nil {
			return c.EditOrSend(r.Text, markup)
		}
		return c.EditOrSend(r.Text)
	}
	if markup != nil {
		return c.Send(r.Text, markup)
	}
	return c.Send(r.Text)
}

// markupFor lays reply options out as an inline keyboard. The trailing
// back-to-main-menu option, when present, stays on its own row no
// matter the row width.
func markupFor(r Reply) *tele.ReplyMarkup {
	if len(r.Options) == 0 {
		return nil
	}

	opts := r.Options
	var backRow []keyboard.InlineBtn
	if last := opts[len(opts)-1]; last.Token == tokenMainMenu {
		backRow = []keyboard.InlineBtn{{Text: last.Label, Token: last.Token}}
		opts = opts[:len(opts)-1]
	}

	buttons := make([]keyboard.InlineBtn, len(opts))
	for i, opt := range opts {
		buttons[i] = keyboard.InlineBtn{Text: opt.Label, Token: opt.Token}
	}

	rows := keyboard.Chunk(buttons, r.PerRow)
	if backRow != nil {
		rows = append(rows, backRow)
	}
	return keyboard.InlineRows(rows...)
}
