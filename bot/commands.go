package bot

import (
	"fmt"
	"time"

	"github.com/m3rciful/coinbot/core/buildinfo"
	"github.com/m3rciful/coinbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const helpText = "Welcome to the Crypto Price Bot!\n\n" +
	"Commands:\n" +
	"/start - Show main menu\n" +
	"/help - Show this help message\n\n" +
	"You can check prices of top cryptocurrencies, view trending coins, or search for a specific cryptocurrency."

func (a *App) registerCommands() {
	a.reg.RegisterCommand("/start", commands.Command{
		Description: "Show main menu",
		Handler:     a.handleStart,
	})
	a.reg.RegisterCommand("/help", commands.Command{
		Description: "Show this help message",
		Handler:     a.handleHelp,
	})
	a.reg.RegisterCommand("/stats", commands.Command{
		Description: "Runtime counters",
		Handler:     a.handleStats,
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) handleStart(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	var errs []error
	a.conv.Start(c.Sender().ID, func(r Reply) {
		if err := render(c, r); err != nil {
			errs = append(errs, err)
		}
	})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

func (a *App) handleStats(c tele.Context) error {
	uptime := time.Since(a.started).Round(time.Second)
	sendErrs := uint64(0)
	if a.dispatcherErrs != nil {
		sendErrs = a.dispatcherErrs()
	}
	text := fmt.Sprintf(
		"Version: %s (%s)\nUptime: %s\nActive sessions: %d\nSend errors: %d",
		buildinfo.Version, buildinfo.Commit,
		uptime,
		a.conv.Sessions().Len(),
		sendErrs,
	)
	return tghelpers.SendText(c, text)
}
