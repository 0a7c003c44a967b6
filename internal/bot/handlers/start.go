package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/menu"
	"github.com/Proton-105/egeshop-bot/internal/state"
)

// NewStartHandler renders the welcome screen and resets any pending admin
// flow so /start always lands on a clean slate.
func NewStartHandler(renderer *menu.Renderer, fsm state.StateMachine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		if fsm != nil {
			if err := fsm.ClearState(context.Background(), c.Sender().ID); err != nil {
				log.Error("failed to reset state on start", slog.Int64("user_id", c.Sender().ID), slog.Any("error", err))
			}
		}

		view := renderer.Welcome()
		return c.Send(view.Text, view.Markup, telebot.ModeMarkdown)
	}
}
