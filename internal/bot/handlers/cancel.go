package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/i18n"
	"github.com/Proton-105/egeshop-bot/internal/state"
)

// NewCancelHandler aborts the current conversation flow. A running broadcast
// cannot be cancelled this way; it always runs to completion.
func NewCancelHandler(fsm state.StateMachine, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		userID := c.Sender().ID

		session, err := fsm.GetState(ctx, userID)
		if err != nil {
			if errors.Is(err, state.ErrStateNotFound) {
				return c.Send(t.T("cancel.done"))
			}
			return err
		}

		if session.Current == state.StateDispatching {
			return c.Send(t.T("admin.busy_dispatching"))
		}

		if err := fsm.ClearState(ctx, userID); err != nil {
			return err
		}

		return c.Send(t.T("cancel.done"))
	}
}
