package bot

import (
	"context"

	telebot "gopkg.in/telebot.v3"
)

// telegramSender adapts telebot.Bot to the broadcast sender contract.
type telegramSender struct {
	bot *telebot.Bot
}

func (s *telegramSender) Send(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.bot.Send(&telebot.User{ID: userID}, text)
	return err
}
