package handlers

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/i18n"
)

// NewFallbackHandler answers free text that matched no command and no state.
// Unknown slash commands are ignored to avoid noise in group forwards.
func NewFallbackHandler(t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		text := c.Text()
		if strings.HasPrefix(text, "/") {
			return nil
		}

		return c.Send(t.T("fallback.unknown"))
	}
}
