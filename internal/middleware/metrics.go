package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/handlers"
	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
	"github.com/Proton-105/egeshop-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		action := extractAction(c)
		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(action, status, time.Since(start))

		return err
	}
}

// extractAction labels the update for metrics. Callback payload parameters
// are stripped so the label cardinality stays bounded.
func extractAction(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		action, _, err := keyboard.DecodeCallback(cb.Data)
		if err == nil {
			return action
		}
		return "callback_invalid"
	}

	if text := c.Text(); strings.HasPrefix(text, "/") {
		if idx := strings.IndexAny(text, " @"); idx > 0 {
			return text[:idx]
		}
		return text
	}

	if c.Text() != "" {
		return "text"
	}

	return "unknown"
}
