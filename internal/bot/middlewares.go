package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/egeshop-bot/internal/errors"
	"github.com/Proton-105/egeshop-bot/internal/user"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler,
// and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := "Произошла ошибка. Попробуйте позже."
					if errHandler != nil {
						appErr := apperrors.NewStateError(fmt.Sprintf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for
// handler failures.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := "Произошла ошибка. Попробуйте позже."
			if errHandler != nil {
				if msg, _ := errHandler.Handle(context.Background(), err); msg != "" {
					userMsg = msg
				}
			}

			if c != nil {
				_ = c.Send(userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			userID := int64(0)
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			action := ""
			if c != nil {
				if cb := c.Callback(); cb != nil {
					action = cb.Data
				} else {
					action = c.Text()
				}
			}

			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// RegisterUserMiddleware upserts the sender on every update, so the broadcast
// audience always reflects the latest profile fields and activity time.
func RegisterUserMiddleware(userService *user.Service, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if userService == nil || c == nil || c.Sender() == nil {
				return next(c)
			}

			if err := userService.Register(context.Background(), c.Sender()); err != nil {
				log.Error("failed to register user", slog.Int64("user_id", c.Sender().ID), slog.Any("error", err))
				return err
			}

			return next(c)
		}
	}
}
