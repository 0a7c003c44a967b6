// Package logger assembles the application slog pipeline.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/Proton-105/egeshop-bot/pkg/config"
)

// New builds the application logger from configuration. The returned LevelVar
// allows the level to be adjusted at runtime (config hot-reload).
func New(cfg config.Config) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	level.Set(config.ParseLevel(cfg.Logger.Level))

	var out io.Writer = os.Stdout
	if cfg.Logger.File.Enabled && cfg.Logger.File.Path != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logger.File.Path,
			MaxSize:    cfg.Logger.File.MaxSizeMB,
			MaxBackups: cfg.Logger.File.MaxBackups,
			MaxAge:     cfg.Logger.File.MaxAgeDays,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logger.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	if cfg.Sentry.Enabled {
		sentryHandler := slogsentry.Option{Level: slog.LevelError}.NewSentryHandler()
		handler = newFanoutHandler(handler, sentryHandler)
	}

	return slog.New(NewMaskingHandler(handler)), level
}

// fanoutHandler duplicates records to every wrapped handler.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
