// Package health aggregates readiness checks for the service endpoints.
package health

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	telebot "gopkg.in/telebot.v3"
)

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// Checker aggregates health checks for multiple components.
type Checker struct {
	log    *slog.Logger
	checks map[string]Checkable
}

// NewChecker instantiates a Checker with the provided logger.
func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		log:    log,
		checks: make(map[string]Checkable),
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}
	c.checks[name] = check
}

// Check runs all registered health checks. The boolean is false when any
// component reports a failure.
func (c *Checker) Check(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(c.checks))
	healthy := true

	for name, check := range c.checks {
		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			continue
		}

		results[name] = "OK"
	}

	return results, healthy
}

// DBChecker verifies connectivity to PostgreSQL.
type DBChecker struct {
	db *sql.DB
}

func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

func (c *DBChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.db == nil {
		return sql.ErrConnDone
	}
	return c.db.PingContext(ctx)
}

// RedisChecker verifies connectivity to Redis.
type RedisChecker struct {
	client *redis.Client
}

func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.client == nil {
		return redis.ErrClosed
	}
	return c.client.Ping(ctx).Err()
}

// TelegramChecker verifies that the bot session is initialized.
type TelegramChecker struct {
	bot *telebot.Bot
}

func NewTelegramChecker(bot *telebot.Bot) *TelegramChecker {
	return &TelegramChecker{bot: bot}
}

func (c *TelegramChecker) HealthCheck(_ context.Context) error {
	if c == nil || c.bot == nil || c.bot.Me == nil {
		return errors.New("telegram bot is not initialized or disconnected")
	}
	return nil
}
