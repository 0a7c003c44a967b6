package state

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner clears sessions abandoned mid-flow so a stale draft does not trap
// the administrator forever. Dispatching sessions are never swept.
type Cleaner struct {
	storage  *MemoryStorage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage *MemoryStorage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	for _, session := range c.storage.All() {
		if session.Current == StateDispatching {
			continue
		}

		if time.Since(session.UpdatedAt) > c.ttl {
			if err := c.storage.ClearState(ctx, session.UserID); err != nil {
				c.log.Error("failed to clear stale session", slog.Int64("user_id", session.UserID), slog.Any("error", err))
				continue
			}
			c.log.Info("stale session cleared", slog.Int64("user_id", session.UserID), slog.String("state", string(session.Current)))
		}
	}
}
