// Package broadcast delivers one message to every registered user.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/Proton-105/egeshop-bot/internal/errors"
	"github.com/Proton-105/egeshop-bot/pkg/metrics"
)

// Sender delivers a single message to a single recipient.
type Sender interface {
	Send(ctx context.Context, userID int64, text string) error
}

// UserSource lists the identities to deliver to.
type UserSource interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// Report summarizes a completed broadcast run.
type Report struct {
	Sent      int
	Failed    int
	Attempted int
}

// Dispatcher runs a broadcast over the full recipient list. Per-recipient
// failures are counted and logged but never abort the remaining deliveries,
// and nothing is retried.
type Dispatcher struct {
	sender Sender
	users  UserSource
	delay  time.Duration
	log    *slog.Logger
}

// NewDispatcher constructs a Dispatcher. delay is the inter-send pause that
// keeps the run inside the platform's outbound rate limits.
func NewDispatcher(sender Sender, users UserSource, delay time.Duration, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		sender: sender,
		users:  users,
		delay:  delay,
		log:    log,
	}
}

// Run delivers text to every registered user sequentially and returns the
// delivery report. The run is not cancellable once started; ctx only shortens
// the inter-send pauses on shutdown.
func (d *Dispatcher) Run(ctx context.Context, text string) (Report, error) {
	ids, err := d.users.ListIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list recipients: %w", err)
	}

	start := time.Now()
	report := Report{Attempted: len(ids)}

	for i, id := range ids {
		if err := d.sender.Send(ctx, id, text); err != nil {
			report.Failed++
			metrics.RecordDelivery(false)

			derr := apperrors.NewDeliveryError(id, err)
			d.log.Error("broadcast delivery failed",
				slog.Int64("user_id", id),
				slog.String("code", derr.Code),
				slog.Any("error", err),
			)
		} else {
			report.Sent++
			metrics.RecordDelivery(true)
		}

		if i < len(ids)-1 {
			d.pause(ctx)
		}
	}

	metrics.RecordBroadcastRun(time.Since(start))
	d.log.Info("broadcast completed",
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Int("attempted", report.Attempted),
		slog.Duration("duration", time.Since(start)),
	)

	return report, nil
}

// pause yields between sends instead of blocking on a bare sleep, so a
// shutdown does not hang on the delay.
func (d *Dispatcher) pause(ctx context.Context) {
	if d.delay <= 0 {
		return
	}

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
