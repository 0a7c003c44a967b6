// Package metrics exposes Prometheus collectors for the shop bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Proton-105/egeshop-bot/internal/state"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates handled, labeled by action and status",
		},
		[]string{"action", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of admin FSM transitions",
		},
		[]string{"from", "to"},
	)
	broadcastDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Per-recipient broadcast delivery outcomes",
		},
		[]string{"status"},
	)
	broadcastRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_runs_total",
			Help: "Total number of completed broadcast runs",
		},
	)
	broadcastDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_duration_seconds",
			Help:    "Duration of full broadcast runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)
	settingsUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settings_updates_total",
			Help: "Total number of payment details updates",
		},
	)
	userRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Total number of user registry upserts",
		},
	)
)

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

// RecordUpdate increments update counters and records handling duration.
func RecordUpdate(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(action, status).Inc()
	updateDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordStateTransition tracks FSM transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordDelivery counts a single broadcast delivery attempt.
func RecordDelivery(ok bool) {
	status := "sent"
	if !ok {
		status = "failed"
	}

	broadcastDeliveriesTotal.WithLabelValues(status).Inc()
}

// RecordBroadcastRun counts a completed broadcast and its duration.
func RecordBroadcastRun(duration time.Duration) {
	broadcastRunsTotal.Inc()
	broadcastDurationSeconds.Observe(duration.Seconds())
}

// RecordSettingsUpdate counts a payment details update.
func RecordSettingsUpdate() {
	settingsUpdatesTotal.Inc()
}

// RecordUserRegistration counts a user registry upsert.
func RecordUserRegistration() {
	userRegistrationsTotal.Inc()
}
