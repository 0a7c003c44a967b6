package redis

import (
	"context"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	goredis "github.com/redis/go-redis/v9"
)

var (
	redisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_requests_total",
			Help: "Total number of Redis commands by name.",
		},
		[]string{"command"},
	)
	redisErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of Redis command errors by name.",
		},
		[]string{"command"},
	)
	redisRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_request_duration_seconds",
			Help:    "Redis command latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

// metricsHook instruments every Redis command issued by the client.
type metricsHook struct{}

func newMetricsHook() goredis.Hook {
	return metricsHook{}
}

func (metricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (metricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		observe(cmd.Name(), err, time.Since(start))
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		observe("pipeline", err, time.Since(start))
		return err
	}
}

func observe(command string, err error, elapsed time.Duration) {
	redisRequestsTotal.WithLabelValues(command).Inc()
	redisRequestDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	if err != nil && err != goredis.Nil {
		redisErrorsTotal.WithLabelValues(command).Inc()
	}
}
