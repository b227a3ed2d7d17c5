// Package syncq batches captured telemetry for delivery to the collector.
package syncq

import (
	"time"

	"github.com/acumen-hq/acumen/pkg/logger"
)

// Option applies a configuration option to the Queue.
type Option func(*Queue)

// WithBatchSize sets the size threshold that triggers a flush.
func WithBatchSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.batchSize = n
		}
	}
}

// WithFlushInterval sets how long the first un-flushed item may wait
// before a timer-triggered flush.
func WithFlushInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.flushInterval = d
		}
	}
}

// WithTickInterval sets how often the Run loop re-checks the timer
// trigger.
func WithTickInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.tickInterval = d
		}
	}
}

// WithClock injects a clock, letting tests drive batching triggers
// without real timers.
func WithClock(c Clock) Option {
	return func(q *Queue) {
		if c != nil {
			q.clock = c
		}
	}
}

// WithOnline sets the initial connectivity view.
func WithOnline(online bool) Option {
	return func(q *Queue) {
		q.online = online
	}
}

// WithLogger sets a custom logger for the queue.
func WithLogger(l logger.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.log = l
		}
	}
}
