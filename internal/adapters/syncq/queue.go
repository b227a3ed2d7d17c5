// Package syncq batches captured telemetry and flushes it to the remote
// collector, surviving flaky connectivity with at-least-once delivery.
//
// The queue is an explicit state machine {idle, accumulating, flushing}.
// A flush is triggered when the batch-size threshold is reached, when the
// flush interval elapses since the first un-flushed item, or when the
// device transitions back online. Callers of Enqueue never await delivery.
package syncq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/pkg/logger"
	"github.com/acumen-hq/acumen/pkg/metrics"
)

// Default batching configuration.
const (
	defaultBatchSize     = 10
	defaultFlushInterval = 30 * time.Second
	defaultTickInterval  = time.Second
)

// State of the queue's flush machine.
type State int

// Queue states.
const (
	StateIdle State = iota
	StateAccumulating
	StateFlushing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateFlushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// Clock abstracts time reads so batching triggers are testable without
// real timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Transport delivers one snapshot batch to the remote collector. An error
// means the whole batch will be redelivered later, so the collector must
// tolerate duplicates per event id.
type Transport interface {
	Send(ctx context.Context, batch []event.Record) error
}

// Queue accumulates records and flushes them in FIFO batches.
type Queue struct {
	mu           sync.Mutex
	pending      []event.Record
	state        State
	online       bool
	retries      int
	firstPending time.Time

	batchSize     int
	flushInterval time.Duration
	tickInterval  time.Duration
	transport     Transport
	clock         Clock
	log           logger.Logger

	flushCh  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a queue flushing through the given transport.
func New(transport Transport, opts ...Option) *Queue {
	q := &Queue{
		state:         StateIdle,
		online:        true,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		tickInterval:  defaultTickInterval,
		transport:     transport,
		clock:         systemClock{},
		flushCh:       make(chan struct{}, 1),
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	metrics.UpdateSyncOnline(q.online)
	return q
}

func (q *Queue) logger() logger.Logger {
	if q.log == nil {
		q.log = logger.Get().Named("syncq")
	}
	return q.log
}

// Enqueue appends a record. Fire-and-forget: delivery success or failure
// is observed only by the queue's own retry logic.
func (q *Queue) Enqueue(ctx context.Context, r event.Record) {
	q.mu.Lock()
	if len(q.pending) == 0 && q.firstPending.IsZero() {
		q.firstPending = q.clock.Now()
	}
	q.pending = append(q.pending, r)
	if q.state == StateIdle {
		q.state = StateAccumulating
	}
	size := len(q.pending)
	online := q.online
	q.mu.Unlock()

	metrics.UpdateSyncQueueSize(size)
	if size >= q.batchSize && online {
		q.signalFlush()
	}
}

// SetOnline records a connectivity transition. Going offline cancels only
// the next transport attempt, never queued data; coming back online
// triggers an immediate flush attempt.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	was := q.online
	q.online = online
	q.mu.Unlock()

	metrics.UpdateSyncOnline(online)
	if online && !was {
		q.signalFlush()
	}
}

// Online reports the queue's current connectivity view.
func (q *Queue) Online() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.online
}

// Len returns the number of un-flushed records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// State returns the current flush-machine state.
func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Retries returns how many consecutive flushes have failed.
func (q *Queue) Retries() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.retries
}

func (q *Queue) signalFlush() {
	select {
	case q.flushCh <- struct{}{}:
	default:
	}
}

// Run drives the timer-based trigger until ctx is canceled or Stop is
// called. Un-flushed events are not lost on shutdown: they remain in the
// durable store until a later successful flush.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)

	ticker := time.NewTicker(q.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		case <-q.flushCh:
			q.flushLogged(ctx)
		case <-ticker.C:
			if q.due() {
				q.flushLogged(ctx)
			}
		}
	}
}

// Stop terminates the Run loop. Safe to call more than once.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stopCh) })
}

// due reports whether the flush interval has elapsed since the first
// un-flushed item.
func (q *Queue) due() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 || !q.online {
		return false
	}
	return q.clock.Now().Sub(q.firstPending) >= q.flushInterval
}

func (q *Queue) flushLogged(ctx context.Context) {
	if err := q.Flush(ctx); err != nil {
		q.logger().Warn(ctx, "flush failed; batch requeued",
			logger.Error(err),
			logger.Int("queued", q.Len()),
			logger.Int("retries", q.Retries()),
		)
	}
}

// Flush snapshots the current queue, clears it, and attempts one send.
// While offline the transport is skipped entirely and queued events stay
// put. On failure the snapshot is prepended back ahead of any records
// enqueued during the send, preserving FIFO order for the retry.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if !q.online {
		q.mu.Unlock()
		return ErrOffline
	}
	if len(q.pending) == 0 {
		q.state = StateIdle
		q.mu.Unlock()
		return nil
	}
	if q.state == StateFlushing {
		// A send is already in progress; the next trigger retries.
		q.mu.Unlock()
		return nil
	}
	batch := q.pending
	first := q.firstPending
	q.pending = nil
	q.firstPending = time.Time{}
	q.state = StateFlushing
	q.mu.Unlock()

	err := q.transport.Send(ctx, batch)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.pending = append(batch, q.pending...)
		q.firstPending = first
		q.retries++
		q.state = StateAccumulating
		metrics.RecordFlushFailure()
		metrics.RecordErrorByComponent("syncq", "transport")
		metrics.UpdateSyncQueueSize(len(q.pending))
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	q.retries = 0
	if len(q.pending) == 0 {
		q.state = StateIdle
	} else {
		q.state = StateAccumulating
	}
	metrics.RecordFlushSuccess(len(batch))
	metrics.UpdateSyncQueueSize(len(q.pending))
	return nil
}
