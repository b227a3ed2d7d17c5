package syncq

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fakeTransport records sent batches and fails the first failN sends.
type fakeTransport struct {
	mu      sync.Mutex
	batches [][]event.Record
	failN   int
}

func (t *fakeTransport) Send(_ context.Context, batch []event.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failN > 0 {
		t.failN--
		return errors.New("connection refused")
	}
	cp := make([]event.Record, len(batch))
	copy(cp, batch)
	t.batches = append(t.batches, cp)
	return nil
}

func (t *fakeTransport) sent() [][]event.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.batches
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func rec(id string) event.Record {
	return event.Record{
		ID:        id,
		UserID:    "u1",
		Bucket:    event.BucketVisit,
		Component: "persona_lab",
		Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestQueue_StateTransitions(t *testing.T) {
	q := New(&fakeTransport{})
	ctx := context.Background()

	if got := q.State(); got != StateIdle {
		t.Fatalf("expected idle, got %v", got)
	}

	q.Enqueue(ctx, rec("e1"))
	if got := q.State(); got != StateAccumulating {
		t.Fatalf("expected accumulating, got %v", got)
	}
	if l := q.Len(); l != 1 {
		t.Fatalf("expected length 1, got %d", l)
	}

	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if got := q.State(); got != StateIdle {
		t.Fatalf("expected idle after flush, got %v", got)
	}
	if l := q.Len(); l != 0 {
		t.Fatalf("expected empty queue, got %d", l)
	}
}

func TestQueue_FlushSendsFIFO(t *testing.T) {
	transport := &fakeTransport{}
	q := New(transport)
	ctx := context.Background()

	ids := []string{"e1", "e2", "e3"}
	for _, id := range ids {
		q.Enqueue(ctx, rec(id))
	}
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	sent := transport.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(sent))
	}
	if len(sent[0]) != len(ids) {
		t.Fatalf("expected %d events, got %d", len(ids), len(sent[0]))
	}
	for i, id := range ids {
		if sent[0][i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, sent[0][i].ID)
		}
	}
}

func TestQueue_FailedFlushRequeuesWholeBatch(t *testing.T) {
	transport := &fakeTransport{failN: 1}
	q := New(transport)
	ctx := context.Background()

	q.Enqueue(ctx, rec("e1"))
	q.Enqueue(ctx, rec("e2"))

	if err := q.Flush(ctx); !errors.Is(err, ErrSend) {
		t.Fatalf("expected ErrSend, got %v", err)
	}
	if l := q.Len(); l != 2 {
		t.Fatalf("expected both events requeued, got %d", l)
	}
	if r := q.Retries(); r != 1 {
		t.Fatalf("expected 1 retry, got %d", r)
	}
	if got := q.State(); got != StateAccumulating {
		t.Fatalf("expected accumulating after failure, got %v", got)
	}

	// The retry delivers the identical batch in the original order.
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("retry flush failed: %v", err)
	}
	sent := transport.sent()
	if len(sent) != 1 || len(sent[0]) != 2 {
		t.Fatalf("expected one 2-event batch, got %v", sent)
	}
	if sent[0][0].ID != "e1" || sent[0][1].ID != "e2" {
		t.Fatalf("batch order broken: %s, %s", sent[0][0].ID, sent[0][1].ID)
	}
	if r := q.Retries(); r != 0 {
		t.Fatalf("expected retries reset, got %d", r)
	}
}

func TestQueue_OfflineKeepsEvents(t *testing.T) {
	transport := &fakeTransport{}
	q := New(transport, WithOnline(false))
	ctx := context.Background()

	q.Enqueue(ctx, rec("e1"))
	q.Enqueue(ctx, rec("e2"))

	if err := q.Flush(ctx); !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
	if len(transport.sent()) != 0 {
		t.Fatal("transport must not be touched while offline")
	}
	if l := q.Len(); l != 2 {
		t.Fatalf("offline flush lost events: %d left", l)
	}

	q.SetOnline(true)
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush after reconnect failed: %v", err)
	}
	sent := transport.sent()
	if len(sent) != 1 || len(sent[0]) != 2 {
		t.Fatalf("expected full batch after reconnect, got %v", sent)
	}
}

func TestQueue_BatchSizeTriggersRunFlush(t *testing.T) {
	transport := &fakeTransport{}
	q := New(transport, WithBatchSize(3), WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)
	defer q.Stop()

	for i := 0; i < 3; i++ {
		q.Enqueue(ctx, rec(string(rune('a'+i))))
	}

	deadline := time.After(2 * time.Second)
	for {
		if len(transport.sent()) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("batch-size trigger never flushed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if l := q.Len(); l != 0 {
		t.Fatalf("expected drained queue, got %d", l)
	}
}

func TestQueue_IntervalTriggersRunFlush(t *testing.T) {
	transport := &fakeTransport{}
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	q := New(transport,
		WithBatchSize(100),
		WithFlushInterval(30*time.Second),
		WithTickInterval(5*time.Millisecond),
		WithClock(clock),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)
	defer q.Stop()

	q.Enqueue(ctx, rec("e1"))

	// Below the interval nothing should flush.
	time.Sleep(30 * time.Millisecond)
	if len(transport.sent()) != 0 {
		t.Fatal("flushed before the interval elapsed")
	}

	clock.advance(31 * time.Second)

	deadline := time.After(2 * time.Second)
	for {
		if len(transport.sent()) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("interval trigger never flushed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestQueue_ReconnectTriggersRunFlush(t *testing.T) {
	transport := &fakeTransport{}
	q := New(transport, WithOnline(false), WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)
	defer q.Stop()

	q.Enqueue(ctx, rec("e1"))
	time.Sleep(20 * time.Millisecond)
	if len(transport.sent()) != 0 {
		t.Fatal("flushed while offline")
	}

	q.SetOnline(true)

	deadline := time.After(2 * time.Second)
	for {
		if len(transport.sent()) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reconnect trigger never flushed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestQueue_EmptyFlushIsNoop(t *testing.T) {
	transport := &fakeTransport{}
	q := New(transport)

	if err := q.Flush(context.Background()); err != nil {
		t.Fatalf("empty flush failed: %v", err)
	}
	if len(transport.sent()) != 0 {
		t.Fatal("empty flush must not touch the transport")
	}
	if got := q.State(); got != StateIdle {
		t.Fatalf("expected idle, got %v", got)
	}
}
