package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"
)

// Sink is the transport-agnostic collaborator a Broadcaster fans out to —
// an RPC stream, a websocket hub, or (in tests) a recording stub.
type Sink interface {
	Publish(tableID, event string, payload *StatePayload) error
}

// RateLimitConfig bounds how many state_update events one table may emit
// per second. reconcile events are never subject to this limit.
type RateLimitConfig struct {
	MaxUpdatesPerSecond int
}

// DefaultRateLimitConfig matches §6's broadcaster configuration group.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{MaxUpdatesPerSecond: 20}
}

// Config configures a Broadcaster.
type Config struct {
	QueueDepth  int // per-table state_update queue depth before drop-oldest kicks in
	WorkerCount int
	RateLimit   RateLimitConfig
}

// DefaultConfig mirrors a typical small deployment: a handful of workers,
// a shallow per-table update queue since reconcile always supersedes it.
func DefaultConfig() Config {
	return Config{QueueDepth: 32, WorkerCount: 4, RateLimit: DefaultRateLimitConfig()}
}

type queuedEvent struct {
	tableID string
	event   string // "state_update" or "reconcile"
	payload *StatePayload
}

// tableQueue holds one table's pending reconcile and state_update events.
// reconcile events are appended unconditionally and drained first; the
// state_update slice is capped at maxUpdates and drops its oldest entry
// when a push would exceed that cap, per §4.12/§5's "drop-oldest
// state_update, never drop reconcile" rule — a channel can't express that
// eviction policy, so the queue is a plain mutex-guarded slice pair
// instead of the teacher's single `chan *GameEvent`.
type tableQueue struct {
	mu          sync.Mutex
	reconciles  []queuedEvent
	updates     []queuedEvent
	maxUpdates  int
	seq         uint64
}

func (q *tableQueue) pushReconcile(e queuedEvent) {
	q.mu.Lock()
	q.reconciles = append(q.reconciles, e)
	q.mu.Unlock()
}

func (q *tableQueue) pushUpdate(e queuedEvent) {
	q.mu.Lock()
	if len(q.updates) >= q.maxUpdates {
		q.updates = q.updates[1:]
	}
	q.updates = append(q.updates, e)
	q.mu.Unlock()
}

// popAndPublish pops this table's next event and hands it to sink while
// still holding the queue's own lock, so two workers draining the same
// table can never interleave their Publish calls and reorder its sequence.
func (q *tableQueue) popAndPublish(sink Sink) (e queuedEvent, popped bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.reconciles) > 0 {
		e = q.reconciles[0]
		q.reconciles = q.reconciles[1:]
	} else if len(q.updates) > 0 {
		e = q.updates[0]
		q.updates = q.updates[1:]
	} else {
		return queuedEvent{}, false, nil
	}
	err = sink.Publish(e.tableID, e.event, e.payload)
	return e, true, err
}

func (q *tableQueue) nextSequence() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	return q.seq
}

// Broadcaster sequences, rate-limits, and sanitises table events before
// handing them to a Sink, via a fixed worker pool — grounded on
// pkg/server/events.go's EventProcessor/eventWorker.
type Broadcaster struct {
	cfg  Config
	sink Sink
	log  slog.Logger

	limiter *rateLimiter

	mu     sync.Mutex
	queues map[string]*tableQueue

	signal   chan struct{}
	stopChan chan struct{}
	group    *errgroup.Group
	started  bool
}

// New builds a Broadcaster. sink receives every delivered event.
func New(cfg Config, sink Sink, log slog.Logger) *Broadcaster {
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 32
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	return &Broadcaster{
		cfg:     cfg,
		sink:    sink,
		log:     log,
		limiter: newRateLimiter(cfg.RateLimit),
		queues:  make(map[string]*tableQueue),
		signal:  make(chan struct{}, 1),
	}
}

// Start launches the worker pool and the rate-limit cleanup sweep as
// errgroup goroutines that Stop waits on. Workers do not recover panics and
// always return nil, and Stop discards the group's error.
func (b *Broadcaster) Start() {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.stopChan = make(chan struct{})
	group, _ := errgroup.WithContext(context.Background())
	b.group = group
	b.mu.Unlock()

	for i := 0; i < b.cfg.WorkerCount; i++ {
		b.group.Go(func() error {
			b.worker()
			return nil
		})
	}
	b.group.Go(func() error {
		b.sweepLoop()
		return nil
	})
}

// Stop drains in-flight work and halts the pool.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return
	}
	b.started = false
	close(b.stopChan)
	group := b.group
	b.mu.Unlock()
	_ = group.Wait()
}

func (b *Broadcaster) queueFor(tableID string) *tableQueue {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[tableID]
	if !ok {
		q = &tableQueue{maxUpdates: b.cfg.QueueDepth}
		b.queues[tableID] = q
	}
	return q
}

// PublishStateUpdate enqueues a delta event, rejecting (not queueing, not
// sequencing) it if the table is over its per-second rate limit.
func (b *Broadcaster) PublishStateUpdate(tableID string, payload *StatePayload) (accepted bool) {
	if !b.limiter.allow(tableID) {
		b.log.Debugf("broadcast: rate limit exceeded for table %s, dropping state_update", tableID)
		return false
	}
	q := b.queueFor(tableID)
	payload.Sequence = q.nextSequence()
	q.pushUpdate(queuedEvent{tableID: tableID, event: "state_update", payload: payload})
	b.wake()
	return true
}

// PublishReconcile enqueues a full-state event. Never rate-limited, never
// dropped.
func (b *Broadcaster) PublishReconcile(tableID string, payload *StatePayload) {
	q := b.queueFor(tableID)
	payload.Sequence = q.nextSequence()
	q.pushReconcile(queuedEvent{tableID: tableID, event: "reconcile", payload: payload})
	b.wake()
}

func (b *Broadcaster) wake() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *Broadcaster) worker() {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopChan:
			return
		case <-b.signal:
			b.drainOnce()
		case <-ticker.C:
			b.drainOnce()
		}
	}
}

// drainOnce pops and delivers at most one event per known table, so the
// worker pool round-robins across tables instead of starving one behind a
// chatty neighbor. Each table's pop-then-publish runs under that table's
// own queue lock (popAndPublish), so even when multiple workers call
// drainOnce concurrently, two events for the same table are never published
// out of sequence order.
func (b *Broadcaster) drainOnce() {
	b.mu.Lock()
	tables := make([]string, 0, len(b.queues))
	for id := range b.queues {
		tables = append(tables, id)
	}
	b.mu.Unlock()

	for _, id := range tables {
		q := b.queueFor(id)
		e, popped, err := q.popAndPublish(b.sink)
		if !popped {
			continue
		}
		if err != nil {
			b.log.Errorf("broadcast: publish failed for table %s event %s: %v", e.tableID, e.event, err)
		}
	}
}

func (b *Broadcaster) sweepLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			b.limiter.sweep()
		}
	}
}
