package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/notifykit/notifykit/pkg/dispatch"
	"github.com/notifykit/notifykit/pkg/logger"
	"github.com/notifykit/notifykit/pkg/notification"
)

// Dispatcher routes a notification to its applicable channels. It is
// satisfied by dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, n notification.Notification, prefs notification.Preferences) ([]dispatch.DeliveryResult, error)
}

// Stats is a point-in-time snapshot of queue state.
type Stats struct {
	Pending         int     `json:"pending"`
	InFlight        int     `json:"in_flight"`
	DeadLetter      int     `json:"dead_letter"`
	AvgProcessingMs float64 `json:"avg_processing_ms"`
}

// Queue buffers notifications and drives their delivery through a
// Dispatcher. Items are claimed highest priority first, retried with a
// configurable backoff ladder, and moved to a bounded dead letter
// buffer once their attempts are exhausted.
type Queue struct {
	dispatcher Dispatcher
	cfg        Config
	logger     *slog.Logger

	mu        sync.Mutex
	pending   store
	dlq       *deadLetter
	inflight  map[string]*Item
	seq       uint64
	processed uint64
	procTotal time.Duration

	hub eventHub

	sem    chan struct{}
	wg     sync.WaitGroup
	runMu  sync.Mutex
	stopMu sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc

	stopping atomic.Bool
	paused   atomic.Bool

	now func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// New creates a delivery queue over the given dispatcher.
func New(dispatcher Dispatcher, cfg Config, opts ...Option) (*Queue, error) {
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	q := &Queue{
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     slog.Default(),
		dlq:        newDeadLetter(cfg.DeadLetterCapacity),
		inflight:   make(map[string]*Item),
		sem:        make(chan struct{}, cfg.MaxConcurrent),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Enqueue admits a notification for delivery. It returns the queued
// item, or ErrQueueFull when the pending buffer is at capacity.
func (q *Queue) Enqueue(ctx context.Context, n notification.Notification, prefs notification.Preferences, opts ...EnqueueOption) (Item, error) {
	n.Normalize()
	if err := n.Validate(); err != nil {
		return Item{}, err
	}

	it := &Item{
		ID:           uuid.NewString(),
		Notification: n,
		Preferences:  prefs,
		Priority:     priorityFor(n.Severity),
		MaxAttempts:  q.cfg.MaxAttempts,
		CreatedAt:    q.now(),
	}
	for _, opt := range opts {
		opt(it)
	}

	q.mu.Lock()
	if q.pending.len() >= q.cfg.MaxPending {
		q.mu.Unlock()
		q.publish(Event{Type: EventQueueFull, NotificationID: n.ID, Reason: "pending buffer at capacity"})
		q.logger.WarnContext(ctx, "delivery queue full, rejecting notification",
			logger.NotificationID(n.ID),
			slog.Int("max_pending", q.cfg.MaxPending))
		return Item{}, ErrQueueFull
	}
	q.seq++
	it.seq = q.seq
	q.pending.add(it)
	q.mu.Unlock()

	q.publish(Event{Type: EventItemAdded, ItemID: it.ID, NotificationID: n.ID})
	q.logger.DebugContext(ctx, "notification enqueued",
		logger.NotificationID(n.ID),
		slog.String("item_id", it.ID),
		slog.Int("priority", int(it.Priority)))

	return *it, nil
}

// Start begins claiming and dispatching items in the background.
func (q *Queue) Start(ctx context.Context) error {
	q.runMu.Lock()
	if q.cancel != nil {
		q.runMu.Unlock()
		return fmt.Errorf("queue already started")
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.runMu.Unlock()

	q.stopping.Store(false)

	go q.run()

	q.logger.Info("delivery queue started",
		slog.Int("max_concurrent", cap(q.sem)),
		slog.Duration("tick_interval", q.cfg.TickInterval))
	return nil
}

// Stop halts claiming, waits for in-flight deliveries to complete, and
// closes all event subscriptions.
func (q *Queue) Stop() error {
	q.runMu.Lock()
	if q.cancel == nil {
		q.runMu.Unlock()
		return fmt.Errorf("queue not started")
	}

	q.stopMu.Lock()
	q.stopping.Store(true)
	q.stopMu.Unlock()

	cancel := q.cancel
	q.cancel = nil
	q.runMu.Unlock()

	cancel()
	q.wg.Wait()
	q.hub.close()

	q.logger.Info("delivery queue stopped")
	return nil
}

// Run returns a function suitable for errgroup: it starts the queue,
// blocks until ctx is cancelled, then stops it.
func (q *Queue) Run(ctx context.Context) func() error {
	return func() error {
		if err := q.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return q.Stop()
	}
}

// Pause suspends claiming. Enqueue and in-flight deliveries are
// unaffected.
func (q *Queue) Pause() {
	q.paused.Store(true)
	q.logger.Info("delivery queue paused")
}

// Resume restarts claiming after Pause.
func (q *Queue) Resume() {
	q.paused.Store(false)
	q.logger.Info("delivery queue resumed")
}

// Subscribe returns a subscription delivering queue events. With no
// types, all events are delivered; otherwise only the listed ones.
// Slow consumers lose events rather than blocking the queue.
func (q *Queue) Subscribe(types ...EventType) *Subscription {
	return q.hub.subscribe(types...)
}

// Stats returns a snapshot of queue state.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := Stats{
		Pending:    q.pending.len(),
		InFlight:   len(q.inflight),
		DeadLetter: q.dlq.len(),
	}
	if q.processed > 0 {
		s.AvgProcessingMs = float64(q.procTotal.Milliseconds()) / float64(q.processed)
	}
	return s
}

// ListDeadLetter returns copies of all dead letter entries, oldest
// first.
func (q *Queue) ListDeadLetter() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dlq.list()
}

// RequeueDeadLetter moves dead letter entries back into the pending
// buffer with a fresh attempt budget. With no IDs, all entries are
// requeued. Entries that do not fit within the pending capacity stay
// in the dead letter buffer. Returns how many were requeued.
func (q *Queue) RequeueDeadLetter(ids ...string) int {
	q.mu.Lock()
	taken := q.dlq.take(ids...)
	requeued := 0
	var events []Event
	for i, it := range taken {
		if q.pending.len() >= q.cfg.MaxPending {
			for _, rest := range taken[i:] {
				q.dlq.push(rest)
			}
			break
		}
		it.Attempts = 0
		it.LastError = ""
		it.NextEligibleAt = time.Time{}
		it.DeadLetteredAt = time.Time{}
		q.seq++
		it.seq = q.seq
		q.pending.add(it)
		requeued++
		events = append(events, Event{Type: EventItemAdded, ItemID: it.ID, NotificationID: it.Notification.ID, Reason: "requeued from dead letter"})
	}
	q.mu.Unlock()

	for _, e := range events {
		q.publish(e)
	}
	if requeued > 0 {
		q.logger.Info("dead letter entries requeued", slog.Int("count", requeued))
	}
	return requeued
}

// ClearDeadLetter drops all dead letter entries and returns how many
// were removed.
func (q *Queue) ClearDeadLetter() int {
	q.mu.Lock()
	n := q.dlq.clear()
	q.mu.Unlock()

	if n > 0 {
		q.logger.Info("dead letter buffer cleared", slog.Int("count", n))
	}
	return n
}

// run is the main claim loop.
func (q *Queue) run() {
	ticker := time.NewTicker(q.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			if q.paused.Load() {
				continue
			}
			q.fill()
		}
	}
}

// fill claims eligible items until either the concurrency ceiling is
// reached or nothing is eligible.
func (q *Queue) fill() {
	for {
		select {
		case q.sem <- struct{}{}:
		default:
			return
		}

		it := q.claim()
		if it == nil {
			<-q.sem
			return
		}

		q.stopMu.Lock()
		if q.stopping.Load() {
			q.stopMu.Unlock()
			q.release(it)
			<-q.sem
			return
		}
		q.wg.Add(1)
		q.stopMu.Unlock()

		go func() {
			defer q.wg.Done()
			defer func() { <-q.sem }()
			q.process(it)
		}()
	}
}

func (q *Queue) claim() *Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	it := q.pending.claim(q.now())
	if it == nil {
		return nil
	}
	q.inflight[it.ID] = it
	return it
}

// release returns a claimed item to the pending buffer unprocessed.
func (q *Queue) release(it *Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inflight, it.ID)
	q.pending.add(it)
}

func (q *Queue) process(it *Item) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatch panicked",
				slog.String("item_id", it.ID),
				logger.NotificationID(it.Notification.ID),
				slog.Any("panic", r))
			q.fail(it, fmt.Sprintf("panic during dispatch: %v", r), time.Since(start))
		}
	}()

	if it.Notification.IsExpired() {
		q.mu.Lock()
		delete(q.inflight, it.ID)
		q.mu.Unlock()

		q.publish(Event{Type: EventItemExpired, ItemID: it.ID, NotificationID: it.Notification.ID, Attempts: it.Attempts})
		q.logger.Info("expired notification discarded",
			slog.String("item_id", it.ID),
			logger.NotificationID(it.Notification.ID))
		return
	}

	// Deliberately not tied to the queue lifecycle context so that
	// graceful shutdown lets in-flight deliveries finish. Providers
	// enforce their own timeouts.
	results, err := q.dispatcher.Dispatch(context.Background(), it.Notification, it.Preferences)
	duration := time.Since(start)

	switch {
	case err == nil && len(results) == 0:
		// No channel admitted the notification; nothing to deliver
		// and nothing to retry.
		q.mu.Lock()
		delete(q.inflight, it.ID)
		q.processed++
		q.procTotal += duration
		q.mu.Unlock()

		q.logger.Info("notification discarded, no applicable channel",
			slog.String("item_id", it.ID),
			logger.NotificationID(it.Notification.ID))

	case dispatch.AnySucceeded(results):
		q.mu.Lock()
		delete(q.inflight, it.ID)
		q.processed++
		q.procTotal += duration
		q.mu.Unlock()

		q.publish(Event{Type: EventItemDispatched, ItemID: it.ID, NotificationID: it.Notification.ID, Attempts: it.Attempts + 1})
		q.logger.Info("notification delivered",
			slog.String("item_id", it.ID),
			logger.NotificationID(it.Notification.ID),
			slog.Duration("duration", duration))

	default:
		q.fail(it, failureReason(results, err), duration)
	}
}

// fail records a delivery failure, scheduling a retry or moving the
// item to the dead letter buffer when its attempts are exhausted.
func (q *Queue) fail(it *Item, reason string, duration time.Duration) {
	it.Attempts++
	it.LastError = reason

	if it.Attempts >= it.MaxAttempts {
		it.DeadLetteredAt = q.now()

		q.mu.Lock()
		delete(q.inflight, it.ID)
		evicted := q.dlq.push(it)
		q.processed++
		q.procTotal += duration
		q.mu.Unlock()

		q.publish(Event{Type: EventItemDeadLettered, ItemID: it.ID, NotificationID: it.Notification.ID, Attempts: it.Attempts, Reason: reason})
		q.logger.Warn("notification moved to dead letter buffer",
			slog.String("item_id", it.ID),
			logger.NotificationID(it.Notification.ID),
			slog.Int("attempts", it.Attempts),
			slog.String("error", reason))
		if evicted != nil {
			q.logger.Warn("dead letter buffer full, oldest entry evicted",
				slog.String("item_id", evicted.ID),
				logger.NotificationID(evicted.Notification.ID))
		}
		return
	}

	delay := q.cfg.retryDelay(it.Attempts)
	it.NextEligibleAt = q.now().Add(delay)

	q.mu.Lock()
	delete(q.inflight, it.ID)
	q.pending.add(it)
	q.mu.Unlock()

	q.publish(Event{Type: EventItemRetried, ItemID: it.ID, NotificationID: it.Notification.ID, Attempts: it.Attempts, Reason: reason})
	q.logger.Warn("delivery failed, retry scheduled",
		slog.String("item_id", it.ID),
		logger.NotificationID(it.Notification.ID),
		slog.Int("attempts", it.Attempts),
		slog.Duration("retry_in", delay),
		slog.String("error", reason))
}

func (q *Queue) publish(e Event) {
	e.Timestamp = q.now()
	q.hub.publish(e)
}

// failureReason summarizes why a dispatch failed: the dispatch error
// when there is one, otherwise the first per-channel failure.
func failureReason(results []dispatch.DeliveryResult, err error) string {
	if err != nil {
		return err.Error()
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Sprintf("%s: %s", r.Channel, r.Error)
		}
	}
	return "delivery failed"
}
