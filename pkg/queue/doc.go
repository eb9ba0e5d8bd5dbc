// Package queue buffers notifications and drives their delivery.
//
// Items enter through Enqueue with a priority derived from the
// notification's severity (overridable per item). A background loop
// ticks on a fixed interval, claiming the highest-priority eligible
// item for each free worker slot up to a concurrency ceiling. Ties
// between equal priorities resolve in arrival order.
//
// A claimed item is handed to the Dispatcher. Delivery counts as a
// success when at least one channel accepted it. Failures are retried
// on a configurable backoff ladder until the item's attempt budget is
// spent, at which point it moves to a bounded dead letter buffer where
// operators can inspect, requeue, or discard it. Expired notifications
// are discarded at claim time without consuming an attempt.
//
// Lifecycle transitions are published as events; use Subscribe to
// observe them. Event delivery is best effort: slow consumers lose
// events rather than blocking the queue.
//
// Usage:
//
//	q, err := queue.New(dispatcher, queue.Config{})
//	if err != nil { ... }
//	if err := q.Start(ctx); err != nil { ... }
//	defer q.Stop()
//
//	item, err := q.Enqueue(ctx, n, prefs, queue.WithPriority(queue.PriorityHigh))
package queue
