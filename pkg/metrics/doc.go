// Package metrics exposes delivery queue activity as Prometheus
// metrics.
//
// The Collector subscribes to queue lifecycle events and maintains a
// counter per event type plus gauges mirroring the queue's pending,
// in-flight, and dead letter sizes. Registration uses an explicit
// prometheus.Registerer so tests and multi-queue setups stay isolated.
//
// Usage:
//
//	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
//	collector.Watch(q)
package metrics
