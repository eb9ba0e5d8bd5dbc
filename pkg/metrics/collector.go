package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/notifykit/notifykit/pkg/queue"
)

// Queue is the slice of the delivery queue the collector observes.
// Satisfied by *queue.Queue.
type Queue interface {
	Subscribe(types ...queue.EventType) *queue.Subscription
	Stats() queue.Stats
}

// Collector exposes delivery queue activity as Prometheus metrics.
type Collector struct {
	eventsTotal *prometheus.CounterVec

	pending       prometheus.Gauge
	inFlight      prometheus.Gauge
	deadLetter    prometheus.Gauge
	avgProcessing prometheus.Gauge
}

// NewCollector creates a Collector registered with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifykit_queue_events_total",
			Help: "Total queue lifecycle events by type",
		}, []string{"type"}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "notifykit_queue_pending",
			Help: "Items waiting for delivery",
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "notifykit_queue_in_flight",
			Help: "Items currently being delivered",
		}),
		deadLetter: factory.NewGauge(prometheus.GaugeOpts{
			Name: "notifykit_queue_dead_letter",
			Help: "Items in the dead letter buffer",
		}),
		avgProcessing: factory.NewGauge(prometheus.GaugeOpts{
			Name: "notifykit_queue_avg_processing_ms",
			Help: "Average delivery processing time in milliseconds",
		}),
	}
}

// Watch subscribes to queue events and keeps the metrics current. It
// spawns a goroutine that exits when the queue stops and closes its
// subscriptions.
func (c *Collector) Watch(q Queue) {
	sub := q.Subscribe()
	go func() {
		for e := range sub.C() {
			c.Record(e)
			c.SetStats(q.Stats())
		}
	}()
}

// Record counts a single queue event.
func (c *Collector) Record(e queue.Event) {
	c.eventsTotal.WithLabelValues(string(e.Type)).Inc()
}

// SetStats updates the gauges from a queue snapshot.
func (c *Collector) SetStats(s queue.Stats) {
	c.pending.Set(float64(s.Pending))
	c.inFlight.Set(float64(s.InFlight))
	c.deadLetter.Set(float64(s.DeadLetter))
	c.avgProcessing.Set(s.AvgProcessingMs)
}
