package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using Prometheus client library.
// All methods are non-blocking and fire-and-forget.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	// Ingestion metrics
	eventsNormalizedTotal *prometheus.CounterVec
	eventsDroppedTotal    *prometheus.CounterVec
	feedErrorsTotal       *prometheus.CounterVec

	// Refresh metrics
	refreshesTotal     prometheus.Counter
	refreshErrorsTotal prometheus.Counter
	refreshDuration    prometheus.Histogram
	snapshotEvents     prometheus.Gauge

	// Query metrics
	queryDuration *prometheus.HistogramVec

	// Reassignment metrics
	reassignmentsTotal *prometheus.CounterVec
}

// NewPrometheusSink creates a new Prometheus metrics sink.
// If registration fails, it logs a warning and returns a functional sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initIngestMetrics(reg)
	s.initRefreshMetrics(reg)
	s.initQueryMetrics(reg)
	s.initReassignmentMetrics(reg)
	return s
}

func (s *PrometheusSink) initIngestMetrics(reg prometheus.Registerer) {
	s.eventsNormalizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teampulse_ingest_events_normalized_total",
		Help: "Total number of calendar events normalized, by feed source.",
	}, []string{"source"})
	s.eventsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teampulse_ingest_events_dropped_total",
		Help: "Total number of feed entries dropped as unusable, by feed source.",
	}, []string{"source"})
	s.feedErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teampulse_ingest_feed_errors_total",
		Help: "Total number of feeds that failed to load or decode, by feed source.",
	}, []string{"source"})

	s.register(reg, s.eventsNormalizedTotal, "teampulse_ingest_events_normalized_total")
	s.register(reg, s.eventsDroppedTotal, "teampulse_ingest_events_dropped_total")
	s.register(reg, s.feedErrorsTotal, "teampulse_ingest_feed_errors_total")
}

func (s *PrometheusSink) initRefreshMetrics(reg prometheus.Registerer) {
	s.refreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "teampulse_refreshes_total",
		Help: "Total number of calendar refresh runs.",
	})
	s.refreshErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "teampulse_refresh_errors_total",
		Help: "Total number of refresh runs that failed outright.",
	})
	s.refreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "teampulse_refresh_duration_seconds",
		Help:    "Duration of each refresh run in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})
	s.snapshotEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "teampulse_snapshot_events",
		Help: "Number of canonical events in the current snapshot.",
	})

	s.register(reg, s.refreshesTotal, "teampulse_refreshes_total")
	s.register(reg, s.refreshErrorsTotal, "teampulse_refresh_errors_total")
	s.register(reg, s.refreshDuration, "teampulse_refresh_duration_seconds")
	s.register(reg, s.snapshotEvents, "teampulse_snapshot_events")
}

func (s *PrometheusSink) initQueryMetrics(reg prometheus.Registerer) {
	s.queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teampulse_query_duration_seconds",
		Help:    "Duration of availability and suggestion queries in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"endpoint"})

	s.register(reg, s.queryDuration, "teampulse_query_duration_seconds")
}

func (s *PrometheusSink) initReassignmentMetrics(reg prometheus.Registerer) {
	s.reassignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teampulse_reassignments_total",
		Help: "Total number of reassignment commits by outcome.",
	}, []string{"outcome"})

	s.register(reg, s.reassignmentsTotal, "teampulse_reassignments_total")
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

// Ingestion metrics implementation

func (s *PrometheusSink) EventsNormalized(source string, count int) {
	s.eventsNormalizedTotal.WithLabelValues(source).Add(float64(count))
}

func (s *PrometheusSink) EventsDropped(source string, count int) {
	s.eventsDroppedTotal.WithLabelValues(source).Add(float64(count))
}

func (s *PrometheusSink) FeedError(source string) {
	s.feedErrorsTotal.WithLabelValues(source).Inc()
}

// Refresh metrics implementation

func (s *PrometheusSink) RefreshCompleted(duration time.Duration, totalEvents int, err error) {
	s.refreshesTotal.Inc()
	s.refreshDuration.Observe(duration.Seconds())
	if err != nil {
		s.refreshErrorsTotal.Inc()
		return
	}
	s.snapshotEvents.Set(float64(totalEvents))
}

// Query metrics implementation

func (s *PrometheusSink) QueryCompleted(endpoint string, duration time.Duration) {
	s.queryDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Reassignment metrics implementation

func (s *PrometheusSink) ReassignmentExecuted(outcome string) {
	s.reassignmentsTotal.WithLabelValues(outcome).Inc()
}
