package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the handicap timeline.
type Metrics struct {
	RecordsInserted   prometheus.Counter
	RecordsSuperseded prometheus.Counter
	RecordsDeleted    prometheus.Counter
	InsertDuration    prometheus.Histogram
	CacheLookups      *prometheus.CounterVec
}

// New registers the handicap metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsInserted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_handicap_records_inserted_total",
			Help: "Total number of handicap records spliced into a timeline",
		}),
		RecordsSuperseded: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_handicap_records_superseded_total",
			Help: "Handicap records replaced by an insertion with the same start date",
		}),
		RecordsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_handicap_records_deleted_total",
			Help: "Total number of handicap records deleted",
		}),
		InsertDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stableford_handicap_insert_duration_seconds",
			Help:    "Duration of timeline insertions including the per-player transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stableford_handicap_current_cache_lookups_total",
			Help: "Current-handicap cache lookups by result (hit, miss, error, stale)",
		}, []string{"result"}),
	}
}

// ObserveInsert records the duration of an insertion.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveInsert(start time.Time) {
	m.InsertDuration.Observe(time.Since(start).Seconds())
}
