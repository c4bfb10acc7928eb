package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for round scoring.
type Metrics struct {
	RoundsCreated   prometheus.Counter
	RoundsUpdated   prometheus.Counter
	RoundsDeleted   prometheus.Counter
	ScoresRecorded  prometheus.Counter
	ScoresDeleted   prometheus.Counter
	RoundsFinalized prometheus.Counter
	StablefordTotal prometheus.Histogram
}

// New registers the round metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RoundsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_rounds_created_total",
			Help: "Total number of rounds started",
		}),
		RoundsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_rounds_updated_total",
			Help: "Total number of round date or handicap edits",
		}),
		RoundsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_rounds_deleted_total",
			Help: "Total number of rounds removed with their scores",
		}),
		ScoresRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_scores_recorded_total",
			Help: "Total number of hole scores recorded or corrected",
		}),
		ScoresDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_scores_deleted_total",
			Help: "Total number of hole scores removed",
		}),
		RoundsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "stableford_rounds_finalized_total",
			Help: "Total number of finalize calls that completed",
		}),
		StablefordTotal: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stableford_round_points",
			Help:    "Stableford points of finalized rounds",
			Buckets: prometheus.LinearBuckets(0, 6, 10),
		}),
	}
}
