package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	listings      *prometheus.CounterVec
	statsRuns     *prometheus.CounterVec
	statsDuration prometheus.Histogram
)

// Register creates the collectors and adds them to the default registry.
// Calls after the first are no-ops.
func Register() {
	registerOnce.Do(func() {
		listings = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "index_listing",
			Name:      "listings_total",
			Help:      "Directory listings served, by outcome.",
		}, []string{"result"})

		statsRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "index_listing",
			Name:      "stats_runs_total",
			Help:      "Stats requests, by outcome.",
		}, []string{"result"})

		statsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "index_listing",
			Name:      "stats_duration_seconds",
			Help:      "Wall time of external stats tool runs.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		})

		prometheus.MustRegister(listings, statsRuns, statsDuration)
	})
}

// ObserveListing counts one listing. result is "ok" or "invalid_path".
func ObserveListing(result string) {
	if listings == nil {
		return
	}
	listings.WithLabelValues(result).Inc()
}

// ObserveStats counts one stats request. Only runs that reached the tool
// contribute to the duration histogram.
func ObserveStats(result string, ran bool, elapsed time.Duration) {
	if statsRuns == nil {
		return
	}
	statsRuns.WithLabelValues(result).Inc()
	if ran {
		statsDuration.Observe(elapsed.Seconds())
	}
}
