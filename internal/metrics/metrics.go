// Package metrics defines the Prometheus instruments PromptVault exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the application's Prometheus instruments.
type Metrics struct {
	FilterPasses   prometheus.Counter
	FilterDuration prometheus.Histogram
	MemoHits       prometheus.Counter
	CatalogEntries prometheus.Gauge
	CatalogDropped prometheus.Gauge
	LikeToggles    prometheus.Counter
}

// New registers the instruments with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FilterPasses: factory.NewCounter(prometheus.CounterOpts{
			Name: "promptvault_filter_passes_total",
			Help: "Number of full filter+sort passes over the catalog.",
		}),
		FilterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "promptvault_filter_duration_seconds",
			Help:    "Duration of filter+sort passes.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		MemoHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "promptvault_filter_memo_hits_total",
			Help: "Filter requests served from the memoized previous pass.",
		}),
		CatalogEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "promptvault_catalog_entries",
			Help: "Entries in the current catalog snapshot.",
		}),
		CatalogDropped: factory.NewGauge(prometheus.GaugeOpts{
			Name: "promptvault_catalog_dropped_records",
			Help: "Raw records dropped during the last normalization.",
		}),
		LikeToggles: factory.NewCounter(prometheus.CounterOpts{
			Name: "promptvault_like_toggles_total",
			Help: "Like/unlike actions performed.",
		}),
	}
}
