package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// PROMETHEUS METRICS
// =============================================================================

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_engine_searches_total",
		Help: "Searches run, by outcome",
	}, []string{"outcome"})

	searchNodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_engine_nodes_total",
		Help: "Search nodes visited",
	})

	ttProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_engine_tt_probes_total",
		Help: "Transposition table probes, by result",
	}, []string{"result"})

	searchDepthHist = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hive_engine_search_depth",
		Help:    "Deepest completed iteration per search",
		Buckets: prometheus.LinearBuckets(1, 1, 12),
	})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hive_engine_search_duration_seconds",
		Help:    "Wall time per search",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
	})

	treeStrapSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_engine_treestrap_samples_total",
		Help: "Interior nodes collected as TreeStrap samples",
	})
)

// Search outcomes
const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
	outcomeForced    = "forced"
)

func recordSearch(outcome string, res *SearchResult) {
	searchesTotal.WithLabelValues(outcome).Inc()
	searchNodesTotal.Add(float64(res.Nodes))
	ttProbesTotal.WithLabelValues("hit").Add(float64(res.Stats.TTProbeHits))
	ttProbesTotal.WithLabelValues("miss").Add(float64(res.Stats.TTProbeMisses))
	searchDepthHist.Observe(float64(res.Depth))
	searchDuration.Observe(res.Elapsed.Seconds())
	treeStrapSamplesTotal.Add(float64(len(res.Samples)))
}
