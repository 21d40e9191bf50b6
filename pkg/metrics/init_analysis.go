package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sociogram_analyses_total",
			Help: "Total number of graph analyses by outcome",
		},
		[]string{"status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sociogram_analysis_duration_seconds",
			Help:    "Graph analysis latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sociogram_graph_nodes",
			Help:    "Node counts of analyzed graphs",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sociogram_graph_edges",
			Help:    "Edge counts of analyzed graphs",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	r.UploadsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sociogram_uploads_total",
			Help: "Total number of dataset uploads",
		},
	)

	r.UploadBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sociogram_upload_bytes",
			Help:    "Uploaded dataset sizes in bytes",
			Buckets: []float64{1 << 10, 1 << 14, 1 << 18, 1 << 22, 1 << 24},
		},
	)
}
