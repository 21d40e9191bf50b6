package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordAnalysis records a completed graph analysis
func (r *Registry) RecordAnalysis(status string, duration time.Duration, nodes, edges int) {
	r.AnalysesTotal.WithLabelValues(status).Inc()
	r.AnalysisDuration.Observe(duration.Seconds())
	r.GraphNodes.Observe(float64(nodes))
	r.GraphEdges.Observe(float64(edges))
}

// RecordUpload records a dataset upload
func (r *Registry) RecordUpload(bytes int64) {
	r.UploadsTotal.Inc()
	r.UploadBytes.Observe(float64(bytes))
}

// RecordAuthFailure records a failed authentication attempt
func (r *Registry) RecordAuthFailure() {
	r.AuthFailuresTotal.Inc()
}

// Handler returns an HTTP handler exposing the registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
