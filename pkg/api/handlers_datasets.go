package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kmcrae/sociogram/pkg/analysis"
	"github.com/kmcrae/sociogram/pkg/datastore"
	"github.com/kmcrae/sociogram/pkg/events"
	"github.com/kmcrae/sociogram/pkg/graph"
	"github.com/kmcrae/sociogram/pkg/logging"
)

// handleUpload accepts a multipart CSV upload, analyzes it and returns the
// full report.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.respondError(w, http.StatusBadRequest, "No selected file")
		return
	}

	path, err := s.store.SaveUpload(header.Filename, file)
	if err != nil {
		if errors.Is(err, datastore.ErrInvalidName) {
			s.respondError(w, http.StatusBadRequest, "Invalid filename")
			return
		}
		s.logger.Error("Failed to save upload", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}
	s.metrics.RecordUpload(header.Size)

	dataset := datastore.SanitizeFilename(header.Filename)
	report, err := s.analyzeFile(path, dataset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// handleSample returns the analysis for a bundled sample dataset, analyzing
// it only when neither the cache nor a snapshot has the report.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/sample/")
	path, err := s.store.SamplePath(name)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Sample file not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	if report, ok := s.cachedReport(name); ok {
		s.respondJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.analyzeFile(path, name)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// handleDatasets lists sample datasets and datasets with cached analyses.
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	samples, err := s.store.ListSamples()
	if err != nil {
		s.logger.Error("Failed to list samples", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	s.respondJSON(w, http.StatusOK, DatasetsResponse{
		Samples:  samples,
		Analyzed: s.cache.Datasets(),
	})
}

// handleAnalysis returns the latest report for a dataset, from the cache or
// a persisted snapshot.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	dataset := strings.TrimPrefix(r.URL.Path, "/analysis/")
	report, ok := s.cachedReport(dataset)
	if !ok {
		s.respondError(w, http.StatusNotFound, "No analysis for dataset")
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// cachedReport returns the report for a dataset from the in-memory cache,
// falling back to an on-disk snapshot from an earlier run. Snapshot hits are
// re-cached so later reads stay in memory.
func (s *Server) cachedReport(dataset string) (*analysis.Report, bool) {
	if report, ok := s.cache.Report(dataset); ok {
		return report, true
	}

	var report analysis.Report
	if err := s.store.LoadSnapshot(dataset, &report); err != nil {
		if !errors.Is(err, datastore.ErrNotFound) {
			s.logger.Warn("Failed to load snapshot",
				logging.Dataset(dataset),
				logging.Error(err),
			)
		}
		return nil, false
	}

	s.cache.Put(dataset, &report)
	return &report, true
}

// analyzeFile loads a CSV, runs the full analysis, caches and snapshots the
// report and publishes a completion event.
func (s *Server) analyzeFile(path, dataset string) (*analysis.Report, error) {
	start := time.Now()

	g, err := graph.LoadCSVFile(path)
	if err != nil {
		s.metrics.RecordAnalysis("error", time.Since(start), 0, 0)
		return nil, err
	}

	report, err := s.analyzer.Analyze(g)
	if err != nil {
		stats := g.Stats()
		s.metrics.RecordAnalysis("error", time.Since(start), int(stats.NodeCount), int(stats.EdgeCount))
		return nil, err
	}

	duration := time.Since(start)
	s.metrics.RecordAnalysis("success", duration, report.Metrics.Nodes, report.Metrics.Edges)
	s.cache.Put(dataset, report)

	if err := s.store.SaveSnapshot(dataset, report); err != nil {
		// Snapshot failures do not fail the request
		s.logger.Warn("Failed to snapshot report",
			logging.Dataset(dataset),
			logging.Error(err),
		)
	}

	if s.publisher != nil {
		s.publisher.PublishDatasetAnalyzed(events.DatasetAnalyzed{
			Dataset:    dataset,
			Nodes:      report.Metrics.Nodes,
			Edges:      report.Metrics.Edges,
			Density:    report.Metrics.Density,
			Modularity: report.Metrics.Modularity,
			Duration:   duration.Seconds(),
		})
	}

	return report, nil
}
