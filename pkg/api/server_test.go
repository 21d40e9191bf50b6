package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kmcrae/sociogram/pkg/auth"
	"github.com/kmcrae/sociogram/pkg/config"
	"github.com/kmcrae/sociogram/pkg/datastore"
	"github.com/kmcrae/sociogram/pkg/logging"
	"github.com/kmcrae/sociogram/pkg/metrics"
)

const cycleCSV = "source,target\n1,2\n2,3\n3,4\n4,1\n"

func setupServer(t *testing.T) *Server {
	t.Helper()

	dataDir := t.TempDir()
	samplesDir := filepath.Join(dataDir, "samples")
	if err := os.MkdirAll(samplesDir, 0755); err != nil {
		t.Fatalf("Failed to create samples dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(samplesDir, "cycle.csv"), []byte(cycleCSV), 0644); err != nil {
		t.Fatalf("Failed to write sample: %v", err)
	}

	return setupServerAt(t, dataDir)
}

// setupServerAt builds a server over an existing data directory so tests can
// start a second instance against the same files.
func setupServerAt(t *testing.T, dataDir string) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret-key-that-is-long-enough-123"
	cfg.Data.Dir = dataDir

	logger := logging.NewNopLogger()

	store, err := datastore.NewStore(dataDir, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	users := auth.NewMemoryStore()
	if err := auth.SeedTestUser(context.Background(), users); err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}

	sessions, err := auth.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		t.Fatalf("Failed to create session manager: %v", err)
	}

	srv, err := NewServer(cfg, Deps{
		Logger:   logger,
		Store:    store,
		Users:    users,
		Sessions: sessions,
		Metrics:  metrics.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return srv
}

func loginToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	body := `{"email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", rec.Code, rec.Body.String())
	}

	var response auth.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return response.Token
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	return &buf, writer.FormDataContentType()
}

func TestServer_HealthEndpoint(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Health response is not valid JSON: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", response["status"])
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sociogram_") {
		t.Error("Expected prometheus exposition with sociogram metrics")
	}
}

func TestServer_UploadRequiresAuth(t *testing.T) {
	handler := setupServer(t).Routes()

	body, contentType := multipartUpload(t, "net.csv", cycleCSV)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
}

func TestServer_UploadAndAnalyze(t *testing.T) {
	srv := setupServer(t)
	handler := srv.Routes()
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, "net.csv", cycleCSV)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}

	metricsMap := report["metrics"].(map[string]any)
	if metricsMap["nodes"].(float64) != 4 || metricsMap["edges"].(float64) != 4 {
		t.Errorf("Expected 4 nodes and 4 edges, got %v / %v", metricsMap["nodes"], metricsMap["edges"])
	}

	predictions := report["predictions"].([]any)
	if len(predictions) == 0 {
		t.Fatal("Expected link predictions in report")
	}
	top := predictions[0].(map[string]any)
	if top["source"] != "1" || top["target"] != "3" {
		t.Errorf("Expected top prediction 1-3, got %v-%v", top["source"], top["target"])
	}

	// Analysis is now cached
	if _, ok := srv.cache.Report("net.csv"); !ok {
		t.Error("Expected report cached under dataset name")
	}
}

func TestServer_SampleAnalysis(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/sample/cycle.csv", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report["community_count"].(float64) != 2 {
		t.Errorf("Expected 2 communities, got %v", report["community_count"])
	}
}

func TestServer_SampleNotFound(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/sample/missing.csv", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestServer_SamplePathTraversal(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/sample/..%2F..%2Fetc%2Fpasswd", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Error("Expected traversal attempt to be rejected")
	}
}

func TestServer_DatasetsListing(t *testing.T) {
	handler := setupServer(t).Routes()

	// Analyze the sample so it shows up as analyzed
	req := httptest.NewRequest(http.MethodGet, "/sample/cycle.csv", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/datasets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response DatasetsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Samples) != 1 || response.Samples[0] != "cycle.csv" {
		t.Errorf("Expected sample listing, got %v", response.Samples)
	}
	if len(response.Analyzed) != 1 || response.Analyzed[0] != "cycle.csv" {
		t.Errorf("Expected analyzed listing, got %v", response.Analyzed)
	}
}

func TestServer_CachedAnalysisEndpoint(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/analysis/cycle.csv", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 before analysis, got %d", rec.Code)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sample/cycle.csv", nil))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/cycle.csv", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 after analysis, got %d", rec.Code)
	}
}

func TestServer_AnalysisServedFromSnapshot(t *testing.T) {
	dataDir := t.TempDir()
	samplesDir := filepath.Join(dataDir, "samples")
	if err := os.MkdirAll(samplesDir, 0755); err != nil {
		t.Fatalf("Failed to create samples dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(samplesDir, "cycle.csv"), []byte(cycleCSV), 0644); err != nil {
		t.Fatalf("Failed to write sample: %v", err)
	}

	// First instance analyzes the sample, which snapshots the report to disk.
	first := setupServerAt(t, dataDir).Routes()
	rec := httptest.NewRecorder()
	first.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sample/cycle.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 analyzing sample, got %d: %s", rec.Code, rec.Body.String())
	}

	// A second instance over the same data dir has an empty cache and must
	// serve the snapshot instead of reporting no analysis.
	second := setupServerAt(t, dataDir).Routes()
	rec = httptest.NewRecorder()
	second.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/cycle.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from snapshot, got %d: %s", rec.Code, rec.Body.String())
	}

	var report map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report["community_count"].(float64) != 2 {
		t.Errorf("Expected 2 communities from snapshot, got %v", report["community_count"])
	}
}

func TestServer_GraphQLServesCachedAnalysis(t *testing.T) {
	handler := setupServer(t).Routes()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sample/cycle.csv", nil))

	body := `{"query": "{ analysis(dataset: \"cycle.csv\") { communityCount } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response struct {
		Data struct {
			Analysis struct {
				CommunityCount int `json:"communityCount"`
			} `json:"analysis"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Errors) != 0 {
		t.Fatalf("Unexpected errors: %v", response.Errors)
	}
	if response.Data.Analysis.CommunityCount != 2 {
		t.Errorf("Expected 2 communities, got %d", response.Data.Analysis.CommunityCount)
	}
}

func TestServer_AuthFlow(t *testing.T) {
	handler := setupServer(t).Routes()
	token := loginToken(t, handler)

	// check-auth with token
	req := httptest.NewRequest(http.MethodGet, "/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var check auth.CheckAuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&check); err != nil {
		t.Fatalf("Failed to decode check-auth response: %v", err)
	}
	if !check.Authenticated {
		t.Error("Expected authenticated session")
	}

	// logout revokes the token
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if err := json.NewDecoder(rec.Body).Decode(&check); err != nil {
		t.Fatalf("Failed to decode check-auth response: %v", err)
	}
	if check.Authenticated {
		t.Error("Expected revoked session to be unauthenticated")
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for allowed origin preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("Expected origin echoed, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for disallowed origin, got %d", rec.Code)
	}
}

func TestServer_RequestIDHeader(t *testing.T) {
	handler := setupServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated request ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-id-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-id-42" {
		t.Errorf("Expected client request ID echoed, got %q", got)
	}
}

func TestServer_BodySizeLimit(t *testing.T) {
	srv := setupServer(t)
	srv.cfg.Server.MaxUploadBytes = 64
	handler := srv.Routes()

	body := strings.NewReader(`{"email": "` + strings.Repeat("a", 200) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rec.Code)
	}
}
