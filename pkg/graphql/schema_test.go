package graphql

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/kmcrae/sociogram/pkg/analysis"
)

func setupSchema(t *testing.T) (graphql.Schema, *analysis.Cache) {
	t.Helper()

	g, err := analysis.ExampleGraph()
	if err != nil {
		t.Fatalf("ExampleGraph failed: %v", err)
	}
	analyzer := analysis.NewAnalyzer(nil, analysis.DefaultOptions())
	report, err := analyzer.Analyze(g)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	cache := analysis.NewCache()
	cache.Put("demo.csv", report)

	schema, err := GenerateSchema(cache)
	if err != nil {
		t.Fatalf("GenerateSchema failed: %v", err)
	}
	return schema, cache
}

func TestQuery_Health(t *testing.T) {
	schema, _ := setupSchema(t)

	result := ExecuteQuery(context.Background(), schema, `{ health }`)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	if data["health"] != "ok" {
		t.Errorf("Expected health ok, got %v", data["health"])
	}
}

func TestQuery_Datasets(t *testing.T) {
	schema, cache := setupSchema(t)
	cache.Put("other.csv", &analysis.Report{})

	result := ExecuteQuery(context.Background(), schema, `{ datasets }`)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	datasets := data["datasets"].([]any)
	if len(datasets) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(datasets))
	}
	if datasets[0] != "demo.csv" || datasets[1] != "other.csv" {
		t.Errorf("Expected sorted dataset names, got %v", datasets)
	}
}

func TestQuery_Analysis(t *testing.T) {
	schema, _ := setupSchema(t)

	query := `{
		analysis(dataset: "demo.csv") {
			dataset
			communityCount
			metrics { nodes edges density avgDegree diameter }
			nodes { name community degree }
			edges { source target }
			predictions { source target probability }
		}
	}`

	result := ExecuteQuery(context.Background(), schema, query)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	a := data["analysis"].(map[string]any)

	if a["dataset"] != "demo.csv" {
		t.Errorf("Expected dataset demo.csv, got %v", a["dataset"])
	}
	if a["communityCount"] != 2 {
		t.Errorf("Expected 2 communities, got %v", a["communityCount"])
	}

	metrics := a["metrics"].(map[string]any)
	if metrics["nodes"] != 4 || metrics["edges"] != 4 {
		t.Errorf("Expected 4 nodes and 4 edges, got %v / %v", metrics["nodes"], metrics["edges"])
	}
	if metrics["diameter"] != 2 {
		t.Errorf("Expected diameter 2, got %v", metrics["diameter"])
	}

	nodes := a["nodes"].([]any)
	if len(nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(nodes))
	}
	first := nodes[0].(map[string]any)
	if first["name"] != "1" {
		t.Errorf("Expected first node 1, got %v", first["name"])
	}
	if first["community"] == "" {
		t.Error("Expected a community label on node 1")
	}
	if degree := first["degree"].(float64); degree < 0.66 || degree > 0.67 {
		t.Errorf("Expected degree centrality 2/3, got %v", degree)
	}

	edges := a["edges"].([]any)
	if len(edges) != 4 {
		t.Errorf("Expected 4 edges, got %d", len(edges))
	}

	predictions := a["predictions"].([]any)
	if len(predictions) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(predictions))
	}
	top := predictions[0].(map[string]any)
	if top["source"] != "1" || top["target"] != "3" {
		t.Errorf("Expected top prediction 1-3, got %v-%v", top["source"], top["target"])
	}
	if top["probability"].(float64) != 100.0 {
		t.Errorf("Expected probability 100, got %v", top["probability"])
	}
}

func TestQuery_AnalysisUnknownDataset(t *testing.T) {
	schema, _ := setupSchema(t)

	result := ExecuteQuery(context.Background(), schema, `{ analysis(dataset: "missing.csv") { dataset } }`)
	if !result.HasErrors() {
		t.Fatal("Expected an error for an unknown dataset")
	}
}

func TestQuery_WithVariables(t *testing.T) {
	schema, _ := setupSchema(t)

	query := `query Analysis($name: String!) { analysis(dataset: $name) { dataset } }`
	result := ExecuteQueryWithVariables(context.Background(), schema, query,
		map[string]any{"name": "demo.csv"}, "Analysis")
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}

	a := result.Data.(map[string]any)["analysis"].(map[string]any)
	if a["dataset"] != "demo.csv" {
		t.Errorf("Expected dataset demo.csv, got %v", a["dataset"])
	}
}
