package visualization

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/kmcrae/sociogram/pkg/graph"
)

func setupLayoutGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.New()
	edges := [][2]string{{"1", "2"}, {"2", "3"}, {"3", "4"}, {"4", "1"}}
	for _, e := range edges {
		if _, err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("Failed to add edge %v: %v", e, err)
		}
	}
	return g
}

func TestCircularLayout(t *testing.T) {
	g := setupLayoutGraph(t)

	layout := NewCircularLayout(&LayoutConfig{Width: 800, Height: 600})
	positions, err := layout.ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	if len(positions) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(positions))
	}

	// All nodes on the circle around the canvas center
	centerX, centerY := 400.0, 300.0
	radius := 250.0
	for nodeID, pos := range positions {
		dx, dy := pos.X-centerX, pos.Y-centerY
		dist := math.Sqrt(dx*dx + dy*dy)
		if math.Abs(dist-radius) > 1e-9 {
			t.Errorf("Node %d at distance %f from center, expected %f", nodeID, dist, radius)
		}
	}
}

func TestCircularLayout_Empty(t *testing.T) {
	layout := NewCircularLayout(&LayoutConfig{Width: 800, Height: 600})
	positions, err := layout.ComputeLayout(graph.New(), nil)
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("Expected no positions, got %d", len(positions))
	}
}

func TestForceDirectedLayout_WithinBounds(t *testing.T) {
	g := setupLayoutGraph(t)

	config := DefaultLayoutConfig()
	layout := NewForceDirectedLayout(config)
	positions, err := layout.ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	for nodeID, pos := range positions {
		if pos.X < config.Padding-1e-9 || pos.X > config.Width-config.Padding+1e-9 {
			t.Errorf("Node %d X=%f outside canvas bounds", nodeID, pos.X)
		}
		if pos.Y < config.Padding-1e-9 || pos.Y > config.Height-config.Padding+1e-9 {
			t.Errorf("Node %d Y=%f outside canvas bounds", nodeID, pos.Y)
		}
	}
}

func TestForceDirectedLayout_Deterministic(t *testing.T) {
	g := setupLayoutGraph(t)

	layout := NewForceDirectedLayout(DefaultLayoutConfig())
	first, err := layout.ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	second, err := NewForceDirectedLayout(DefaultLayoutConfig()).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	for nodeID, pos := range first {
		if second[nodeID] != pos {
			t.Fatalf("Layout differs between runs for node %d: %v vs %v", nodeID, pos, second[nodeID])
		}
	}
}

func TestForceDirectedLayout_SingleNode(t *testing.T) {
	g := graph.New()
	node, err := g.AddNode("only")
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	layout := NewForceDirectedLayout(&LayoutConfig{Width: 800, Height: 600})
	positions, err := layout.ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	pos := positions[node.ID]
	if pos.X != 400 || pos.Y != 300 {
		t.Errorf("Expected single node centered at (400, 300), got (%f, %f)", pos.X, pos.Y)
	}
}

func TestVisualization_ExportJSON(t *testing.T) {
	g := setupLayoutGraph(t)

	viz, err := Build(g, NewCircularLayout(DefaultLayoutConfig()))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	raw, err := viz.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var decoded struct {
		Nodes []struct {
			ID   uint64  `json:"id"`
			Name string  `json:"name"`
			X    float64 `json:"x"`
			Y    float64 `json:"y"`
		} `json:"nodes"`
		Edges []struct {
			From uint64 `json:"from"`
			To   uint64 `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}

	if len(decoded.Nodes) != 4 {
		t.Errorf("Expected 4 nodes in export, got %d", len(decoded.Nodes))
	}
	if len(decoded.Edges) != 4 {
		t.Errorf("Expected 4 edges in export, got %d", len(decoded.Edges))
	}
	for _, node := range decoded.Nodes {
		if node.Name == "" {
			t.Error("Exported node missing name")
		}
	}
}
