package graph

import (
	"testing"
)

func TestAddNode_AssignsSequentialIDs(t *testing.T) {
	g := New()

	alice, err := g.AddNode("alice")
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	bob, _ := g.AddNode("bob")

	if alice.ID != 1 || bob.ID != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", alice.ID, bob.ID)
	}
}

func TestAddNode_DuplicateNameReturnsExisting(t *testing.T) {
	g := New()

	first, _ := g.AddNode("alice")
	second, _ := g.AddNode("alice")

	if first.ID != second.ID {
		t.Errorf("Duplicate name should return existing node, got IDs %d and %d", first.ID, second.ID)
	}

	if stats := g.Stats(); stats.NodeCount != 1 {
		t.Errorf("Expected 1 node, got %d", stats.NodeCount)
	}
}

func TestAddNode_EmptyName(t *testing.T) {
	g := New()

	if _, err := g.AddNode(""); err != ErrEmptyName {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
}

func TestAddEdge_CreatesEndpoints(t *testing.T) {
	g := New()

	added, err := g.AddEdge("alice", "bob")
	if err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if !added {
		t.Error("Expected new edge to report added=true")
	}

	stats := g.Stats()
	if stats.NodeCount != 2 || stats.EdgeCount != 1 {
		t.Errorf("Expected 2 nodes and 1 edge, got %d and %d", stats.NodeCount, stats.EdgeCount)
	}
}

func TestAddEdge_DuplicateIsIdempotent(t *testing.T) {
	g := New()

	g.AddEdge("alice", "bob")

	added, err := g.AddEdge("alice", "bob")
	if err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if added {
		t.Error("Duplicate edge should report added=false")
	}

	// Reversed order is the same undirected edge
	added, _ = g.AddEdge("bob", "alice")
	if added {
		t.Error("Reversed duplicate edge should report added=false")
	}

	if stats := g.Stats(); stats.EdgeCount != 1 {
		t.Errorf("Expected 1 edge, got %d", stats.EdgeCount)
	}
}

func TestAddEdge_SelfLoopRejected(t *testing.T) {
	g := New()

	if _, err := g.AddEdge("alice", "alice"); err != ErrSelfLoop {
		t.Errorf("Expected ErrSelfLoop, got %v", err)
	}
}

func TestHasEdge_Symmetric(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")

	a, _ := g.NodeByName("a")
	b, _ := g.NodeByName("b")

	if !g.HasEdge(a.ID, b.ID) || !g.HasEdge(b.ID, a.ID) {
		t.Error("Undirected edge should be visible from both endpoints")
	}
}

func TestNeighbors_Sorted(t *testing.T) {
	g := New()
	g.AddEdge("hub", "c")
	g.AddEdge("hub", "a")
	g.AddEdge("hub", "b")

	hub, _ := g.NodeByName("hub")
	neighbors := g.Neighbors(hub.ID)

	if len(neighbors) != 3 {
		t.Fatalf("Expected 3 neighbors, got %d", len(neighbors))
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i-1] >= neighbors[i] {
			t.Errorf("Neighbors not sorted: %v", neighbors)
		}
	}

	if g.Degree(hub.ID) != 3 {
		t.Errorf("Expected degree 3, got %d", g.Degree(hub.ID))
	}
}

func TestEdges_CanonicalAndSorted(t *testing.T) {
	g := New()
	g.AddEdge("b", "a") // IDs 1, 2
	g.AddEdge("c", "a") // ID 3 connected to 2

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}

	for _, e := range edges {
		if e.From >= e.To {
			t.Errorf("Edge not in canonical form: %+v", e)
		}
	}

	if edges[0].From > edges[1].From {
		t.Errorf("Edges not sorted: %v", edges)
	}
}

func TestNode_NotFound(t *testing.T) {
	g := New()

	if _, err := g.Node(42); err == nil {
		t.Error("Expected error for missing node ID")
	}
	if _, err := g.NodeByName("ghost"); err == nil {
		t.Error("Expected error for missing node name")
	}
}
