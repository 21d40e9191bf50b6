package graph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrEmptyName    = errors.New("node name cannot be empty")
	ErrSelfLoop     = errors.New("self-loops are not allowed")
	ErrNodeNotFound = errors.New("node not found")
)

// Node is a participant in the social network.
type Node struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Edge is an unordered connection between two nodes. The canonical form has
// From < To.
type Edge struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Statistics summarizes graph size.
type Statistics struct {
	NodeCount uint64 `json:"node_count"`
	EdgeCount uint64 `json:"edge_count"`
}

// Graph is an in-memory undirected graph. Nodes are identified by a uint64 ID
// allocated in insertion order and carry the name token they were loaded
// with. Safe for concurrent readers.
type Graph struct {
	mu     sync.RWMutex
	nodes  map[uint64]*Node
	byName map[string]uint64
	adj    map[uint64]map[uint64]bool
	edges  uint64
	nextID uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[uint64]*Node),
		byName: make(map[string]uint64),
		adj:    make(map[uint64]map[uint64]bool),
	}
}

// AddNode adds a node with the given name, returning the existing node if the
// name is already present.
func (g *Graph) AddNode(name string) (*Node, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addNodeLocked(name), nil
}

func (g *Graph) addNodeLocked(name string) *Node {
	if id, exists := g.byName[name]; exists {
		return g.nodes[id]
	}

	g.nextID++
	node := &Node{ID: g.nextID, Name: name}
	g.nodes[node.ID] = node
	g.byName[name] = node.ID
	g.adj[node.ID] = make(map[uint64]bool)

	return node
}

// AddEdge connects two nodes by name, creating the endpoints on demand.
// Returns false when the edge already existed. Duplicate edges (in either
// order) are idempotent.
func (g *Graph) AddEdge(fromName, toName string) (bool, error) {
	if fromName == "" || toName == "" {
		return false, ErrEmptyName
	}
	if fromName == toName {
		return false, ErrSelfLoop
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.addNodeLocked(fromName)
	to := g.addNodeLocked(toName)

	if g.adj[from.ID][to.ID] {
		return false, nil
	}

	g.adj[from.ID][to.ID] = true
	g.adj[to.ID][from.ID] = true
	g.edges++

	return true, nil
}

// HasEdge reports whether the two node IDs are connected.
func (g *Graph) HasEdge(a, b uint64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.adj[a][b]
}

// Node returns the node with the given ID.
func (g *Graph) Node(id uint64) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodes[id]
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return node, nil
}

// NodeByName returns the node with the given name.
func (g *Graph) NodeByName(name string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, exists := g.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}
	return g.nodes[id], nil
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]uint64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Neighbors returns the IDs adjacent to a node, in ascending order.
func (g *Graph) Neighbors(id uint64) []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	neighbors := make([]uint64, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		neighbors = append(neighbors, n)
	}
	slices.Sort(neighbors)

	return neighbors
}

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(id uint64) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adj[id])
}

// Edges returns every edge in canonical (From < To) form, sorted.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, 0, g.edges)
	for from, neighbors := range g.adj {
		for to := range neighbors {
			if from < to {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			return int(a.From) - int(b.From)
		}
		return int(a.To) - int(b.To)
	})

	return edges
}

// Stats returns node and edge counts.
func (g *Graph) Stats() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return Statistics{
		NodeCount: uint64(len(g.nodes)),
		EdgeCount: g.edges,
	}
}
