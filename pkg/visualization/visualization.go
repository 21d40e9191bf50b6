package visualization

import (
	"encoding/json"

	"github.com/kmcrae/sociogram/pkg/graph"
)

// Visualization represents a graph visualization with layout
type Visualization struct {
	Nodes     []*graph.Node
	Edges     []graph.Edge
	Positions map[uint64]Position
}

// Build lays out the full graph with the given layout.
func Build(g *graph.Graph, layout Layout) (*Visualization, error) {
	nodeIDs := g.NodeIDs()

	positions, err := layout.ComputeLayout(g, nodeIDs)
	if err != nil {
		return nil, err
	}

	nodes := make([]*graph.Node, 0, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		if node, err := g.Node(nodeID); err == nil {
			nodes = append(nodes, node)
		}
	}

	return &Visualization{
		Nodes:     nodes,
		Edges:     g.Edges(),
		Positions: positions,
	}, nil
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	type NodeViz struct {
		ID   uint64  `json:"id"`
		Name string  `json:"name"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}

	type EdgeViz struct {
		From uint64 `json:"from"`
		To   uint64 `json:"to"`
	}

	type VizData struct {
		Nodes []NodeViz `json:"nodes"`
		Edges []EdgeViz `json:"edges"`
	}

	data := VizData{
		Nodes: make([]NodeViz, 0, len(v.Nodes)),
		Edges: make([]EdgeViz, 0, len(v.Edges)),
	}

	for _, node := range v.Nodes {
		pos := v.Positions[node.ID]
		data.Nodes = append(data.Nodes, NodeViz{
			ID:   node.ID,
			Name: node.Name,
			X:    pos.X,
			Y:    pos.Y,
		})
	}

	for _, edge := range v.Edges {
		data.Edges = append(data.Edges, EdgeViz{From: edge.From, To: edge.To})
	}

	return json.Marshal(data)
}
