package analysis

import (
	"github.com/kmcrae/sociogram/pkg/visualization"
)

// Metrics holds the graph-level summary statistics of a report.
type Metrics struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	Density       float64 `json:"density"`
	AvgPathLength float64 `json:"avg_path_length"`
	Modularity    float64 `json:"modularity"`
	Diameter      int     `json:"diameter"`
	AvgDegree     float64 `json:"avg_degree"`
}

// NodeCentrality bundles all four centrality scores for one node.
type NodeCentrality struct {
	Node        string  `json:"node"`
	Degree      float64 `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	Eigenvector float64 `json:"eigenvector"`
}

// Prediction is a predicted link with its probability in percent.
type Prediction struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Probability float64 `json:"probability"`
}

// Report is the full analysis result for one graph. Maps are keyed by node
// name, matching what clients display.
type Report struct {
	Nodes              []string                          `json:"nodes"`
	Edges              [][2]string                       `json:"edges"`
	Metrics            Metrics                           `json:"metrics"`
	DegreeCentrality   map[string]float64                `json:"degree_centrality"`
	Communities        map[string]string                 `json:"communities"`
	CommunityCount     int                               `json:"community_count"`
	Predictions        []Prediction                      `json:"predictions"`
	TopNodes           []NodeCentrality                  `json:"top_nodes"`
	MostCentral        string                            `json:"most_central"`
	HighestBetweenness string                            `json:"highest_betweenness"`
	HighestCloseness   string                            `json:"highest_closeness"`
	Positions          map[string]visualization.Position `json:"positions"`
}
