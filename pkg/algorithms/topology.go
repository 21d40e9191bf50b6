package algorithms

import (
	"slices"

	"github.com/kmcrae/sociogram/pkg/graph"
)

// Density computes the ratio of edges present to edges possible.
func Density(g *graph.Graph) float64 {
	stats := g.Stats()
	n := float64(stats.NodeCount)
	if n < 2 {
		return 0.0
	}
	return 2.0 * float64(stats.EdgeCount) / (n * (n - 1))
}

// AverageDegree computes the mean node degree.
func AverageDegree(g *graph.Graph) float64 {
	stats := g.Stats()
	if stats.NodeCount == 0 {
		return 0.0
	}
	return 2.0 * float64(stats.EdgeCount) / float64(stats.NodeCount)
}

// IsConnected reports whether every node is reachable from every other.
// The empty graph and a single node are considered connected.
func IsConnected(g *graph.Graph) bool {
	nodeIDs := g.NodeIDs()
	if len(nodeIDs) <= 1 {
		return true
	}

	distance := bfsDistances(g, nodeIDs[0])
	return len(distance) == len(nodeIDs)
}

// Diameter computes the longest shortest path in the graph.
// Returns 0 when the graph is disconnected or has fewer than two nodes.
func Diameter(g *graph.Graph) int {
	nodeIDs := g.NodeIDs()
	if len(nodeIDs) < 2 || !IsConnected(g) {
		return 0
	}

	diameter := 0
	for _, source := range nodeIDs {
		for _, dist := range bfsDistances(g, source) {
			if dist > diameter {
				diameter = dist
			}
		}
	}

	return diameter
}

// AveragePathLength computes the mean shortest-path distance over all node
// pairs. Returns 0 when the graph is disconnected or has fewer than two
// nodes.
func AveragePathLength(g *graph.Graph) float64 {
	nodeIDs := g.NodeIDs()
	n := len(nodeIDs)
	if n < 2 || !IsConnected(g) {
		return 0.0
	}

	total := 0
	for _, source := range nodeIDs {
		for _, dist := range bfsDistances(g, source) {
			total += dist
		}
	}

	return float64(total) / float64(n*(n-1))
}

// IsBipartite checks if the graph can be colored with two colors such that no
// two adjacent nodes share a color. Coloring starts from the lowest node ID
// of each component, which is placed in the first partition, so the split is
// deterministic. Returns (is_bipartite, partition1, partition2).
func IsBipartite(g *graph.Graph) (bool, []uint64, []uint64) {
	nodeIDs := g.NodeIDs()

	// -1 = uncolored, 0 = first partition, 1 = second
	color := make(map[uint64]int, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		color[nodeID] = -1
	}

	partition1 := make([]uint64, 0)
	partition2 := make([]uint64, 0)

	for _, startID := range nodeIDs {
		if color[startID] != -1 {
			continue
		}

		queue := []uint64{startID}
		color[startID] = 0
		partition1 = append(partition1, startID)

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			nextColor := 1 - color[current]

			for _, neighbor := range g.Neighbors(current) {
				switch color[neighbor] {
				case -1:
					color[neighbor] = nextColor
					queue = append(queue, neighbor)
					if nextColor == 0 {
						partition1 = append(partition1, neighbor)
					} else {
						partition2 = append(partition2, neighbor)
					}
				case color[current]:
					return false, nil, nil
				}
			}
		}
	}

	slices.Sort(partition1)
	slices.Sort(partition2)

	return true, partition1, partition2
}

// ClusteringCoefficient computes the local clustering coefficient for all
// nodes: the fraction of a node's neighbor pairs that are themselves
// connected.
func ClusteringCoefficient(g *graph.Graph) map[uint64]float64 {
	nodeIDs := g.NodeIDs()
	coefficients := make(map[uint64]float64, len(nodeIDs))

	for _, nodeID := range nodeIDs {
		neighbors := g.Neighbors(nodeID)
		k := len(neighbors)
		if k < 2 {
			coefficients[nodeID] = 0.0
			continue
		}

		triangles := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					triangles++
				}
			}
		}

		coefficients[nodeID] = float64(triangles) / float64(k*(k-1)/2)
	}

	return coefficients
}

// AverageClusteringCoefficient computes the mean local clustering
// coefficient across all nodes.
func AverageClusteringCoefficient(g *graph.Graph) float64 {
	coefficients := ClusteringCoefficient(g)
	if len(coefficients) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, coef := range coefficients {
		sum += coef
	}

	return sum / float64(len(coefficients))
}
