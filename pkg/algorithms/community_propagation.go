package algorithms

import (
	"github.com/kmcrae/sociogram/pkg/graph"
)

// LabelPropagation performs label propagation for community detection.
// Fast, scalable algorithm for large graphs; nodes are visited in ID order
// and adopt the most frequent label among their neighbors (lowest label wins
// ties), so results are deterministic.
func LabelPropagation(g *graph.Graph, maxIterations int) *CommunityDetectionResult {
	nodeIDs := g.NodeIDs()

	// Initialize: each node in its own community
	labels := make(map[uint64]int, len(nodeIDs))
	for i, nodeID := range nodeIDs {
		labels[nodeID] = i
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for _, nodeID := range nodeIDs {
			labelCount := make(map[int]int)
			for _, neighbor := range g.Neighbors(nodeID) {
				labelCount[labels[neighbor]]++
			}

			maxCount := 0
			maxLabel := labels[nodeID]
			for label, count := range labelCount {
				if count > maxCount || (count == maxCount && label < maxLabel) {
					maxCount = count
					maxLabel = label
				}
			}

			if maxLabel != labels[nodeID] {
				labels[nodeID] = maxLabel
				changed = true
			}
		}

		if !changed {
			break // Converged
		}
	}

	// Build community membership from labels
	members := make(map[int][]uint64)
	for _, nodeID := range nodeIDs {
		members[labels[nodeID]] = append(members[labels[nodeID]], nodeID)
	}

	return buildResult(g, members)
}
