package algorithms

import (
	"container/list"

	"github.com/kmcrae/sociogram/pkg/graph"
)

// ConnectedComponents finds all connected components in the graph.
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	nodeIDs := g.NodeIDs()

	visited := make(map[uint64]bool, len(nodeIDs))
	members := make(map[int][]uint64)
	componentID := 0

	// BFS from each unvisited node
	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			members[componentID] = append(members[componentID], nodeID)

			for _, neighbor := range g.Neighbors(nodeID) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue.PushBack(neighbor)
				}
			}
		}

		componentID++
	}

	return buildResult(g, members)
}
