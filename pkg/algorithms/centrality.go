package algorithms

import (
	"container/heap"
	"container/list"
	"math"
	"sort"

	"github.com/kmcrae/sociogram/pkg/graph"
)

// DegreeCentrality computes degree centrality for all nodes, normalized by
// the maximum possible degree (n-1).
func DegreeCentrality(g *graph.Graph) map[uint64]float64 {
	nodeIDs := g.NodeIDs()
	degree := make(map[uint64]float64, len(nodeIDs))

	for _, nodeID := range nodeIDs {
		if len(nodeIDs) > 1 {
			degree[nodeID] = float64(g.Degree(nodeID)) / float64(len(nodeIDs)-1)
		} else {
			degree[nodeID] = 0.0
		}
	}

	return degree
}

// ClosenessCentrality computes closeness centrality for all nodes.
// Measures average distance from a node to all other nodes.
func ClosenessCentrality(g *graph.Graph) map[uint64]float64 {
	nodeIDs := g.NodeIDs()
	closeness := make(map[uint64]float64, len(nodeIDs))

	for _, source := range nodeIDs {
		distance := bfsDistances(g, source)

		totalDistance := 0
		reachableNodes := 0
		for _, dist := range distance {
			if dist > 0 {
				totalDistance += dist
				reachableNodes++
			}
		}

		if totalDistance > 0 {
			closeness[source] = float64(reachableNodes) / float64(totalDistance)
		} else {
			closeness[source] = 0.0
		}
	}

	return closeness
}

// bfsDistances returns hop counts from source to every reachable node.
// Unreachable nodes are absent from the map.
func bfsDistances(g *graph.Graph, source uint64) map[uint64]int {
	distance := map[uint64]int{source: 0}

	queue := list.New()
	queue.PushBack(source)

	for queue.Len() > 0 {
		v, ok := queue.Remove(queue.Front()).(uint64)
		if !ok {
			continue
		}

		for _, w := range g.Neighbors(v) {
			if _, seen := distance[w]; !seen {
				distance[w] = distance[v] + 1
				queue.PushBack(w)
			}
		}
	}

	return distance
}

// BetweennessCentrality computes betweenness centrality for all nodes using
// Brandes' algorithm. Measures how often a node appears on shortest paths
// between other nodes. Normalized by 1/((n-1)(n-2)), which for an undirected
// graph accounts for each pair being counted from both endpoints.
func BetweennessCentrality(g *graph.Graph) map[uint64]float64 {
	nodeIDs := g.NodeIDs()

	betweenness := make(map[uint64]float64, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		betweenness[nodeID] = 0.0
	}

	for _, source := range nodeIDs {
		stack := make([]uint64, 0, len(nodeIDs))
		predecessors := make(map[uint64][]uint64, len(nodeIDs))
		sigma := map[uint64]float64{source: 1.0}
		distance := map[uint64]int{source: 0}

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			stack = append(stack, v)

			for _, w := range g.Neighbors(v) {
				if _, seen := distance[w]; !seen {
					distance[w] = distance[v] + 1
					queue.PushBack(w)
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation of pair dependencies
		delta := make(map[uint64]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	if len(nodeIDs) > 2 {
		normFactor := 1.0 / float64((len(nodeIDs)-1)*(len(nodeIDs)-2))
		for nodeID := range betweenness {
			betweenness[nodeID] *= normFactor
		}
	}

	return betweenness
}

// EigenvectorOptions configures the eigenvector centrality power iteration.
type EigenvectorOptions struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultEigenvectorOptions returns the defaults used by the analysis report.
func DefaultEigenvectorOptions() EigenvectorOptions {
	return EigenvectorOptions{
		MaxIterations: 1000,
		Tolerance:     1e-6,
	}
}

// EigenvectorResult contains eigenvector centrality scores.
type EigenvectorResult struct {
	Scores     map[uint64]float64
	Iterations int
	Converged  bool
}

// EigenvectorCentrality computes eigenvector centrality via power iteration
// on the adjacency matrix, L2-normalized each step. Callers should fall back
// to degree centrality when the iteration does not converge.
func EigenvectorCentrality(g *graph.Graph, opts EigenvectorOptions) *EigenvectorResult {
	nodeIDs := g.NodeIDs()
	n := len(nodeIDs)

	if n == 0 {
		return &EigenvectorResult{Scores: map[uint64]float64{}, Converged: true}
	}

	scores := make(map[uint64]float64, n)
	for _, nodeID := range nodeIDs {
		scores[nodeID] = 1.0 / float64(n)
	}

	iterations := 0
	converged := false

	for iterations < opts.MaxIterations {
		iterations++

		next := make(map[uint64]float64, n)
		for _, nodeID := range nodeIDs {
			sum := 0.0
			for _, neighbor := range g.Neighbors(nodeID) {
				sum += scores[neighbor]
			}
			next[nodeID] = sum
		}

		// L2 normalization
		norm := 0.0
		for _, v := range next {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			// No edges: centrality is zero everywhere
			return &EigenvectorResult{Scores: next, Iterations: iterations, Converged: true}
		}
		for nodeID := range next {
			next[nodeID] /= norm
		}

		maxDiff := 0.0
		for _, nodeID := range nodeIDs {
			diff := math.Abs(next[nodeID] - scores[nodeID])
			if diff > maxDiff {
				maxDiff = diff
			}
		}
		scores = next

		if maxDiff < float64(n)*opts.Tolerance {
			converged = true
			break
		}
	}

	return &EigenvectorResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
	}
}

// RankedNode holds a node with its centrality score.
type RankedNode struct {
	NodeID uint64      `json:"node_id"`
	Score  float64     `json:"score"`
	Node   *graph.Node `json:"node,omitempty"`
}

// rankedNodeHeap implements a min-heap for RankedNode by score.
// Keeping at most N elements makes top-N selection O(n log k).
// Equal scores rank by larger node ID so the root is always the
// weakest candidate: lowest score, then highest ID.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].NodeID > h[j].NodeID
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopNodes returns the top n nodes by score using a min-heap, sorted
// descending by score with node ID as a deterministic tie-break.
func TopNodes(g *graph.Graph, scores map[uint64]float64, n int) []RankedNode {
	if n <= 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for nodeID, score := range scores {
		node, err := g.Node(nodeID)
		if err != nil {
			continue
		}

		rn := RankedNode{NodeID: nodeID, Score: score, Node: node}

		if h.Len() < n {
			heap.Push(&h, rn)
		} else if score > h[0].Score || (score == h[0].Score && nodeID < h[0].NodeID) {
			// Ties evict the higher node ID so membership does not
			// depend on map iteration order
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].NodeID < result[j].NodeID
	})

	return result
}
