package algorithms

import (
	"slices"

	"github.com/kmcrae/sociogram/pkg/graph"
)

// GreedyModularity detects communities by greedy modularity maximization
// (Clauset-Newman-Moore). Every node starts in its own community; the pair of
// connected communities whose merge yields the largest modularity gain is
// merged until no merge improves modularity.
//
// Ties are broken by the smallest node ID in each community, so results are
// deterministic for a given graph.
func GreedyModularity(g *graph.Graph) *CommunityDetectionResult {
	nodeIDs := g.NodeIDs()
	m := float64(g.Stats().EdgeCount)

	if len(nodeIDs) == 0 {
		return &CommunityDetectionResult{
			Communities:   []*Community{},
			NodeCommunity: map[uint64]int{},
		}
	}

	// Community state: member sets, degree sums, inter-community edge counts.
	members := make(map[int][]uint64, len(nodeIDs))
	degreeSum := make(map[int]float64, len(nodeIDs))
	// between[i][j] = edges between communities i and j (i != j);
	// between[i][i] = edges inside community i.
	between := make(map[int]map[int]float64, len(nodeIDs))
	commOf := make(map[uint64]int, len(nodeIDs))

	for i, nodeID := range nodeIDs {
		members[i] = []uint64{nodeID}
		degreeSum[i] = float64(g.Degree(nodeID))
		between[i] = make(map[int]float64)
		commOf[nodeID] = i
	}
	for _, e := range g.Edges() {
		ci, cj := commOf[e.From], commOf[e.To]
		between[ci][cj]++
		between[cj][ci]++
	}

	// rep returns the smallest node ID in a community, used for tie-breaks.
	rep := func(c int) uint64 { return members[c][0] }

	if m > 0 {
		for {
			bestGain := 0.0
			bestI, bestJ := -1, -1

			for i, neighbors := range between {
				for j, edges := range neighbors {
					if j <= i || edges == 0 {
						continue
					}
					// Modularity gain of merging i and j
					gain := edges/m - degreeSum[i]*degreeSum[j]/(2*m*m)
					if gain <= 1e-12 {
						continue
					}

					take := bestI < 0 || gain > bestGain+1e-12
					if !take && gain > bestGain-1e-12 {
						// Equal gain: break the tie on community representatives
						ri, rj := rep(i), rep(j)
						bi, bj := rep(bestI), rep(bestJ)
						take = ri < bi || (ri == bi && rj < bj)
					}
					if take {
						bestGain = gain
						bestI, bestJ = i, j
					}
				}
			}

			if bestI < 0 {
				break
			}

			mergeCommunities(members, degreeSum, between, bestI, bestJ)
		}
	}

	return buildResult(g, members)
}

// mergeCommunities folds community j into community i.
func mergeCommunities(members map[int][]uint64, degreeSum map[int]float64, between map[int]map[int]float64, i, j int) {
	merged := append(members[i], members[j]...)
	slices.Sort(merged)
	members[i] = merged
	degreeSum[i] += degreeSum[j]

	// Internal edges: both sides' internals plus the edges between them
	between[i][i] += between[j][j] + between[i][j]
	delete(between[i], j)
	delete(between[j], i)

	for k, edges := range between[j] {
		if k == j {
			continue
		}
		between[i][k] += edges
		between[k][i] += edges
		delete(between[k], j)
	}

	delete(members, j)
	delete(degreeSum, j)
	delete(between, j)
}

// buildResult converts community state into the public result shape, with
// communities ordered by their smallest member ID.
func buildResult(g *graph.Graph, members map[int][]uint64) *CommunityDetectionResult {
	groups := make([][]uint64, 0, len(members))
	for _, nodes := range members {
		slices.Sort(nodes)
		groups = append(groups, nodes)
	}
	slices.SortFunc(groups, func(a, b []uint64) int {
		if a[0] < b[0] {
			return -1
		}
		return 1
	})

	communities := make([]*Community, 0, len(groups))
	nodeCommunity := make(map[uint64]int)

	for id, nodes := range groups {
		internal := 0
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				if g.HasEdge(nodes[i], nodes[j]) {
					internal++
				}
			}
		}

		density := 0.0
		if len(nodes) > 1 {
			possible := len(nodes) * (len(nodes) - 1) / 2
			density = float64(internal) / float64(possible)
		}

		communities = append(communities, &Community{
			ID:      id,
			Nodes:   nodes,
			Size:    len(nodes),
			Density: density,
		})
		for _, nodeID := range nodes {
			nodeCommunity[nodeID] = id
		}
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
		Modularity:    Modularity(g, nodeCommunity),
	}
}

// Modularity computes the modularity Q of a partition:
// Q = Σ_c (L_c/m − (d_c/2m)²) where L_c is the number of edges inside
// community c and d_c the sum of its members' degrees.
func Modularity(g *graph.Graph, nodeCommunity map[uint64]int) float64 {
	m := float64(g.Stats().EdgeCount)
	if m == 0 {
		return 0.0
	}

	internal := make(map[int]float64)
	degrees := make(map[int]float64)

	for _, e := range g.Edges() {
		ci, ok1 := nodeCommunity[e.From]
		cj, ok2 := nodeCommunity[e.To]
		if ok1 && ok2 && ci == cj {
			internal[ci]++
		}
	}
	for _, nodeID := range g.NodeIDs() {
		if c, ok := nodeCommunity[nodeID]; ok {
			degrees[c] += float64(g.Degree(nodeID))
		}
	}

	q := 0.0
	for c, d := range degrees {
		q += internal[c]/m - (d/(2*m))*(d/(2*m))
	}

	return q
}
