package algorithms

import (
	"math"
	"sort"

	"github.com/kmcrae/sociogram/pkg/graph"
)

// LinkPredictionMethod selects the scoring formula for link prediction.
type LinkPredictionMethod int

const (
	// LinkPredResourceAllocation scores by Σ_{w ∈ N(u)∩N(v)} 1/|N(w)| —
	// common neighbors weighted inversely by their degree.
	LinkPredResourceAllocation LinkPredictionMethod = iota

	// LinkPredCommonNeighbours scores by |N(u) ∩ N(v)| — integer counts.
	LinkPredCommonNeighbours

	// LinkPredAdamicAdar scores by Σ_{w ∈ N(u)∩N(v)} 1/log(|N(w)|).
	LinkPredAdamicAdar

	// LinkPredPreferentialAttachment scores by |N(u)| × |N(v)| — degree
	// product. Requires no intersection computation.
	LinkPredPreferentialAttachment
)

// DefaultMaxPredictionNodes caps all-pairs prediction: scoring every
// non-adjacent pair is quadratic, so larger graphs skip prediction entirely.
const DefaultMaxPredictionNodes = 1000

// LinkPredictionOptions configures link prediction.
//
// Scores across different methods are not comparable: Resource Allocation and
// Adamic-Adar return weighted sums, Common Neighbours returns integer counts,
// and Preferential Attachment returns degree products.
type LinkPredictionOptions struct {
	Method   LinkPredictionMethod
	TopK     int // 0 = all
	MaxNodes int // skip graphs with at least this many nodes; 0 = DefaultMaxPredictionNodes
}

// DefaultLinkPredictionOptions returns the defaults used by the analysis
// report.
func DefaultLinkPredictionOptions() LinkPredictionOptions {
	return LinkPredictionOptions{
		Method:   LinkPredResourceAllocation,
		TopK:     5,
		MaxNodes: DefaultMaxPredictionNodes,
	}
}

// LinkPrediction holds a predicted link score between two nodes, From < To.
type LinkPrediction struct {
	From  uint64  `json:"from"`
	To    uint64  `json:"to"`
	Score float64 `json:"score"`
}

// PredictLinkScore computes the link prediction score between two specific
// nodes.
func PredictLinkScore(g *graph.Graph, a, b uint64, method LinkPredictionMethod) float64 {
	return computeLinkScore(g, neighborSet(g, a), neighborSet(g, b), method)
}

// PredictLinks scores every non-adjacent node pair and returns predictions
// sorted descending by score (ties broken by ascending node pair). Pairs
// scoring zero are excluded, as are pairs already connected — a predicted
// link is always an edge absent from the input graph.
func PredictLinks(g *graph.Graph, opts LinkPredictionOptions) []LinkPrediction {
	nodeIDs := g.NodeIDs()

	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxPredictionNodes
	}
	if len(nodeIDs) >= maxNodes {
		return nil
	}

	neighborSets := make(map[uint64]map[uint64]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		neighborSets[id] = neighborSet(g, id)
	}

	var predictions []LinkPrediction
	for i := 0; i < len(nodeIDs); i++ {
		for j := i + 1; j < len(nodeIDs); j++ {
			u, v := nodeIDs[i], nodeIDs[j]
			if g.HasEdge(u, v) {
				continue
			}

			score := computeLinkScore(g, neighborSets[u], neighborSets[v], opts.Method)
			if score > 0 {
				predictions = append(predictions, LinkPrediction{From: u, To: v, Score: score})
			}
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].Score != predictions[j].Score {
			return predictions[i].Score > predictions[j].Score
		}
		if predictions[i].From != predictions[j].From {
			return predictions[i].From < predictions[j].From
		}
		return predictions[i].To < predictions[j].To
	})

	if opts.TopK > 0 && len(predictions) > opts.TopK {
		predictions = predictions[:opts.TopK]
	}

	return predictions
}

func neighborSet(g *graph.Graph, id uint64) map[uint64]bool {
	set := make(map[uint64]bool)
	for _, n := range g.Neighbors(id) {
		set[n] = true
	}
	return set
}

// computeLinkScore calculates the prediction score for a pair of neighbor sets.
func computeLinkScore(g *graph.Graph, setA, setB map[uint64]bool, method LinkPredictionMethod) float64 {
	if method == LinkPredPreferentialAttachment {
		return float64(len(setA)) * float64(len(setB))
	}

	small, big := setA, setB
	if len(setA) > len(setB) {
		small, big = setB, setA
	}

	switch method {
	case LinkPredCommonNeighbours:
		count := 0
		for id := range small {
			if big[id] {
				count++
			}
		}
		return float64(count)

	case LinkPredResourceAllocation:
		sum := 0.0
		for id := range small {
			if big[id] {
				if degree := g.Degree(id); degree > 0 {
					sum += 1.0 / float64(degree)
				}
			}
		}
		return sum

	case LinkPredAdamicAdar:
		sum := 0.0
		for id := range small {
			if big[id] {
				// degree <= 1 is skipped: log(1)=0 would divide by zero
				if degree := g.Degree(id); degree > 1 {
					sum += 1.0 / math.Log(float64(degree))
				}
			}
		}
		return sum

	default:
		return 0.0
	}
}
