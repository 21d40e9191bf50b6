package analysis

import (
	"fmt"

	"github.com/kmcrae/sociogram/pkg/algorithms"
	"github.com/kmcrae/sociogram/pkg/graph"
	"github.com/kmcrae/sociogram/pkg/logging"
	"github.com/kmcrae/sociogram/pkg/visualization"
)

// Options configures an Analyzer.
type Options struct {
	LinkPrediction algorithms.LinkPredictionOptions
	Eigenvector    algorithms.EigenvectorOptions
	Layout         *visualization.LayoutConfig
	TopNodes       int
}

// DefaultOptions returns the configuration used by the HTTP API and CLI.
func DefaultOptions() Options {
	return Options{
		LinkPrediction: algorithms.DefaultLinkPredictionOptions(),
		Eigenvector:    algorithms.DefaultEigenvectorOptions(),
		Layout:         visualization.DefaultLayoutConfig(),
		TopNodes:       5,
	}
}

// Analyzer computes full analysis reports for graphs.
type Analyzer struct {
	logger logging.Logger
	opts   Options
}

// NewAnalyzer creates an analyzer. A nil logger discards log output.
func NewAnalyzer(logger logging.Logger, opts Options) *Analyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.TopNodes <= 0 {
		opts.TopNodes = 5
	}
	if opts.Layout == nil {
		opts.Layout = visualization.DefaultLayoutConfig()
	}
	return &Analyzer{logger: logger, opts: opts}
}

// Analyze computes the full report for a graph: summary metrics, centrality
// measures, community detection, link predictions and layout positions.
func (a *Analyzer) Analyze(g *graph.Graph) (*Report, error) {
	stats := g.Stats()
	timer := logging.StartTimer(a.logger, "Graph analysis complete",
		logging.Nodes(int(stats.NodeCount)),
		logging.Edges(int(stats.EdgeCount)),
	)

	report := &Report{
		Nodes:            nodeNames(g),
		Edges:            edgeNames(g),
		DegreeCentrality: make(map[string]float64),
		Communities:      make(map[string]string),
		Predictions:      []Prediction{},
		TopNodes:         []NodeCentrality{},
		Positions:        make(map[string]visualization.Position),
	}

	report.Metrics = Metrics{
		Nodes:         int(stats.NodeCount),
		Edges:         int(stats.EdgeCount),
		Density:       algorithms.Density(g),
		AvgPathLength: algorithms.AveragePathLength(g),
		Diameter:      algorithms.Diameter(g),
		AvgDegree:     algorithms.AverageDegree(g),
	}

	// Centrality measures
	degree := algorithms.DegreeCentrality(g)
	betweenness := algorithms.BetweennessCentrality(g)
	closeness := algorithms.ClosenessCentrality(g)

	eigen := algorithms.EigenvectorCentrality(g, a.opts.Eigenvector)
	eigenvector := eigen.Scores
	if !eigen.Converged {
		// Power iteration oscillates on bipartite-like structures
		a.logger.Warn("Eigenvector centrality did not converge, using degree centrality",
			logging.Int("iterations", eigen.Iterations))
		eigenvector = degree
	}

	for _, id := range g.NodeIDs() {
		if node, err := g.Node(id); err == nil {
			report.DegreeCentrality[node.Name] = degree[id]
		}
	}

	// Community detection
	communities := algorithms.GreedyModularity(g)
	report.Metrics.Modularity = communities.Modularity
	report.CommunityCount = len(communities.Communities)
	for nodeID, communityID := range communities.NodeCommunity {
		if node, err := g.Node(nodeID); err == nil {
			report.Communities[node.Name] = CommunityLabel(communityID)
		}
	}

	// Link predictions
	for _, p := range algorithms.PredictLinks(g, a.opts.LinkPrediction) {
		source, err1 := g.Node(p.From)
		target, err2 := g.Node(p.To)
		if err1 != nil || err2 != nil {
			continue
		}
		report.Predictions = append(report.Predictions, Prediction{
			Source:      source.Name,
			Target:      target.Name,
			Probability: probability(p.Score),
		})
	}

	// Top nodes by degree, carrying all four centralities
	for _, ranked := range algorithms.TopNodes(g, degree, a.opts.TopNodes) {
		report.TopNodes = append(report.TopNodes, NodeCentrality{
			Node:        ranked.Node.Name,
			Degree:      ranked.Score,
			Betweenness: betweenness[ranked.NodeID],
			Closeness:   closeness[ranked.NodeID],
			Eigenvector: eigenvector[ranked.NodeID],
		})
	}

	report.MostCentral = formatTopNode(g, degree)
	report.HighestBetweenness = formatTopNode(g, betweenness)
	report.HighestCloseness = formatTopNode(g, closeness)

	// Layout positions so clients can draw without recomputation
	layout := visualization.NewForceDirectedLayout(a.opts.Layout)
	positions, err := layout.ComputeLayout(g, g.NodeIDs())
	if err != nil {
		return nil, fmt.Errorf("computing layout: %w", err)
	}
	for nodeID, pos := range positions {
		if node, err := g.Node(nodeID); err == nil {
			report.Positions[node.Name] = pos
		}
	}

	timer.End()
	return report, nil
}

func nodeNames(g *graph.Graph) []string {
	ids := g.NodeIDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if node, err := g.Node(id); err == nil {
			names = append(names, node.Name)
		}
	}
	return names
}

func edgeNames(g *graph.Graph) [][2]string {
	edges := g.Edges()
	named := make([][2]string, 0, len(edges))
	for _, e := range edges {
		from, err1 := g.Node(e.From)
		to, err2 := g.Node(e.To)
		if err1 != nil || err2 != nil {
			continue
		}
		named = append(named, [2]string{from.Name, to.Name})
	}
	return named
}

// probability converts a raw prediction score to a percentage, clamped to
// [0, 100] and rounded to two decimals.
func probability(score float64) float64 {
	p := roundTo(score*100, 2)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

func roundTo(v float64, decimals int) float64 {
	scale := 1.0
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	if v >= 0 {
		return float64(int64(v*scale+0.5)) / scale
	}
	return float64(int64(v*scale-0.5)) / scale
}

// formatTopNode renders the highest-scoring node as "name (0.123)".
func formatTopNode(g *graph.Graph, scores map[uint64]float64) string {
	top := algorithms.TopNodes(g, scores, 1)
	if len(top) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (%.3f)", top[0].Node.Name, top[0].Score)
}
