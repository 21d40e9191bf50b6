package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/kmcrae/sociogram/pkg/analysis"
	"github.com/kmcrae/sociogram/pkg/graph"
	"github.com/kmcrae/sociogram/pkg/logging"
)

func main() {
	asJSON := flag.Bool("json", false, "Emit the full report as JSON")
	top := flag.Int("top", 5, "Number of top nodes to show")
	flag.Usage = usage
	flag.Parse()

	// No dataset: run the built-in worked example
	if flag.NArg() == 0 {
		result, err := analysis.RunExample()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(result.Render())
		return
	}

	g, err := graph.LoadCSVFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := analysis.DefaultOptions()
	opts.TopNodes = *top

	analyzer := analysis.NewAnalyzer(logging.NewNopLogger(), opts)
	report, err := analyzer.Analyze(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(report)
}

func printReport(report *analysis.Report) {
	m := report.Metrics
	fmt.Printf("Network: %d nodes, %d edges\n", m.Nodes, m.Edges)
	fmt.Printf("  Density:          %.4f\n", m.Density)
	fmt.Printf("  Avg degree:       %.2f\n", m.AvgDegree)
	fmt.Printf("  Avg path length:  %.2f\n", m.AvgPathLength)
	fmt.Printf("  Diameter:         %d\n", m.Diameter)
	fmt.Printf("  Modularity:       %.4f\n", m.Modularity)
	fmt.Println()

	fmt.Printf("Communities (%d):\n", report.CommunityCount)
	for _, name := range sortedByCommunity(report.Communities) {
		fmt.Printf("  %-20s %s\n", name, report.Communities[name])
	}
	fmt.Println()

	if len(report.TopNodes) > 0 {
		fmt.Println("Top nodes by degree:")
		fmt.Printf("  %-20s %8s %8s %8s %8s\n", "node", "degree", "between", "close", "eigen")
		for _, n := range report.TopNodes {
			fmt.Printf("  %-20s %8.3f %8.3f %8.3f %8.3f\n",
				n.Node, n.Degree, n.Betweenness, n.Closeness, n.Eigenvector)
		}
		fmt.Println()
	}

	fmt.Printf("Most central:        %s\n", report.MostCentral)
	fmt.Printf("Highest betweenness: %s\n", report.HighestBetweenness)
	fmt.Printf("Highest closeness:   %s\n", report.HighestCloseness)

	if len(report.Predictions) > 0 {
		fmt.Println()
		fmt.Println("Predicted links:")
		for _, p := range report.Predictions {
			fmt.Printf("  %s - %s (%.1f%%)\n", p.Source, p.Target, p.Probability)
		}
	}
}

// sortedByCommunity orders node names by community label, then name, so
// group members print together.
func sortedByCommunity(communities map[string]string) []string {
	names := make([]string, 0, len(communities))
	for name := range communities {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if communities[names[i]] != communities[names[j]] {
			return communities[names[i]] < communities[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: sociogram [flags] [edges.csv]\n\n")
	fmt.Fprintf(os.Stderr, "Analyzes a social network from a CSV edge list. With no file, runs\n")
	fmt.Fprintf(os.Stderr, "the built-in four-person demo network.\n\n")
	flag.PrintDefaults()
}
