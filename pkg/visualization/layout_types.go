package visualization

import (
	"github.com/kmcrae/sociogram/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for randomized layouts; 0 uses a fixed default
}

// DefaultLayoutConfig returns the canvas used by analysis reports.
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{
		Width:      800,
		Height:     600,
		Iterations: 50,
		Padding:    50,
	}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *graph.Graph, nodeIDs []uint64) (map[uint64]Position, error)
}
