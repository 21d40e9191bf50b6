package algorithms

import (
	"math"
	"testing"
)

func TestPredictLinks_Cycle(t *testing.T) {
	// 4-cycle: the diagonals (1,3) and (2,4) each share two degree-2
	// neighbors, so both score 1.0 under resource allocation. The lower
	// node pair sorts first.
	g := buildTestGraph(t, [][2]string{{"1", "2"}, {"2", "3"}, {"3", "4"}, {"4", "1"}})

	predictions := PredictLinks(g, DefaultLinkPredictionOptions())

	if len(predictions) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(predictions))
	}

	n1 := mustNodeID(t, g, "1")
	n3 := mustNodeID(t, g, "3")
	if predictions[0].From != n1 || predictions[0].To != n3 {
		t.Errorf("Expected (1,3) first, got (%d,%d)", predictions[0].From, predictions[0].To)
	}
	if !almostEqual(predictions[0].Score, 1.0) {
		t.Errorf("Expected score 1.0, got %f", predictions[0].Score)
	}
	if !almostEqual(predictions[1].Score, 1.0) {
		t.Errorf("Expected score 1.0, got %f", predictions[1].Score)
	}
}

func TestPredictLinks_ExcludesExistingEdges(t *testing.T) {
	g := buildTestGraph(t, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})

	predictions := PredictLinks(g, DefaultLinkPredictionOptions())

	for _, p := range predictions {
		if g.HasEdge(p.From, p.To) {
			t.Errorf("Prediction (%d,%d) is an existing edge", p.From, p.To)
		}
	}
}

func TestPredictLinks_TopK(t *testing.T) {
	// hub with 4 leaves: every leaf pair scores 1/4 under RA
	g := buildTestGraph(t, [][2]string{{"hub", "a"}, {"hub", "b"}, {"hub", "c"}, {"hub", "d"}})

	opts := DefaultLinkPredictionOptions()
	opts.TopK = 3
	predictions := PredictLinks(g, opts)

	if len(predictions) != 3 {
		t.Errorf("Expected 3 predictions after TopK cap, got %d", len(predictions))
	}
}

func TestPredictLinks_MaxNodesGate(t *testing.T) {
	g := buildTestGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})

	opts := DefaultLinkPredictionOptions()
	opts.MaxNodes = 3
	predictions := PredictLinks(g, opts)

	if predictions != nil {
		t.Errorf("Expected nil for graphs at or above the node cap, got %v", predictions)
	}
}

func TestPredictLinks_ZeroScoresExcluded(t *testing.T) {
	// a-b and c-d: no pair shares a neighbor
	g := buildTestGraph(t, [][2]string{{"a", "b"}, {"c", "d"}})

	predictions := PredictLinks(g, DefaultLinkPredictionOptions())

	if len(predictions) != 0 {
		t.Errorf("Expected no predictions without common neighbors, got %d", len(predictions))
	}
}

func TestPredictLinkScore_CommonNeighbours(t *testing.T) {
	g := buildTestGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})

	a := mustNodeID(t, g, "a")
	c := mustNodeID(t, g, "c")

	score := PredictLinkScore(g, a, c, LinkPredCommonNeighbours)
	if !almostEqual(score, 1.0) {
		t.Errorf("Expected 1 common neighbor, got %f", score)
	}
}

func TestPredictLinkScore_AdamicAdar(t *testing.T) {
	// a and c share neighbor b with degree 2: score = 1/ln(2)
	g := buildTestGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})

	a := mustNodeID(t, g, "a")
	c := mustNodeID(t, g, "c")

	score := PredictLinkScore(g, a, c, LinkPredAdamicAdar)
	want := 1.0 / math.Log(2)
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("Expected %f, got %f", want, score)
	}
}

func TestPredictLinkScore_PreferentialAttachment(t *testing.T) {
	g := buildTestGraph(t, [][2]string{{"hub", "a"}, {"hub", "b"}, {"hub", "c"}, {"a", "b"}})

	a := mustNodeID(t, g, "a")
	c := mustNodeID(t, g, "c")

	// deg(a)=2, deg(c)=1
	score := PredictLinkScore(g, a, c, LinkPredPreferentialAttachment)
	if !almostEqual(score, 2.0) {
		t.Errorf("Expected degree product 2, got %f", score)
	}
}

func TestPredictLinks_SortedDescending(t *testing.T) {
	g := buildTestGraph(t, [][2]string{
		{"hub", "a"}, {"hub", "b"}, {"hub", "c"},
		{"a", "b"},
	})

	predictions := PredictLinks(g, LinkPredictionOptions{Method: LinkPredResourceAllocation})

	for i := 1; i < len(predictions); i++ {
		if predictions[i-1].Score < predictions[i].Score {
			t.Error("Predictions not sorted by descending score")
		}
	}
}
