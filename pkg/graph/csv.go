package graph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV builds a graph from a CSV edge list. The first row is treated as a
// header and discarded; the first two columns of every following record are
// the edge endpoints. Records with a missing endpoint are skipped rather than
// rejected, matching the behavior of the datasets this service ingests.
func LoadCSV(r io.Reader) (*Graph, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	g := New()

	// Header row
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record at line %d: %w", line+1, err)
		}
		line++

		if len(record) < 2 {
			continue
		}

		from := strings.TrimSpace(record[0])
		to := strings.TrimSpace(record[1])
		if from == "" || to == "" {
			continue
		}
		if from == to {
			// A row connecting a node to itself carries no structure
			continue
		}

		if _, err := g.AddEdge(from, to); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return g, nil
}

// LoadCSVFile builds a graph from a CSV edge list on disk.
func LoadCSVFile(path string) (*Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return LoadCSV(file)
}
