package datastore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type snapshotPayload struct {
	Dataset string             `json:"dataset"`
	Metrics map[string]float64 `json:"metrics"`
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := setupStore(t)

	in := snapshotPayload{
		Dataset: "demo.csv",
		Metrics: map[string]float64{"density": 0.667, "modularity": 0.0},
	}
	if err := store.SaveSnapshot("demo.csv", in); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	var out snapshotPayload
	if err := store.LoadSnapshot("demo.csv", &out); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if out.Dataset != in.Dataset {
		t.Errorf("Expected dataset %q, got %q", in.Dataset, out.Dataset)
	}
	if out.Metrics["density"] != in.Metrics["density"] {
		t.Errorf("Metrics mismatch: %v", out.Metrics)
	}
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	store := setupStore(t)

	var out snapshotPayload
	if err := store.LoadSnapshot("missing.csv", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLoadSnapshot_CorruptChecksum(t *testing.T) {
	store := setupStore(t)

	if err := store.SaveSnapshot("demo.csv", snapshotPayload{Dataset: "demo.csv"}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	path := filepath.Join(store.snapshotsDir, "demo.csv.snap")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}

	// Flip a bit in the compressed payload
	data[5] ^= 0xFF
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to corrupt snapshot: %v", err)
	}

	var out snapshotPayload
	if err := store.LoadSnapshot("demo.csv", &out); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("Expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestLoadSnapshot_Truncated(t *testing.T) {
	store := setupStore(t)

	path := filepath.Join(store.snapshotsDir, "short.snap")
	if err := os.WriteFile(path, []byte{0x00, 0x01}, 0644); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	var out snapshotPayload
	if err := store.LoadSnapshot("short", &out); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("Expected ErrCorruptSnapshot, got %v", err)
	}
}
