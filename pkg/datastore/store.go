package datastore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kmcrae/sociogram/pkg/logging"
)

var (
	// ErrInvalidName is returned for dataset names that are empty after
	// sanitization or attempt to escape the data directories
	ErrInvalidName = errors.New("invalid dataset name")

	// ErrNotFound is returned when a dataset does not exist
	ErrNotFound = errors.New("dataset not found")
)

// Store manages the on-disk dataset directories: user uploads, bundled
// sample datasets and analysis snapshots.
type Store struct {
	uploadsDir   string
	samplesDir   string
	snapshotsDir string
	logger       logging.Logger
}

// NewStore creates a store rooted at dataDir, creating the uploads and
// snapshots directories if needed. The samples directory is expected to ship
// with the deployment and is not created.
func NewStore(dataDir string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &Store{
		uploadsDir:   filepath.Join(dataDir, "uploads"),
		samplesDir:   filepath.Join(dataDir, "samples"),
		snapshotsDir: filepath.Join(dataDir, "snapshots"),
		logger:       logger,
	}

	for _, dir := range []string{s.uploadsDir, s.snapshotsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return s, nil
}

// UploadsDir returns the directory uploaded datasets are stored in.
func (s *Store) UploadsDir() string { return s.uploadsDir }

// SamplesDir returns the directory sample datasets are read from.
func (s *Store) SamplesDir() string { return s.samplesDir }

// SaveUpload writes an uploaded dataset under the uploads directory and
// returns the stored path. The filename is sanitized first.
func (s *Store) SaveUpload(filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrInvalidName
	}

	path := filepath.Join(s.uploadsDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Info("Dataset uploaded",
		logging.Dataset(name),
		logging.Int("bytes", int(written)),
	)

	return path, nil
}

// SamplePath resolves a sample dataset name to its path, rejecting names
// that would escape the samples directory.
func (s *Store) SamplePath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", ErrInvalidName
	}

	path := filepath.Join(s.samplesDir, name)

	// Resolve and re-check containment in case Base let something through
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidName
	}
	absRoot, err := filepath.Abs(s.samplesDir)
	if err != nil {
		return "", ErrInvalidName
	}
	if !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", ErrInvalidName
	}

	if _, err := os.Stat(abs); err != nil {
		return "", ErrNotFound
	}

	return abs, nil
}

// ListSamples returns the sample dataset filenames, sorted.
func (s *Store) ListSamples() ([]string, error) {
	entries, err := os.ReadDir(s.samplesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read samples directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded filename. Returns "" if nothing safe remains.
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), ".")
	if name == "" {
		return ""
	}
	return name
}
