package datastore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/kmcrae/sociogram/pkg/logging"
)

// ErrCorruptSnapshot is returned when a snapshot fails its checksum or
// cannot be decompressed.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot frame format: [DataLen:4][Data:N][Checksum:4] where Data is
// snappy-compressed JSON and the checksum covers the compressed bytes.

// SaveSnapshot persists a value as a compressed, checksummed snapshot so
// repeated analyses of the same dataset can be served from disk.
func (s *Store) SaveSnapshot(name string, v any) error {
	key := SanitizeFilename(name)
	if key == "" {
		return ErrInvalidName
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	compressed := snappy.Encode(nil, raw)

	buf := make([]byte, 0, 8+len(compressed))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(compressed)))
	buf = append(buf, compressed...)
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(compressed))

	path := filepath.Join(s.snapshotsDir, key+".snap")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Debug("Snapshot saved",
		logging.Dataset(key),
		logging.Int("compressed_bytes", len(compressed)),
		logging.Int("raw_bytes", len(raw)),
	)

	return nil
}

// LoadSnapshot reads a snapshot into v. Returns ErrNotFound when no snapshot
// exists and ErrCorruptSnapshot when the frame fails validation.
func (s *Store) LoadSnapshot(name string, v any) error {
	key := SanitizeFilename(name)
	if key == "" {
		return ErrInvalidName
	}

	buf, err := os.ReadFile(filepath.Join(s.snapshotsDir, key+".snap"))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(buf) < 8 {
		return ErrCorruptSnapshot
	}

	dataLen := binary.BigEndian.Uint32(buf[:4])
	if uint32(len(buf)) != 8+dataLen {
		return ErrCorruptSnapshot
	}

	compressed := buf[4 : 4+dataLen]
	checksum := binary.BigEndian.Uint32(buf[4+dataLen:])
	if crc32.ChecksumIEEE(compressed) != checksum {
		return ErrCorruptSnapshot
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return ErrCorruptSnapshot
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return nil
}
