// Package snapshot persists season state as zstd-compressed JSON. Writes go
// through a temp file and rename, so a crash mid-write never corrupts the
// previous snapshot.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Save serializes v next to path and atomically renames it into place.
func Save(path string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("snapshot: zstd: %w", err)
	}
	compressed := enc.EncodeAll(raw, nil)
	enc.Close()

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir: %w", err)
	}
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save into v.
func Load(path string, v interface{}) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("snapshot: zstd: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("snapshot: decompress: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return nil
}
