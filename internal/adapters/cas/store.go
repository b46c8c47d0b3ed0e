// Package cas persists each labelled terminal's CachedRecord as a meta.json file at the
// path the hashing package resolves for it.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"go.kiln.dev/kiln/internal/core/domain"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Store implements ports.CacheStore by reading and writing one meta.json file per
// labelled terminal, at the path hashing.ResolvePaths computed for it.
type Store struct{}

// NewStore constructs a Store. It owns no directory of its own: every path it is given
// is already resolved by the caller.
func NewStore() *Store { return &Store{} }

// Read loads the CachedRecord at metaPath. A missing or corrupt file is reported as
// (nil, nil): the group evaluator's cache probe must never fail a build merely because
// a previous run's record didn't survive intact.
func (s *Store) Read(metaPath string) (*domain.CachedRecord, error) {
	//nolint:gosec // metaPath is resolved by the engine from trusted segments, not user input
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, nil
	}
	var rec domain.CachedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil
	}
	return &rec, nil
}

// Write atomically persists rec at metaPath: it writes to a temp file in the same
// directory, then renames over the destination so a crash mid-write never leaves a
// half-written meta.json behind for the next run's cache probe to trip over.
func (s *Store) Write(metaPath string, rec domain.CachedRecord) error {
	dir := filepath.Dir(metaPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cached record")
	}
	tmp, err := os.CreateTemp(dir, ".meta-*.json.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp cache file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to write temp cache file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to close temp cache file")
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to chmod temp cache file")
	}
	if err := os.Rename(tmpPath, metaPath); err != nil {
		os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to rename temp cache file into place")
	}
	return nil
}

// Delete removes the record at metaPath, if present.
func (s *Store) Delete(metaPath string) error {
	if err := os.Remove(metaPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to delete cache record")
	}
	return nil
}
