// Package fs implements ports.DestManager: creating and recycling the on-disk
// directories a labelled terminal's body is evaluated against. Content hashing and glob
// resolution, which the teacher's fs package also carried, have no role here — the
// hashing engine works purely over already-computed uint64 values (see
// internal/engine/hashing) rather than file contents, so that machinery is dropped
// rather than kept unwired.
package fs

import (
	"os"

	"go.trai.ch/zerr"

	"go.kiln.dev/kiln/internal/core/ports"
)

const dirPerm = 0o750

var _ ports.DestManager = (*DestManager)(nil)

// DestManager implements ports.DestManager using the standard library's os package:
// every path it is given is already resolved by hashing.ResolvePaths, so this adapter
// never does any path construction of its own.
type DestManager struct{}

// NewDestManager constructs a DestManager.
func NewDestManager() *DestManager { return &DestManager{} }

// Ensure creates dir and its parents if they do not already exist, leaving any existing
// contents untouched (the non-FlushDest path).
func (DestManager) Ensure(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to ensure dest directory"), "dir", dir)
	}
	return nil
}

// Clean removes dir entirely and recreates it empty, so a FlushDest task's body always
// starts from a fresh scratch directory.
func (DestManager) Clean(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove dest directory"), "dir", dir)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to recreate dest directory"), "dir", dir)
	}
	return nil
}
