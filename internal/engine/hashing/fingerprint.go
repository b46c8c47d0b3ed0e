// Package hashing computes the deterministic fingerprints the group evaluator compares
// against a CachedRecord, and resolves the four filesystem paths every labelled
// terminal is evaluated against.
package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"go.kiln.dev/kiln/internal/core/ports"
)

// XXHasher implements ports.Hasher over github.com/cespare/xxhash/v2, the same stable
// hash library the teacher uses for its own input hashing (internal/adapters/fs), here
// generalized from file-content hashing to hashing ordered sequences of already-computed
// uint64 values and a task's encoded result.
type XXHasher struct{}

// NewXXHasher constructs an XXHasher.
func NewXXHasher() *XXHasher { return &XXHasher{} }

// OrderedHash folds values into one xxhash digest in order, so that permuting two
// distinct values changes the result: fingerprints are deterministic and order-sensitive.
func (XXHasher) OrderedHash(values ...uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// StructuralHash hashes the encoded bytes of a task's result value.
func (XXHasher) StructuralHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// InputsHash computes a group's inputs hash: the ordered hash of every value-hash the
// group reaches outside itself (externalValueHashes, one entry per distinct task id the
// group's tasks depend on that isn't folded into the group), plus the ordered hash of
// every task-in-group's own SideHash (sideHashes), plus the run-wide classLoaderSigHash
// seed (the build logic's own version). Equal inputs in equal order always produce the
// same hash; any upstream change, any member task's SideHash change, or a
// classLoaderSigHash bump (a logic change) invalidates every cache entry that depends
// on it.
func InputsHash(h ports.Hasher, externalValueHashes []uint64, sideHashes []uint64, classLoaderSigHash uint64) uint64 {
	externalInputsHash := h.OrderedHash(externalValueHashes...)
	groupSideHash := h.OrderedHash(sideHashes...)
	return externalInputsHash + groupSideHash + classLoaderSigHash
}
