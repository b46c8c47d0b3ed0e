package ports

// Hasher backs the pure-function hashing engine a group's fingerprint is computed
// with: it never touches file content, only combines already-computed uint64 hashes
// deterministically and hashes a task's serialized result.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// OrderedHash combines a sequence of upstream hashes into one stable hash. Equal
	// sequences in equal order always produce the same result; reordering two
	// distinct elements must change the result for the invariant to be meaningful.
	OrderedHash(values ...uint64) uint64

	// StructuralHash hashes an arbitrary serializable value, used to compute a task
	// result's ValueHash from its encoded bytes.
	StructuralHash(data []byte) uint64
}
