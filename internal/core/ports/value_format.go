package ports

// ValueFormat serializes and deserializes a Task's result value for persistence in a
// CachedRecord. The group evaluator holds a single ValueFormat that serves every labelled
// terminal; there is no per-task registration. A value it cannot encode is not recorded,
// and a record it cannot decode is treated as a cache miss.
type ValueFormat[V any] interface {
	Read(data []byte) (V, error)
	Write(v V) ([]byte, error)
}
