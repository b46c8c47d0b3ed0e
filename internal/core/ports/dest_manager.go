package ports

// DestManager manages the lifecycle of a labelled terminal's on-disk directories: the
// stable Out directory and the scratch Dest directory a task body writes into. It never
// looks at file contents; content hashing is explicitly out of scope for this core.
//
//go:generate go run go.uber.org/mock/mockgen -source=dest_manager.go -destination=mocks/mock_dest_manager.go -package=mocks
type DestManager interface {
	// Ensure creates dir (and its parents) if it does not already exist.
	Ensure(dir string) error
	// Clean removes dir entirely and recreates it empty, used before a FlushDest task's
	// body runs so it always starts from a fresh scratch directory.
	Clean(dir string) error
}
