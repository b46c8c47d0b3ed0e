package ports

import "go.kiln.dev/kiln/internal/core/domain"

// CacheStore persists and retrieves the meta.json CachedRecord for a labelled terminal.
// A missing record is reported as (nil, nil), never an error: the group
// evaluator treats "no record" identically to "record present but stale". A corrupt
// record on disk must also be tolerated as a miss rather than surfaced as an error,
// per the group evaluator's lenient-probe requirement.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// Read loads the CachedRecord at metaPath. Returns (nil, nil) if the file does not
	// exist or cannot be parsed; never returns a non-nil error for a corrupt record.
	Read(metaPath string) (*domain.CachedRecord, error)
	// Write atomically persists rec at metaPath.
	Write(metaPath string, rec domain.CachedRecord) error
	// Delete removes the record at metaPath, if present.
	Delete(metaPath string) error
}
