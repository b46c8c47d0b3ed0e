package evaluator

import "sync"

// workerEntry is what the in-memory worker cache remembers for one labelled terminal:
// the inputs hash that produced value, so a later call with the same inputs can short
// circuit without re-running the body, and a later call with different inputs knows to
// recompute.
type workerEntry struct {
	inputsHash uint64
	value      any
	valueHash  uint64
}

// workerCache is the process-lifetime, in-memory cache for Worker tasks. Unlike the
// on-disk CachedRecord it is never persisted and never consulted across process
// restarts; its only job is to avoid re-running a long-lived worker body when nothing
// about its inputs changed within the same run (or across runs in the same process).
type workerCache struct {
	mu      sync.Mutex
	entries map[string]workerEntry
}

func newWorkerCache() *workerCache {
	return &workerCache{entries: make(map[string]workerEntry)}
}

func (w *workerCache) lookup(segments string, inputsHash uint64) (workerEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[segments]
	if !ok || e.inputsHash != inputsHash {
		return workerEntry{}, false
	}
	return e, true
}

func (w *workerCache) store(segments string, e workerEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[segments] = e
}
