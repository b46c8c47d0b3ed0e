package evaluator

import (
	"os"

	"go.kiln.dev/kiln/internal/core/ports"
)

// RedirectStdio temporarily points the process's stdin/stdout/stderr at logger's
// streams, restoring the originals unconditionally on return. Only a logger stream that
// is an *os.File is swapped in; for any other stream the process stream stays as it
// was. This is only sound when
// exactly one task body can run at a time (the sequential driver, N==1): under a
// parallel scheduler process-global stdio is shared mutable state and must never be
// redirected this way — concurrent bodies there are expected to take stdio, if at
// all, from their own scoped Logger directly rather than os.Stdout/os.Stderr.
func RedirectStdio(logger ports.Logger, fn func()) {
	origIn, origOut, origErr := os.Stdin, os.Stdout, os.Stderr
	defer func() {
		os.Stdin, os.Stdout, os.Stderr = origIn, origOut, origErr
	}()

	if r, ok := logger.InStream().(*os.File); ok {
		os.Stdin = r
	}
	if w, ok := logger.OutStream().(*os.File); ok {
		os.Stdout = w
	}
	if w, ok := logger.ErrStream().(*os.File); ok {
		os.Stderr = w
	}
	fn()
}
