package hashing

import (
	"path/filepath"

	"go.kiln.dev/kiln/internal/core/domain"
)

// ResolvePaths computes the four on-disk locations a labelled terminal is evaluated
// against: Out (stable directory), Dest (scratch directory for this invocation), Meta
// (the cache record), and Log (the terminal's own log file). External terminals resolve
// under externalOutRoot instead of outRoot, keeping a foreign module's outputs out of
// the root project's own output tree.
func ResolvePaths(outRoot, externalOutRoot string, nt *domain.NamedTask) domain.Paths {
	root := outRoot
	if nt.External {
		root = externalOutRoot
	}
	dir := filepath.Join(append([]string{root}, nt.Segments.Path()...)...)
	return domain.Paths{
		Out:  dir,
		Dest: filepath.Join(dir, "dest"),
		Meta: filepath.Join(dir, "meta.json"),
		Log:  filepath.Join(dir, "log.txt"),
	}
}
