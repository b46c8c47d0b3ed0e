package domain

// Paths are the four filesystem locations resolved for a labelled terminal:
// Out is the terminal's stable directory, Dest is the scratch directory handed to the
// body via Context.Dest, Meta is the meta.json cache record, and Log is the resolved
// per-terminal log file path; no logger in this module writes to it.
type Paths struct {
	Out  string
	Dest string
	Meta string
	Log  string
}
