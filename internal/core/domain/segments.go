package domain

import "strings"

// SegmentKind distinguishes the two kinds of path element a Segments value can carry.
type SegmentKind int

const (
	// SegmentLabel is a single path component, e.g. the name of a named task.
	SegmentLabel SegmentKind = iota
	// SegmentCross is a list of path components produced by a cross-product axis
	// (e.g. a task parameterized over several targets).
	SegmentCross
)

// Segment is one element of a Segments path: either a bare label or a cross-product list.
type Segment struct {
	Kind  SegmentKind
	Label string
	Cross []string
}

// Label builds a plain path segment.
func Label(s string) Segment { return Segment{Kind: SegmentLabel, Label: s} }

// Cross builds a cross-product path segment from its component values.
func Cross(values ...string) Segment { return Segment{Kind: SegmentCross, Cross: values} }

// Segments is the ordered sequence of path elements that identifies a labelled terminal
// on disk and in logs. Two terminals with equal Segments collide: the parallel scheduler
// never runs their groups at the same time.
type Segments []Segment

// String renders the segments as the dot-joined display string used in logs and as the
// parallel scheduler's collision key (e.g. "compile.[linux,amd64]"). Path, not String,
// gives the on-disk layout.
func (s Segments) String() string {
	var b strings.Builder
	for i, seg := range s {
		if i > 0 {
			b.WriteByte('.')
		}
		switch seg.Kind {
		case SegmentLabel:
			b.WriteString(seg.Label)
		case SegmentCross:
			b.WriteByte('[')
			b.WriteString(strings.Join(seg.Cross, ","))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Path renders the segments as filesystem path components, suitable for filepath.Join.
func (s Segments) Path() []string {
	parts := make([]string, 0, len(s))
	for _, seg := range s {
		switch seg.Kind {
		case SegmentLabel:
			parts = append(parts, seg.Label)
		case SegmentCross:
			parts = append(parts, strings.Join(seg.Cross, "-"))
		}
	}
	return parts
}

// Equal reports whether two Segments values denote the same path.
func (s Segments) Equal(other Segments) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		a, b := s[i], other[i]
		if a.Kind != b.Kind || a.Label != b.Label || len(a.Cross) != len(b.Cross) {
			return false
		}
		for j := range a.Cross {
			if a.Cross[j] != b.Cross[j] {
				return false
			}
		}
	}
	return true
}
