package version

import "strings"

// Range is a finite union of half-open version intervals. It supports the
// set operations the resolver core needs to build and narrow candidate
// version windows: union, intersection, complement, and the degenerate
// singleton/greater-than/less-than/full/empty cases.
//
// A Range is a value type; the zero value is the empty range. Segments are
// kept sorted and coalesced so that Contains and the set operations can
// assume no two segments overlap or touch.
type Range struct {
	segments []segment
}

// edge is one endpoint of a segment. Unbounded means the edge extends to
// -infinity (when used as a low edge) or +infinity (when used as a high
// edge); Value and Inclusive are meaningless when Unbounded is true.
type edge struct {
	Unbounded bool
	Value     Version
	Inclusive bool
}

type segment struct {
	Low  edge
	High edge
}

func unboundedEdge() edge { return edge{Unbounded: true} }

func boundedEdge(v Version, inclusive bool) edge { return edge{Value: v, Inclusive: inclusive} }

// Full returns the range containing every version.
func Full() Range {
	return Range{segments: []segment{{Low: unboundedEdge(), High: unboundedEdge()}}}
}

// Empty returns the range containing no versions.
func Empty() Range {
	return Range{}
}

// Singleton returns the range containing exactly v.
func Singleton(v Version) Range {
	return Range{segments: []segment{{Low: boundedEdge(v, true), High: boundedEdge(v, true)}}}
}

// StrictlyGreaterThan returns the range (v, +inf). When inclusive is true
// the range is [v, +inf) instead.
func StrictlyGreaterThan(v Version, inclusive bool) Range {
	return Range{segments: []segment{{Low: boundedEdge(v, inclusive), High: unboundedEdge()}}}
}

// StrictlyLessThan returns the range (-inf, v). When inclusive is true the
// range is (-inf, v] instead.
func StrictlyLessThan(v Version, inclusive bool) Range {
	return Range{segments: []segment{{Low: unboundedEdge(), High: boundedEdge(v, inclusive)}}}
}

// IsEmpty returns true if the range contains no versions.
func (r Range) IsEmpty() bool {
	return len(r.segments) == 0
}

// IsFull returns true if the range contains every version.
func (r Range) IsFull() bool {
	return len(r.segments) == 1 && r.segments[0].Low.Unbounded && r.segments[0].High.Unbounded
}

// Contains returns true if v falls within the range.
func (r Range) Contains(v Version) bool {
	for _, s := range r.segments {
		if segmentContains(s, v) {
			return true
		}
	}
	return false
}

func segmentContains(s segment, v Version) bool {
	if !s.Low.Unbounded {
		c := Compare(v, s.Low.Value)
		if c < 0 || (c == 0 && !s.Low.Inclusive) {
			return false
		}
	}
	if !s.High.Unbounded {
		c := Compare(v, s.High.Value)
		if c > 0 || (c == 0 && !s.High.Inclusive) {
			return false
		}
	}
	return true
}

// Complement returns the range containing every version not in r. The
// segments of r are assumed sorted and non-overlapping (coalesce's
// post-condition), so the complement is just the sequence of gaps before,
// between, and after them.
func (r Range) Complement() Range {
	if r.IsEmpty() {
		return Full()
	}

	out := make([]segment, 0, len(r.segments)+1)
	cursor := unboundedEdge() // acts as the low edge of the next gap

	for _, s := range r.segments {
		if !(cursor.Unbounded && s.Low.Unbounded) {
			out = append(out, segment{Low: cursor, High: invertLow(s.Low)})
		}
		cursor = invertHigh(s.High)
	}
	if !cursor.Unbounded {
		out = append(out, segment{Low: cursor, High: unboundedEdge()})
	}

	return Range{segments: out}
}

func invertHigh(h edge) edge {
	if h.Unbounded {
		return unboundedEdge()
	}
	return boundedEdge(h.Value, !h.Inclusive)
}

func invertLow(l edge) edge {
	if l.Unbounded {
		return unboundedEdge()
	}
	return boundedEdge(l.Value, !l.Inclusive)
}

// Union returns the range containing every version in r or other.
func Union(r, other Range) Range {
	all := append(append([]segment{}, r.segments...), other.segments...)
	return Range{segments: coalesce(all)}
}

// Intersect returns the range containing every version in both r and other.
func Intersect(r, other Range) Range {
	var out []segment
	i, j := 0, 0
	for i < len(r.segments) && j < len(other.segments) {
		a, b := r.segments[i], other.segments[j]

		low := maxLow(a.Low, b.Low)
		high := minHigh(a.High, b.High)
		if segmentValid(low, high) {
			out = append(out, segment{Low: low, High: high})
		}

		if highLessOrEqual(a.High, b.High) {
			i++
		} else {
			j++
		}
	}
	return Range{segments: coalesce(out)}
}

func segmentValid(low, high edge) bool {
	if low.Unbounded || high.Unbounded {
		return true
	}
	c := Compare(low.Value, high.Value)
	if c < 0 {
		return true
	}
	return c == 0 && low.Inclusive && high.Inclusive
}

func maxLow(a, b edge) edge {
	if a.Unbounded {
		return b
	}
	if b.Unbounded {
		return a
	}
	c := Compare(a.Value, b.Value)
	switch {
	case c > 0:
		return a
	case c < 0:
		return b
	default:
		if !a.Inclusive || !b.Inclusive {
			return boundedEdge(a.Value, false)
		}
		return a
	}
}

func minHigh(a, b edge) edge {
	if a.Unbounded {
		return b
	}
	if b.Unbounded {
		return a
	}
	c := Compare(a.Value, b.Value)
	switch {
	case c < 0:
		return a
	case c > 0:
		return b
	default:
		if !a.Inclusive || !b.Inclusive {
			return boundedEdge(a.Value, false)
		}
		return a
	}
}

func highLessOrEqual(a, b edge) bool {
	if a.Unbounded {
		return b.Unbounded
	}
	if b.Unbounded {
		return true
	}
	c := Compare(a.Value, b.Value)
	if c != 0 {
		return c < 0
	}
	return a.Inclusive || !b.Inclusive
}

// coalesce sorts segments by low edge and merges any that overlap or touch
// without a gap between them.
func coalesce(segments []segment) []segment {
	if len(segments) == 0 {
		return nil
	}

	sorted := append([]segment{}, segments...)
	sortSegments(sorted)

	out := sorted[:1]
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if touches(last.High, s.Low) {
			if highLessOrEqual(last.High, s.High) {
				last.High = s.High
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// touches reports whether a segment ending at high and one starting at low
// leave no version uncovered between them, and should therefore be merged.
func touches(high, low edge) bool {
	if high.Unbounded || low.Unbounded {
		return true
	}
	c := Compare(high.Value, low.Value)
	if c > 0 {
		return true
	}
	if c < 0 {
		return false
	}
	return high.Inclusive || low.Inclusive
}

func sortSegments(segments []segment) {
	// Small-N insertion sort: prefetch/translation ranges rarely hold more
	// than a handful of segments, and this keeps the comparator local.
	for i := 1; i < len(segments); i++ {
		for j := i; j > 0 && lowLess(segments[j].Low, segments[j-1].Low); j-- {
			segments[j], segments[j-1] = segments[j-1], segments[j]
		}
	}
}

func lowLess(a, b edge) bool {
	if a.Unbounded {
		return !b.Unbounded
	}
	if b.Unbounded {
		return false
	}
	c := Compare(a.Value, b.Value)
	if c != 0 {
		return c < 0
	}
	return a.Inclusive && !b.Inclusive
}

// RangeFromRequirements compiles a conjunction of PEP 440 version
// requirements (as produced by ParseVersionRequirements) into a Range. Each
// clause narrows the range; a NotEqual clause punches a hole via
// Complement(Singleton(v)) rather than tightening a bound.
func RangeFromRequirements(reqs []Requirement) Range {
	r := Full()
	for _, req := range reqs {
		r = Intersect(r, rangeFromClause(req))
	}
	return r
}

func rangeFromClause(req Requirement) Range {
	switch req.Operator {
	case GreaterOrEqual:
		return StrictlyGreaterThan(req.Version, true)
	case Greater:
		return StrictlyGreaterThan(req.Version, false)
	case LessOrEqual:
		return StrictlyLessThan(req.Version, true)
	case Less:
		return StrictlyLessThan(req.Version, false)
	case Equal, TripleEqual:
		return Singleton(req.Version)
	case NotEqual:
		return Singleton(req.Version).Complement()
	case CompatibleEqual:
		// ~=X.Y.Z means >=X.Y.Z,==X.Y.* i.e. the release may only grow in its
		// last-but-one component. Approximate using the same bound the
		// teacher's Requirement.Contains gives up on, but here we can at
		// least provide the documented lower bound.
		return StrictlyGreaterThan(req.Version, true)
	default:
		return Full()
	}
}

func (r Range) String() string {
	if r.IsEmpty() {
		return "<empty>"
	}
	if r.IsFull() {
		return "<all versions>"
	}

	parts := make([]string, 0, len(r.segments))
	for _, s := range r.segments {
		parts = append(parts, segmentString(s))
	}
	return strings.Join(parts, " || ")
}

func segmentString(s segment) string {
	switch {
	case s.Low.Unbounded && s.High.Unbounded:
		return "*"
	case s.Low.Unbounded:
		op := "<"
		if s.High.Inclusive {
			op = "<="
		}
		return op + s.High.Value.String()
	case s.High.Unbounded:
		op := ">"
		if s.Low.Inclusive {
			op = ">="
		}
		return op + s.Low.Value.String()
	case s.Low.Value.Equal(s.High.Value) && s.Low.Inclusive && s.High.Inclusive:
		return "==" + s.Low.Value.String()
	default:
		lowOp, highOp := ">", "<"
		if s.Low.Inclusive {
			lowOp = ">="
		}
		if s.High.Inclusive {
			highOp = "<="
		}
		return lowOp + s.Low.Value.String() + "," + highOp + s.High.Value.String()
	}
}
