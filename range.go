package textlayout

// Range is a half-open interval [Begin, End) of character offsets or
// line numbers.
type Range struct {
	Begin int
	End   int
}

// Len returns End - Begin, or 0 for an inverted range.
func (r Range) Len() int { return max(r.End-r.Begin, 0) }

// Empty reports whether the range contains nothing.
func (r Range) Empty() bool { return r.Begin >= r.End }

// Contains reports whether pos is in [Begin, End).
func (r Range) Contains(pos int) bool { return pos >= r.Begin && pos < r.End }

// Intersect returns the overlap of r and o; it is empty when they are disjoint.
func (r Range) Intersect(o Range) Range {
	out := Range{Begin: max(r.Begin, o.Begin), End: min(r.End, o.End)}
	if out.End < out.Begin {
		out.End = out.Begin
	}
	return out
}

// Union returns the smallest range that covers r and o.
// An empty operand is ignored.
func (r Range) Union(o Range) Range {
	switch {
	case r.Empty():
		return o
	case o.Empty():
		return r
	}
	return Range{Begin: min(r.Begin, o.Begin), End: max(r.End, o.End)}
}
