package descriptor

import "golang.org/x/exp/slices"

// Pattern is a broadcast pattern: an ordered finite sequence of booleans,
// length = rank. Element i true means axis i has size exactly 1 and is a
// broadcast axis; false means axis i has any nonnegative size.
type Pattern []bool

// Clone returns a defensive copy, used whenever a Pattern is stored inside a
// TypedArrayResult (invariant 1 of spec.md §3: write-once after construction).
func (p Pattern) Clone() Pattern {
	return slices.Clone(p)
}

// Equal reports whether two patterns have the same length and flags.
func (p Pattern) Equal(q Pattern) bool {
	return slices.Equal(p, q)
}

// AllFalse builds a length-n pattern with every axis non-broadcast, the
// shape used by view-producing and reduction ops (Subtensor, Argmax) whose
// output size is unknown at graph-build time.
func AllFalse(n int) Pattern {
	return make(Pattern, n)
}

// PadLeft returns a copy of p padded on the left with value until it has
// length n. Used by the elementwise broadcast rule (spec.md §4.C), which
// aligns patterns rightmost.
func (p Pattern) PadLeft(n int, value bool) Pattern {
	if len(p) >= n {
		return p.Clone()
	}
	out := make(Pattern, n)
	pad := n - len(p)
	for i := 0; i < pad; i++ {
		out[i] = value
	}
	copy(out[pad:], p)
	return out
}

// ElemwiseBroadcast computes the pairwise elementwise broadcast pattern of a
// and b per spec.md Testable Property 4: align rightmost, pad the shorter
// with true on the left, axis i of the result is true only if both inputs
// are true on that axis (an axis broadcasts only if every input that has an
// opinion agrees it's a broadcast axis).
func ElemwiseBroadcast(a, b Pattern) Pattern {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	pa := a.PadLeft(n, true)
	pb := b.PadLeft(n, true)
	out := make(Pattern, n)
	for i := 0; i < n; i++ {
		out[i] = pa[i] && pb[i]
	}
	return out
}
