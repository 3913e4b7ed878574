// Package broadcastlift is the broadcast-lift adapter of spec.md §4.C: it
// turns a scalar op (internal/scalarops) into a many-dimensional
// broadcasting array op, and ships the elementwise op families the adapter
// produces (Abs, Exp, Neg, Add, Sub, ... and their in-place siblings).
package broadcastlift

import (
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/ndindex"
	"tensorgraph/internal/scalarops"

	graphErrors "tensorgraph/internal/errors"
)

// Broadcast is the lifted array op: a *graphop.Base carrying the scalar op
// it broadcasts pointwise.
type Broadcast struct {
	*graphop.Base
	Scalar scalarops.Op
}

type liftSpec struct {
	scalar scalarops.Op
}

func (s *liftSpec) Nin() int  { return s.scalar.Nin() }
func (s *liftSpec) Nout() int { return 1 }

// PropagateBroadcastable is spec.md §4.C's rule: "the pairwise elementwise
// broadcast of its inputs (standard rule: align right, any axis that is 1
// on one side adopts the other)".
func (s *liftSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	if len(inputs) == 0 {
		return []descriptor.Pattern{{}}, nil
	}
	out := inputs[0]
	for _, p := range inputs[1:] {
		out = descriptor.ElemwiseBroadcast(out, p)
	}
	return []descriptor.Pattern{out}, nil
}

// Make returns the constructor for the out-of-place broadcasting op over
// scalar, spec.md §4.C's make_broadcast/constructor pair collapsed into one
// Go function.
func Make(scalar scalarops.Op, name string) func(inputs ...*descriptor.Result) (*Broadcast, error) {
	return func(inputs ...*descriptor.Result) (*Broadcast, error) {
		spec := &liftSpec{scalar: scalar}
		raw := make([]interface{}, len(inputs))
		for i, r := range inputs {
			raw[i] = r
		}
		base, err := graphop.Construct(spec, name, raw)
		if err != nil {
			return nil, err
		}
		op := &Broadcast{Base: base, Scalar: scalar}
		base.Exec = op.Perform
		return op, nil
	}
}

// MakeInplace returns the constructor for the in-place sibling: same
// broadcast algebra, but destroy_map = {0: [0]} (spec.md §4.C).
func MakeInplace(scalar scalarops.Op, name string) func(inputs ...*descriptor.Result) (*Broadcast, error) {
	ctor := Make(scalar, name+"Inplace")
	return func(inputs ...*descriptor.Result) (*Broadcast, error) {
		op, err := ctor(inputs...)
		if err != nil {
			return nil, err
		}
		op.DestroyMap[0] = []int{0}
		return op, nil
	}
}

func broadcastShape(bufs []descriptor.Buffer) ([]int, error) {
	maxRank := 0
	for _, b := range bufs {
		if b.Rank() > maxRank {
			maxRank = b.Rank()
		}
	}
	shape := make([]int, maxRank)
	for _, b := range bufs {
		s := b.Shape()
		off := maxRank - len(s)
		for i, d := range s {
			axis := off + i
			if d == 1 {
				continue
			}
			if shape[axis] != 0 && shape[axis] != d {
				return nil, graphErrors.Newf(graphErrors.ShapeMismatch, "broadcastlift", "incompatible shapes at axis %d", axis)
			}
			shape[axis] = d
		}
	}
	for i := range shape {
		if shape[i] == 0 {
			shape[i] = 1
		}
	}
	return shape, nil
}

func indexInto(bufShape, outShape []int) func(outMulti []int) []int {
	off := len(outShape) - len(bufShape)
	return func(outMulti []int) []int {
		idx := make([]int, len(bufShape))
		for i, d := range bufShape {
			if d == 1 {
				idx[i] = 0
			} else {
				idx[i] = outMulti[off+i]
			}
		}
		return idx
	}
}

// Perform is the reference evaluator of spec.md §9 "two execution modes":
// it broadcasts every input buffer against the others and applies the
// scalar op pointwise. When the op is in-place (destroy_map[0] = [0]), the
// output reuses the destroyed input's buffer object rather than allocating
// a fresh one — this assumes (as spec.md's in-place elementwise family
// does) that the destroyed input's own shape already equals the broadcast
// output shape, so writing and reading the same buffer at the same flat
// positions is safe.
func (b *Broadcast) Perform() error {
	bufs := make([]descriptor.Buffer, len(b.Inputs))
	for i, in := range b.Inputs {
		if in.Data() == nil {
			return graphErrors.Newf(graphErrors.NotImplementedType, b.OpName(), "input %d has no data", i)
		}
		bufs[i] = in.Data()
	}
	outShape, err := broadcastShape(bufs)
	if err != nil {
		return err
	}

	var outBuf descriptor.Buffer
	if ks, ok := b.DestroyMap[0]; ok {
		outBuf = bufs[ks[0]]
	} else {
		outBuf, err = descriptor.NewBuffer(b.Outputs[0].Dtype(), outShape)
		if err != nil {
			return err
		}
	}

	indexers := make([]func([]int) []int, len(bufs))
	for i, buf := range bufs {
		indexers[i] = indexInto(buf.Shape(), outShape)
	}

	size := ndindex.Product(outShape)
	multi := make([]int, len(outShape))
	args := make([]float64, len(bufs))
	for flat := 0; flat < size; flat++ {
		ndindex.Unflatten(flat, outShape, multi)
		for i, buf := range bufs {
			idx := indexers[i](multi)
			args[i] = buf.At(ndindex.FlatFromMulti(idx, buf.Shape()))
		}
		v, err := b.Scalar.Apply(args...)
		if err != nil {
			return err
		}
		outBuf.SetAt(flat, v)
	}
	return b.Outputs[0].SetData(outBuf)
}
