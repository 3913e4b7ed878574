// Package extgraph implements the handful of external collaborators
// spec.md §1/§6 says are "consumed only through a small interface" but for
// which no upstream package exists in this repo: DimShuffle (axis
// permutation) and Sum (reduction). Both are minimal, faithful
// implementations — just enough to let TransposeInplace/transpose (§4.F)
// and the sum() helper work end-to-end.
package extgraph

import (
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/ndindex"

	graphErrors "tensorgraph/internal/errors"
)

// DimShuffle permutes a Result's axes. TransposeInplace (internal/kernels)
// is DimShuffle with the reversal permutation and Inplace set, per
// spec.md §4.F.
type DimShuffle struct {
	*graphop.Base
	Perm    []int
	Inplace bool
}

type dimshuffleSpec struct {
	perm []int
}

func (s *dimshuffleSpec) Nin() int  { return 1 }
func (s *dimshuffleSpec) Nout() int { return 1 }

func (s *dimshuffleSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	in := inputs[0]
	if len(s.perm) != len(in) {
		return nil, graphErrors.Newf(graphErrors.InvalidIndex, "DimShuffle", "permutation length %d does not match rank %d", len(s.perm), len(in))
	}
	out := make(descriptor.Pattern, len(s.perm))
	for i, p := range s.perm {
		out[i] = in[p]
	}
	return []descriptor.Pattern{out}, nil
}

// NewDimShuffle builds a DimShuffle of x by perm. If inplace, the output
// overwrites x's storage (destroy_map = {0: [0]}); otherwise it is declared
// a view of x (view_map = {0: [0]}).
func NewDimShuffle(x *descriptor.Result, perm []int, inplace bool, name string) (*DimShuffle, error) {
	spec := &dimshuffleSpec{perm: perm}
	base, err := graphop.Construct(spec, name, []interface{}{x})
	if err != nil {
		return nil, err
	}
	if inplace {
		base.DestroyMap[0] = []int{0}
	} else {
		base.ViewMap[0] = []int{0}
	}
	op := &DimShuffle{Base: base, Perm: append([]int(nil), perm...), Inplace: inplace}
	base.Exec = op.Perform
	return op, nil
}

// Perform is the reference evaluator: it materializes the permuted values
// into a freshly shaped buffer. True zero-copy strided aliasing (what
// view_map/destroy_map describe for the scheduler) belongs to the native
// code-generation path (spec.md §9: "exact native syntax is
// implementation-defined"); the reference evaluator's job is correct
// values, which this gives regardless of whether the result is, at the
// storage level, a view or a copy.
func (d *DimShuffle) Perform() error {
	buf := d.Inputs[0].Data()
	if buf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, d.OpName(), "input has no data")
	}
	shape := buf.Shape()
	outShape := make([]int, len(d.Perm))
	for i, p := range d.Perm {
		outShape[i] = shape[p]
	}
	outBuf, err := descriptor.NewBuffer(d.Outputs[0].Dtype(), outShape)
	if err != nil {
		return err
	}

	size := ndindex.Product(outShape)
	multiOut := make([]int, len(outShape))
	multiIn := make([]int, len(shape))
	for flat := 0; flat < size; flat++ {
		ndindex.Unflatten(flat, outShape, multiOut)
		for i, p := range d.Perm {
			multiIn[p] = multiOut[i]
		}
		outBuf.SetAt(flat, buf.At(ndindex.FlatFromMulti(multiIn, shape)))
	}
	return d.Outputs[0].SetData(outBuf)
}
