// Package kernels implements the three substantive ops spec.md §1 calls out
// to exercise the full op contract: Subtensor (§4.D), Argmax/Max (§4.E), and
// Gemm (§4.H), plus TransposeInplace/transpose (§4.F) and Dot (§4.G).
package kernels

import (
	"math"

	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/ndindex"

	graphErrors "tensorgraph/internal/errors"
)

// MaxIndex is the systems-language stand-in for the source's sys.maxint
// (spec.md §9 "Tuple-or-integer index payload"): the sentinel used to pad a
// Subtensor index with an open-ended slice.
const MaxIndex = math.MaxInt

// IndexEntry is the tagged variant spec.md §9 prescribes for the Subtensor
// index payload: a Slice{start,stop,step} or an Integer{i}. A Go
// implementation has no heterogeneous tuple, so a Subtensor's index is
// carried as a []IndexEntry rather than an opaque Result wrapping one.
type IndexEntry struct {
	IsInt bool
	Int   int

	Start, Stop, Step int
}

// Slice builds a slice-valued index entry.
func Slice(start, stop, step int) IndexEntry {
	if step == 0 {
		step = 1
	}
	return IndexEntry{Start: start, Stop: stop, Step: step}
}

// Index builds an integer-valued index entry.
func Index(i int) IndexEntry {
	return IndexEntry{IsInt: true, Int: i}
}

// Subtensor is the viewing op of spec.md §4.D.
type Subtensor struct {
	*graphop.Base
	Index []IndexEntry // already padded to rank(base)
}

type subtensorSpec struct {
	index []IndexEntry
}

func (s *subtensorSpec) Nin() int  { return 1 }
func (s *subtensorSpec) Nout() int { return 1 }

func (s *subtensorSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	rank := 0
	for _, e := range s.index {
		if !e.IsInt {
			rank++
		}
	}
	return []descriptor.Pattern{descriptor.AllFalse(rank)}, nil
}

func (s *subtensorSpec) PropagateDtype(inputs []descriptor.Dtype) ([]descriptor.Dtype, error) {
	return []descriptor.Dtype{inputs[0]}, nil
}

func padIndex(index []IndexEntry, rank int) []IndexEntry {
	out := append([]IndexEntry(nil), index...)
	for len(out) < rank {
		out = append(out, Slice(0, MaxIndex, 1))
	}
	return out
}

// NewSubtensor builds a Subtensor of base by index, padding index on the
// right with open slices up to rank(base) (spec.md §4.D).
func NewSubtensor(base *descriptor.Result, index []IndexEntry) (*Subtensor, error) {
	if len(index) > base.Rank() {
		return nil, graphErrors.Newf(graphErrors.InvalidIndex, "Subtensor", "index of length %d exceeds rank %d", len(index), base.Rank())
	}
	padded := padIndex(index, base.Rank())
	spec := &subtensorSpec{index: padded}
	b, err := graphop.Construct(spec, "Subtensor", []interface{}{base})
	if err != nil {
		return nil, err
	}
	b.ViewMap[0] = []int{0}
	op := &Subtensor{Base: b, Index: padded}
	b.Exec = op.Perform
	return op, nil
}

// Perform is the reference evaluator. Unlike the source (spec.md §9 design
// note 4), Go's slice indexing does not distinguish a length-1 index tuple
// from a bare scalar index — applying the general n-tuple algorithm to a
// single entry already gives the right answer, so no special-cased branch
// is needed here.
func (s *Subtensor) Perform() error {
	buf := s.Inputs[0].Data()
	if buf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, s.OpName(), "input has no data")
	}
	shape := buf.Shape()

	var outShape []int
	starts := make([]int, len(shape))
	steps := make([]int, len(shape))
	outAxisOf := make([]int, len(shape))
	oAxis := 0

	for axis, e := range s.Index {
		size := shape[axis]
		if e.IsInt {
			i := e.Int
			if i < 0 {
				i += size
			}
			if i < 0 || i >= size {
				return graphErrors.Newf(graphErrors.InvalidIndex, s.OpName(), "index %d out of range for axis %d of size %d", e.Int, axis, size)
			}
			starts[axis] = i
			outAxisOf[axis] = -1
			continue
		}

		start, stop, step := e.Start, e.Stop, e.Step
		if start < 0 {
			start += size
		}
		if start < 0 {
			start = 0
		}
		if start > size {
			start = size
		}
		if stop > size {
			stop = size
		} else if stop < 0 {
			stop += size
		}
		n := 0
		if step > 0 && stop > start {
			n = (stop - start + step - 1) / step
		}
		outShape = append(outShape, n)
		starts[axis] = start
		steps[axis] = step
		outAxisOf[axis] = oAxis
		oAxis++
	}

	outBuf, err := descriptor.NewBuffer(buf.Dtype(), outShape)
	if err != nil {
		return err
	}

	total := ndindex.Product(outShape)
	multiOut := make([]int, len(outShape))
	multiIn := make([]int, len(shape))
	for flat := 0; flat < total; flat++ {
		ndindex.Unflatten(flat, outShape, multiOut)
		for axis := range shape {
			if outAxisOf[axis] == -1 {
				multiIn[axis] = starts[axis]
			} else {
				multiIn[axis] = starts[axis] + multiOut[outAxisOf[axis]]*steps[axis]
			}
		}
		outBuf.SetAt(flat, buf.At(ndindex.FlatFromMulti(multiIn, shape)))
	}
	return s.Outputs[0].SetData(outBuf)
}

// Grad is intentionally unimplemented (spec.md §4.D).
func (s *Subtensor) Grad() error {
	return graphErrors.New(graphErrors.Unimplemented, "Subtensor.grad", "gradient of Subtensor is not implemented")
}
