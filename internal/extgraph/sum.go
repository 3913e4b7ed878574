package extgraph

import (
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/ndindex"

	graphErrors "tensorgraph/internal/errors"
)

// Sum is the reduction op spec.md §6 references as a pass-through external
// op; "sum" in the exposed surface is sugar over it. With no axis, Sum
// reduces to a scalar; with an axis (an opaque integer-valued Result,
// matching Argmax's axis convention), it reduces along that axis only.
type Sum struct {
	*graphop.Base
	HasAxis bool
}

type sumSpec struct {
	hasAxis bool
}

func (s *sumSpec) Nin() int {
	if s.hasAxis {
		return 2
	}
	return 1
}
func (s *sumSpec) Nout() int { return 1 }

func (s *sumSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	if !s.hasAxis {
		return []descriptor.Pattern{descriptor.AllFalse(0)}, nil
	}
	rank := len(inputs[0])
	if rank == 0 {
		return nil, graphErrors.New(graphErrors.InvalidAxis, "Sum", "cannot reduce a rank-0 result along an axis")
	}
	return []descriptor.Pattern{descriptor.AllFalse(rank - 1)}, nil
}

func (s *sumSpec) PropagateDtype(inputs []descriptor.Dtype) ([]descriptor.Dtype, error) {
	return []descriptor.Dtype{inputs[0]}, nil
}

// NewSum builds a Sum of x; axis may be nil for a full reduction.
func NewSum(x *descriptor.Result, axis *descriptor.Result) (*Sum, error) {
	hasAxis := axis != nil
	spec := &sumSpec{hasAxis: hasAxis}
	raw := []interface{}{x}
	if hasAxis {
		raw = append(raw, axis)
	}
	base, err := graphop.Construct(spec, "Sum", raw)
	if err != nil {
		return nil, err
	}
	op := &Sum{Base: base, HasAxis: hasAxis}
	base.Exec = op.Perform
	return op, nil
}

// Perform is the reference evaluator.
func (s *Sum) Perform() error {
	buf := s.Inputs[0].Data()
	if buf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, s.OpName(), "input has no data")
	}
	shape := buf.Shape()

	if !s.HasAxis {
		var total float64
		for i := 0; i < buf.Size(); i++ {
			total += buf.At(i)
		}
		outBuf, err := descriptor.NewBuffer(s.Outputs[0].Dtype(), nil)
		if err != nil {
			return err
		}
		outBuf.SetAt(0, total)
		return s.Outputs[0].SetData(outBuf)
	}

	axisBuf := s.Inputs[1].Data()
	if axisBuf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, s.OpName(), "axis has no data")
	}
	axis := int(axisBuf.At(0))
	if axis < 0 {
		axis += len(shape)
	}
	if axis < 0 || axis >= len(shape) {
		return graphErrors.Newf(graphErrors.InvalidAxis, s.OpName(), "axis %d out of range for rank %d", axis, len(shape))
	}

	outShape := ndindex.DropAt(shape, axis)
	outBuf, err := descriptor.NewBuffer(s.Outputs[0].Dtype(), outShape)
	if err != nil {
		return err
	}
	total := ndindex.Product(outShape)
	multiOut := make([]int, len(outShape))
	for flat := 0; flat < total; flat++ {
		ndindex.Unflatten(flat, outShape, multiOut)
		var sum float64
		for k := 0; k < shape[axis]; k++ {
			multiIn := ndindex.InsertAt(multiOut, axis, k)
			sum += buf.At(ndindex.FlatFromMulti(multiIn, shape))
		}
		outBuf.SetAt(flat, sum)
	}
	return s.Outputs[0].SetData(outBuf)
}
