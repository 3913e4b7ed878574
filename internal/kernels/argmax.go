package kernels

import (
	"math"

	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/ndindex"

	graphErrors "tensorgraph/internal/errors"
)

// Argmax is the axis-reducing op of spec.md §4.E: two outputs, (maxval,
// argidx), axis carried as an opaque integer-valued Result.
type Argmax struct {
	*graphop.Base
}

type argmaxSpec struct{}

func (argmaxSpec) Nin() int  { return 2 }
func (argmaxSpec) Nout() int { return 2 }

func (argmaxSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	rank := len(inputs[0])
	if rank == 0 {
		return nil, graphErrors.New(graphErrors.InvalidAxis, "Argmax", "cannot reduce a rank-0 result")
	}
	out := descriptor.AllFalse(rank - 1)
	return []descriptor.Pattern{out, out.Clone()}, nil
}

func (argmaxSpec) PropagateDtype(inputs []descriptor.Dtype) ([]descriptor.Dtype, error) {
	// maxval takes x's dtype, argidx takes axis's dtype (spec.md §4.E).
	return []descriptor.Dtype{inputs[0], inputs[1]}, nil
}

// AxisScalar wraps a concrete axis index as the opaque integer-valued
// Result spec.md §4.E requires Argmax/Sum's axis argument to be.
func AxisScalar(axis int) *descriptor.Result {
	r := descriptor.MustNew(descriptor.Int64, descriptor.Pattern{}, "")
	buf, err := descriptor.NewBufferFromFloats(descriptor.Int64, nil, []float64{float64(axis)})
	if err != nil {
		panic(err)
	}
	if err := r.SetData(buf); err != nil {
		panic(err)
	}
	return r
}

// NewArgmax builds an Argmax of x along axis. A nil axis defaults to x's
// last axis (spec.md §4.E).
func NewArgmax(x *descriptor.Result, axis *descriptor.Result) (*Argmax, error) {
	if axis == nil {
		if x.Rank() == 0 {
			return nil, graphErrors.New(graphErrors.InvalidAxis, "Argmax", "cannot default an axis for a rank-0 result")
		}
		axis = AxisScalar(x.Rank() - 1)
	}
	base, err := graphop.Construct(argmaxSpec{}, "Argmax", []interface{}{x, axis})
	if err != nil {
		return nil, err
	}
	op := &Argmax{Base: base}
	base.Exec = op.Perform
	return op, nil
}

// Perform is the reference evaluator: scan along the resolved axis,
// tracking the running maximum and its index.
func (a *Argmax) Perform() error {
	xBuf := a.Inputs[0].Data()
	axBuf := a.Inputs[1].Data()
	if xBuf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, a.OpName(), "x has no data")
	}
	if axBuf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, a.OpName(), "axis has no data")
	}
	shape := xBuf.Shape()
	axis := int(axBuf.At(0))
	if axis < 0 {
		axis += len(shape)
	}
	if axis < 0 || axis >= len(shape) {
		return graphErrors.Newf(graphErrors.InvalidAxis, a.OpName(), "axis %d out of range for rank %d", axis, len(shape))
	}

	outShape := ndindex.DropAt(shape, axis)
	maxBuf, err := descriptor.NewBuffer(a.Outputs[0].Dtype(), outShape)
	if err != nil {
		return err
	}
	argBuf, err := descriptor.NewBuffer(a.Outputs[1].Dtype(), outShape)
	if err != nil {
		return err
	}

	total := ndindex.Product(outShape)
	multiOut := make([]int, len(outShape))
	for flat := 0; flat < total; flat++ {
		ndindex.Unflatten(flat, outShape, multiOut)
		best := math.Inf(-1)
		bestIdx := 0
		for k := 0; k < shape[axis]; k++ {
			multiIn := ndindex.InsertAt(multiOut, axis, k)
			v := xBuf.At(ndindex.FlatFromMulti(multiIn, shape))
			if k == 0 || v > best {
				best = v
				bestIdx = k
			}
		}
		maxBuf.SetAt(flat, best)
		argBuf.SetAt(flat, float64(bestIdx))
	}

	if err := a.Outputs[0].SetData(maxBuf); err != nil {
		return err
	}
	return a.Outputs[1].SetData(argBuf)
}

// Max is sugar for argmax(x, axis)[0] (spec.md §4.E).
func Max(x *descriptor.Result, axis *descriptor.Result) (*descriptor.Result, error) {
	am, err := NewArgmax(x, axis)
	if err != nil {
		return nil, err
	}
	return am.Outputs[0], nil
}
