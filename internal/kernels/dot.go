package kernels

import (
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/ndindex"

	graphErrors "tensorgraph/internal/errors"
)

// Dot implements spec.md §4.G's rank-sensitive dot product.
type Dot struct {
	*graphop.Base
}

type dotSpec struct{}

func (dotSpec) Nin() int  { return 2 }
func (dotSpec) Nout() int { return 1 }

func (dotSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	bx, by := inputs[0], inputs[1]
	switch {
	case len(bx) == 0:
		return []descriptor.Pattern{by.Clone()}, nil
	case len(by) == 0:
		return []descriptor.Pattern{bx.Clone()}, nil
	case len(by) == 1:
		return []descriptor.Pattern{bx[:len(bx)-1]}, nil
	default:
		out := append(append(descriptor.Pattern{}, bx[:len(bx)-1]...), by[:len(by)-2]...)
		out = append(out, by[len(by)-1])
		return []descriptor.Pattern{out}, nil
	}
}

// NewDot builds a Dot of x and y.
func NewDot(x, y *descriptor.Result) (*Dot, error) {
	base, err := graphop.Construct(dotSpec{}, "Dot", []interface{}{x, y})
	if err != nil {
		return nil, err
	}
	op := &Dot{Base: base}
	base.Exec = op.Perform
	return op, nil
}

// Perform is the reference evaluator: the standard dot product, dispatched
// by rank per spec.md §4.G's table.
func (d *Dot) Perform() error {
	xBuf := d.Inputs[0].Data()
	yBuf := d.Inputs[1].Data()
	if xBuf == nil || yBuf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, d.OpName(), "both inputs must have data")
	}
	xs, ys := xBuf.Shape(), yBuf.Shape()
	switch {
	case len(xs) == 0 || len(ys) == 0:
		return d.performScale(xBuf, yBuf)
	case len(ys) == 1:
		return d.performMatVec(xBuf, yBuf)
	default:
		return d.performGeneral(xBuf, yBuf)
	}
}

func (d *Dot) performScale(xBuf, yBuf descriptor.Buffer) error {
	var scalarBuf, arrBuf descriptor.Buffer
	if len(xBuf.Shape()) == 0 {
		scalarBuf, arrBuf = xBuf, yBuf
	} else {
		scalarBuf, arrBuf = yBuf, xBuf
	}
	s := scalarBuf.At(0)
	outBuf, err := descriptor.NewBuffer(d.Outputs[0].Dtype(), arrBuf.Shape())
	if err != nil {
		return err
	}
	for i := 0; i < arrBuf.Size(); i++ {
		outBuf.SetAt(i, s*arrBuf.At(i))
	}
	return d.Outputs[0].SetData(outBuf)
}

func (d *Dot) performMatVec(xBuf, yBuf descriptor.Buffer) error {
	xs, ys := xBuf.Shape(), yBuf.Shape()
	k := xs[len(xs)-1]
	if ys[0] != k {
		return graphErrors.Newf(graphErrors.ShapeMismatch, d.OpName(), "inner dimensions do not match: %d vs %d", k, ys[0])
	}
	leadX := xs[:len(xs)-1]
	outBuf, err := descriptor.NewBuffer(d.Outputs[0].Dtype(), leadX)
	if err != nil {
		return err
	}
	lenLeadX := ndindex.Product(leadX)
	multi := make([]int, len(leadX))
	for ix := 0; ix < lenLeadX; ix++ {
		ndindex.Unflatten(ix, leadX, multi)
		var sum float64
		xMulti := append(append([]int{}, multi...), 0)
		for kk := 0; kk < k; kk++ {
			xMulti[len(xMulti)-1] = kk
			sum += xBuf.At(ndindex.FlatFromMulti(xMulti, xs)) * yBuf.At(kk)
		}
		outBuf.SetAt(ix, sum)
	}
	return d.Outputs[0].SetData(outBuf)
}

func (d *Dot) performGeneral(xBuf, yBuf descriptor.Buffer) error {
	xs, ys := xBuf.Shape(), yBuf.Shape()
	k := xs[len(xs)-1]
	if ys[len(ys)-2] != k {
		return graphErrors.Newf(graphErrors.ShapeMismatch, d.OpName(), "inner dimensions do not match: %d vs %d", k, ys[len(ys)-2])
	}
	leadX := xs[:len(xs)-1]
	leadY := ys[:len(ys)-2]
	n := ys[len(ys)-1]
	outShape := append(append(append([]int{}, leadX...), leadY...), n)
	outBuf, err := descriptor.NewBuffer(d.Outputs[0].Dtype(), outShape)
	if err != nil {
		return err
	}

	lenLeadX := ndindex.Product(leadX)
	lenLeadY := ndindex.Product(leadY)
	multiLeadX := make([]int, len(leadX))
	multiLeadY := make([]int, len(leadY))
	for ix := 0; ix < lenLeadX; ix++ {
		ndindex.Unflatten(ix, leadX, multiLeadX)
		for iy := 0; iy < lenLeadY; iy++ {
			ndindex.Unflatten(iy, leadY, multiLeadY)
			for nn := 0; nn < n; nn++ {
				var sum float64
				for kk := 0; kk < k; kk++ {
					xMulti := append(append([]int{}, multiLeadX...), kk)
					yMulti := append(append(append([]int{}, multiLeadY...), kk), nn)
					sum += xBuf.At(ndindex.FlatFromMulti(xMulti, xs)) * yBuf.At(ndindex.FlatFromMulti(yMulti, ys))
				}
				outMulti := append(append(append([]int{}, multiLeadX...), multiLeadY...), nn)
				outBuf.SetAt(ndindex.FlatFromMulti(outMulti, outShape), sum)
			}
		}
	}
	return d.Outputs[0].SetData(outBuf)
}

// Grad is (dot(gz, yT), dot(xT, gz)) (spec.md §4.G).
func (d *Dot) Grad(gz *descriptor.Result) (*descriptor.Result, *descriptor.Result, error) {
	x, y := d.Inputs[0], d.Inputs[1]
	yT, err := Transpose(y)
	if err != nil {
		return nil, nil, err
	}
	xT, err := Transpose(x)
	if err != nil {
		return nil, nil, err
	}
	gx, err := NewDot(gz, yT)
	if err != nil {
		return nil, nil, err
	}
	gy, err := NewDot(xT, gz)
	if err != nil {
		return nil, nil, err
	}
	return gx.Outputs[0], gy.Outputs[0], nil
}
