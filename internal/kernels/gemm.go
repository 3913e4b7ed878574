package kernels

import (
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"

	graphErrors "tensorgraph/internal/errors"
)

// Gemm is the in-place fused BLAS multiply-accumulate of spec.md §4.H:
// z <- b*z + a*(x*y), computed in place (destroy_map = {0: [0]}).
type Gemm struct {
	*graphop.Base
}

type gemmSpec struct{}

func (gemmSpec) Nin() int  { return 5 }
func (gemmSpec) Nout() int { return 1 }

// PropagateBroadcastable: the output replaces z in place, so it keeps z's
// descriptor exactly.
func (gemmSpec) PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error) {
	return []descriptor.Pattern{inputs[0].Clone()}, nil
}

func (gemmSpec) PropagateDtype(inputs []descriptor.Dtype) ([]descriptor.Dtype, error) {
	return []descriptor.Dtype{inputs[0]}, nil
}

// NewGemm builds a Gemm(z, a, x, y, b). Inputs are positional: z, a, x, y, b.
func NewGemm(z, a, x, y, b *descriptor.Result) (*Gemm, error) {
	if z.Rank() != 2 || x.Rank() != 2 || y.Rank() != 2 {
		return nil, graphErrors.New(graphErrors.RankRestriction, "Gemm", "z, x, y must be rank 2")
	}
	if a.Rank() != 0 || b.Rank() != 0 {
		return nil, graphErrors.New(graphErrors.ScalarRequired, "Gemm", "a and b must be scalar")
	}

	zRoots := graphop.ViewRoots(z)
	if graphop.RootsIntersect(zRoots, graphop.ViewRoots(x)) || graphop.RootsIntersect(zRoots, graphop.ViewRoots(y)) {
		return nil, graphErrors.New(graphErrors.ZAliasesInput, "Gemm", "z aliased to x or y")
	}

	base, err := graphop.Construct(gemmSpec{}, "Gemm", []interface{}{z, a, x, y, b})
	if err != nil {
		return nil, err
	}
	base.DestroyMap[0] = []int{0}
	op := &Gemm{Base: base}
	base.Exec = op.Perform
	return op, nil
}

func matmul2D(x, y descriptor.Buffer, outDtype descriptor.Dtype) (descriptor.Buffer, error) {
	xs, ys := x.Shape(), y.Shape()
	if xs[1] != ys[0] {
		return nil, graphErrors.Newf(graphErrors.ShapeMismatch, "Gemm", "inner dimensions do not match: %d vs %d", xs[1], ys[0])
	}
	out, err := descriptor.NewBuffer(outDtype, []int{xs[0], ys[1]})
	if err != nil {
		return nil, err
	}
	for i := 0; i < xs[0]; i++ {
		for j := 0; j < ys[1]; j++ {
			var sum float64
			for k := 0; k < xs[1]; k++ {
				sum += x.At(i*xs[1]+k) * y.At(k*ys[1]+j)
			}
			out.SetAt(i*ys[1]+j, sum)
		}
	}
	return out, nil
}

// Perform is the reference evaluator. spec.md §9 Open Question 3 notes the
// source's scalar-z branch writes z*a + b*(x*y), disagreeing with the
// native kernel's b*z + a*(x*y); this implementation uses the native
// semantics throughout, per the spec's own "prefer the native-kernel
// semantics as authoritative".
func (g *Gemm) Perform() error {
	zBuf := g.Inputs[0].Data()
	aBuf := g.Inputs[1].Data()
	xBuf := g.Inputs[2].Data()
	yBuf := g.Inputs[3].Data()
	bBuf := g.Inputs[4].Data()
	if zBuf == nil || aBuf == nil || xBuf == nil || yBuf == nil || bBuf == nil {
		return graphErrors.Newf(graphErrors.NotImplementedType, g.OpName(), "all five inputs must have data")
	}

	a := aBuf.At(0)
	b := bBuf.At(0)

	xy, err := matmul2D(xBuf, yBuf, g.Outputs[0].Dtype())
	if err != nil {
		return err
	}
	zs, xys := zBuf.Shape(), xy.Shape()
	if zs[0] != xys[0] || zs[1] != xys[1] {
		return graphErrors.Newf(graphErrors.ShapeMismatch, g.OpName(), "x*y has shape %v, z has shape %v", xys, zs)
	}

	size := zBuf.Size()
	switch {
	case b == 0 && a == 1:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, xy.At(i))
		}
	case b == 0 && a == -1:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, -xy.At(i))
		}
	case b == 0:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, a*xy.At(i))
		}
	case b == 1 && a == 1:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, zBuf.At(i)+xy.At(i))
		}
	case b == 1 && a == -1:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, zBuf.At(i)-xy.At(i))
		}
	case b == 1:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, zBuf.At(i)+a*xy.At(i))
		}
	default:
		for i := 0; i < size; i++ {
			zBuf.SetAt(i, zBuf.At(i)*b+a*xy.At(i))
		}
	}

	// The output is the same buffer object z started with (identity, not
	// copy), per spec.md Testable Property 8.
	return g.Outputs[0].SetData(zBuf)
}

// Grad of Gemm is not supplied (spec.md §4.H).
func (g *Gemm) Grad() error {
	return graphErrors.New(graphErrors.Unimplemented, "Gemm.grad", "gradient of Gemm is not implemented")
}
