package kernels

import (
	"tensorgraph/internal/descriptor"

	graphErrors "tensorgraph/internal/errors"

	"gonum.org/v1/gonum/blas"
	blasimpl "gonum.org/v1/gonum/blas/gonum"
)

// NativeGemm is the native-codegen counterpart of Gemm.Perform, described by
// spec.md §4.H as dispatching on a 12-bit composite layout code built from
// each operand's 2-bit row-major/column-major/other tag and calling a
// Fortran sgemm_/dgemm_ symbol directly. This implementation targets
// gonum's pure-Go BLAS (gonum.org/v1/gonum/blas/gonum) instead of a linked
// Fortran symbol, which is natively row-major rather than column-major.
// Because of that, the swap-args-vs-call-directly branch the source's
// table keys off z's tag is inverted here relative to the literal table:
// a row-major z (tag 0) is the direct case for gonum, where the source's
// Fortran-oriented table would have treated it as the swapped case. The
// arithmetic result is identical either way; only which operand gonum
// is told to treat as "C" changes.
var blasImpl = blasimpl.Implementation{}

func gemmOperand(buf descriptor.Buffer, op string) (trans blas.Transpose, ld int, err error) {
	shape := buf.Shape()
	strides := buf.Strides()
	if len(shape) != 2 {
		return 0, 0, graphErrors.New(graphErrors.RankRestriction, op, "gemm only works for rank 2")
	}
	rows, cols := shape[0], shape[1]

	switch {
	case cols <= 1 || strides[1] == 1:
		// Row-major (or degenerate single-column): leading dimension is the
		// row stride, substituting cols when rows == 1 so ld is never 0.
		ld = strides[0]
		if rows <= 1 {
			ld = cols
		}
		return blas.NoTrans, ld, nil
	case rows <= 1 || strides[0] == 1:
		// Column-major: present it to gonum as the transpose of a row-major
		// matrix, with leading dimension the column stride.
		ld = strides[1]
		if cols <= 1 {
			ld = rows
		}
		return blas.Trans, ld, nil
	default:
		return 0, 0, graphErrors.Newf(graphErrors.NonUnitStride, op, "operand has non-unit stride on both axes: %v", strides)
	}
}

func rawFloat64(buf descriptor.Buffer, op string) ([]float64, error) {
	tb, ok := buf.(*descriptor.TypedBuffer[float64])
	if !ok {
		return nil, graphErrors.Newf(graphErrors.NotImplementedType, op, "expected float64 storage, got %T", buf)
	}
	return tb.Data, nil
}

func rawFloat32(buf descriptor.Buffer, op string) ([]float32, error) {
	tb, ok := buf.(*descriptor.TypedBuffer[float32])
	if !ok {
		return nil, graphErrors.Newf(graphErrors.NotImplementedType, op, "expected float32 storage, got %T", buf)
	}
	return tb.Data, nil
}

// NativeGemm computes z <- b*z + a*(x*y) in place via gonum's BLAS Level-3
// Dgemm/Sgemm, dispatching on dtype and on each operand's memory layout.
func NativeGemm(z, x, y descriptor.Buffer, a, b float64) error {
	const op = "Gemm.native"
	zs, xs, ys := z.Shape(), x.Shape(), y.Shape()
	if len(zs) != 2 || len(xs) != 2 || len(ys) != 2 {
		return graphErrors.New(graphErrors.RankRestriction, op, "gemm only works for rank 2")
	}
	m, k, n := xs[0], xs[1], ys[1]
	if ys[0] != k {
		return graphErrors.Newf(graphErrors.ShapeMismatch, op, "inner dimensions do not match: %d vs %d", k, ys[0])
	}
	if zs[0] != m || zs[1] != n {
		return graphErrors.Newf(graphErrors.ShapeMismatch, op, "z has shape %v, expected [%d %d]", zs, m, n)
	}
	if z.Dtype() != x.Dtype() || z.Dtype() != y.Dtype() {
		return graphErrors.Newf(graphErrors.NotImplementedType, op, "mixed dtypes %s/%s/%s", z.Dtype(), x.Dtype(), y.Dtype())
	}

	zTrans, zld, err := gemmOperand(z, op)
	if err != nil {
		return err
	}
	xTrans, xld, err := gemmOperand(x, op)
	if err != nil {
		return err
	}
	yTrans, yld, err := gemmOperand(y, op)
	if err != nil {
		return err
	}

	// gonum's Dgemm/Sgemm always write C in row-major order. When z is
	// naturally row-major (zTrans == NoTrans) we call it directly; when z
	// is column-major we instead compute z^T = y^T*x^T into the same
	// backing memory, which is z itself reinterpreted row-major.
	direct := zTrans == blas.NoTrans

	switch z.Dtype() {
	case descriptor.Float64:
		zd, err := rawFloat64(z, op)
		if err != nil {
			return err
		}
		xd, err := rawFloat64(x, op)
		if err != nil {
			return err
		}
		yd, err := rawFloat64(y, op)
		if err != nil {
			return err
		}
		if direct {
			blasImpl.Dgemm(xTrans, yTrans, m, n, k, a, xd, xld, yd, yld, b, zd, zld)
		} else {
			blasImpl.Dgemm(flip(yTrans), flip(xTrans), n, m, k, a, yd, yld, xd, xld, b, zd, zld)
		}
	case descriptor.Float32:
		zd, err := rawFloat32(z, op)
		if err != nil {
			return err
		}
		xd, err := rawFloat32(x, op)
		if err != nil {
			return err
		}
		yd, err := rawFloat32(y, op)
		if err != nil {
			return err
		}
		if direct {
			blasImpl.Sgemm(xTrans, yTrans, m, n, k, float32(a), xd, xld, yd, yld, float32(b), zd, zld)
		} else {
			blasImpl.Sgemm(flip(yTrans), flip(xTrans), n, m, k, float32(a), yd, yld, xd, xld, float32(b), zd, zld)
		}
	default:
		return graphErrors.Newf(graphErrors.NotImplementedType, op, "native Gemm supports only Float32/Float64, got %s", z.Dtype())
	}
	return nil
}

func flip(t blas.Transpose) blas.Transpose {
	if t == blas.NoTrans {
		return blas.Trans
	}
	return blas.NoTrans
}
