package descriptor

import (
	"fmt"

	graphErrors "tensorgraph/internal/errors"
)

// Scalar builds a rank-0 Result. dtype defaults to Float64 when zero-valued.
func Scalar(name string, dtype Dtype) *Result {
	return MustNew(withDefault(dtype), Pattern{}, name)
}

// Vector builds a rank-1 Result with one non-broadcast axis. spec.md §9
// notes the source's vector() passes a bare boolean rather than a 1-tuple,
// an apparent bug; this is the obviously-intended rank-1 behavior.
func Vector(name string, dtype Dtype) *Result {
	return MustNew(withDefault(dtype), Pattern{false}, name)
}

// Matrix builds a rank-2 Result with neither axis broadcastable.
func Matrix(name string, dtype Dtype) *Result {
	return MustNew(withDefault(dtype), Pattern{false, false}, name)
}

// Row builds a rank-2 Result shaped (1, N): axis 0 broadcastable.
func Row(name string, dtype Dtype) *Result {
	return MustNew(withDefault(dtype), Pattern{true, false}, name)
}

// Col builds a rank-2 Result shaped (N, 1): axis 1 broadcastable.
func Col(name string, dtype Dtype) *Result {
	return MustNew(withDefault(dtype), Pattern{false, true}, name)
}

func withDefault(dtype Dtype) Dtype {
	if dtype == "" {
		return Float64
	}
	return dtype
}

// IScalar, FScalar, ... are the i*/f* variants of the five constructors
// above, fixed to Int64 and Float64 respectively (spec.md §6).
func IScalar(name string) *Result { return Scalar(name, Int64) }
func FScalar(name string) *Result { return Scalar(name, Float64) }
func IVector(name string) *Result { return Vector(name, Int64) }
func FVector(name string) *Result { return Vector(name, Float64) }
func IMatrix(name string) *Result { return Matrix(name, Int64) }
func FMatrix(name string) *Result { return Matrix(name, Float64) }
func IRow(name string) *Result    { return Row(name, Int64) }
func FRow(name string) *Result    { return Row(name, Float64) }
func ICol(name string) *Result    { return Col(name, Int64) }
func FCol(name string) *Result    { return Col(name, Float64) }

// plural builds several independently-named Results from the same
// single-name constructor, spec.md §6's "each has a plural form".
func plural(ctor func(string) *Result, names ...string) []*Result {
	out := make([]*Result, len(names))
	for i, n := range names {
		out[i] = ctor(n)
	}
	return out
}

func Scalars(names ...string) []*Result { return plural(func(n string) *Result { return Scalar(n, Float64) }, names...) }
func Vectors(names ...string) []*Result { return plural(func(n string) *Result { return Vector(n, Float64) }, names...) }
func Matrices(names ...string) []*Result { return plural(func(n string) *Result { return Matrix(n, Float64) }, names...) }
func Rows(names ...string) []*Result    { return plural(func(n string) *Result { return Row(n, Float64) }, names...) }
func Cols(names ...string) []*Result    { return plural(func(n string) *Result { return Col(n, Float64) }, names...) }

func IScalars(names ...string) []*Result { return plural(IScalar, names...) }
func FScalars(names ...string) []*Result { return plural(FScalar, names...) }
func IVectors(names ...string) []*Result { return plural(IVector, names...) }
func FVectors(names ...string) []*Result { return plural(FVector, names...) }
func IMatrices(names ...string) []*Result { return plural(IMatrix, names...) }
func FMatrices(names ...string) []*Result { return plural(FMatrix, names...) }

// Astensor is the host-language coercion of spec.md §6: idempotent on
// *Result, rejects nil, and coerces a handful of Go array-likes into a fresh
// Result with concrete data. broadcastable, if nil, defaults to
// [size==1 for size in shape], mirroring astensor's default in the original.
func Astensor(value interface{}, broadcastable Pattern, name string) (*Result, error) {
	if value == nil {
		return nil, graphErrors.New(graphErrors.UnsupportedDtype, "astensor", "cannot make a Result out of nil")
	}
	if r, ok := value.(*Result); ok {
		if broadcastable != nil && !r.broadcastable.Equal(broadcastable) {
			return nil, graphErrors.Newf(graphErrors.WrongRank, "astensor",
				"value has broadcastable pattern %v, expected %v", r.broadcastable, broadcastable)
		}
		if name != "" && name != r.name {
			return nil, graphErrors.Newf(graphErrors.UnsupportedDtype, "astensor", "cannot rename an existing Result")
		}
		return r, nil
	}

	dtype, shape, flat, err := coerceArrayLike(value)
	if err != nil {
		return nil, err
	}
	if broadcastable == nil {
		broadcastable = make(Pattern, len(shape))
		for i, s := range shape {
			broadcastable[i] = s == 1
		}
	}
	rval, err := New(dtype, broadcastable, name)
	if err != nil {
		return nil, err
	}
	buf, err := NewBufferFromFloats(dtype, shape, flat)
	if err != nil {
		return nil, err
	}
	if err := rval.SetData(buf); err != nil {
		return nil, err
	}
	return rval, nil
}

// coerceArrayLike recognizes the handful of host array-like shapes this
// module accepts directly: a Buffer, a bare float64 (rank 0), a bare int or
// int64 (rank 0, Int64), a []float64 (rank 1), and a [][]float64 (rank 2,
// all rows equal length).
func coerceArrayLike(value interface{}) (dtype Dtype, shape []int, flat []float64, err error) {
	switch v := value.(type) {
	case Buffer:
		flat = make([]float64, v.Size())
		for i := range flat {
			flat[i] = v.At(i)
		}
		return v.Dtype(), v.Shape(), flat, nil
	case float64:
		return Float64, nil, []float64{v}, nil
	case int64:
		return Int64, nil, []float64{float64(v)}, nil
	case int:
		return Int64, nil, []float64{float64(v)}, nil
	case []float64:
		return Float64, []int{len(v)}, append([]float64(nil), v...), nil
	case [][]float64:
		if len(v) == 0 {
			return Float64, []int{0, 0}, nil, nil
		}
		cols := len(v[0])
		out := make([]float64, 0, len(v)*cols)
		for _, row := range v {
			if len(row) != cols {
				return "", nil, nil, fmt.Errorf("ragged rows: %d vs %d", len(row), cols)
			}
			out = append(out, row...)
		}
		return Float64, []int{len(v), cols}, out, nil
	default:
		return "", nil, nil, graphErrors.Newf(graphErrors.UnsupportedDtype, "astensor", "cannot coerce value of type %T", value)
	}
}
