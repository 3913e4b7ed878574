package descriptor

import (
	"fmt"
	"reflect"
)

// Buffer is a concrete strided n-dimensional array of some supported Dtype.
// It is the thing a TypedArrayResult's data field, when non-nil, points at.
//
// Strides are in units of elements (not bytes) for the reference evaluator;
// kernels that care about byte strides (Gemm's native path, spec.md §4.H)
// derive them from ElemSize.
type Buffer interface {
	Dtype() Dtype
	Shape() []int
	Strides() []int
	Rank() int
	Size() int
	ElemSize() int
	Clone() Buffer
	// At/SetAt address a single scalar by flat index into the backing
	// storage, boxed as float64 for real/integer dtypes. They do not consult
	// Strides: for the row-major buffers NewBuffer, NewTypedBuffer and
	// NewTypedBufferFromData build, the flat index is row-major over Shape;
	// for a NewTypedBufferWithStrides buffer with other strides it follows
	// storage order. Complex
	// dtypes implement At/SetAt over the real component only; kernels that
	// need the imaginary part use ComplexBuffer.
	At(flatIndex int) float64
	SetAt(flatIndex int, v float64)
}

// ComplexBuffer is implemented by buffers of Complex64/Complex128 dtype, in
// addition to Buffer, so kernels that need both components can get them
// without a type switch on the concrete generic instantiation.
type ComplexBuffer interface {
	Buffer
	AtComplex(flatIndex int) (re, im float64)
	SetAtComplex(flatIndex int, re, im float64)
}

// Numeric is the closed set of Go types backing a Buffer's storage, one per
// Dtype.
type Numeric interface {
	~float32 | ~float64 | ~int8 | ~int16 | ~int32 | ~int64 | complex64Val | complex128Val
}

// TypedBuffer is the generic concrete Buffer implementation. One
// instantiation exists per Dtype (see NewBuffer).
type TypedBuffer[T Numeric] struct {
	dtype   Dtype
	shape   []int
	strides []int
	Data    []T
}

func rowMajorStrides(shape []int) []int {
	n := len(shape)
	strides := make([]int, n)
	acc := 1
	for i := n - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// NewTypedBuffer allocates a zero-valued row-major buffer of the given shape.
func NewTypedBuffer[T Numeric](dtype Dtype, shape []int) *TypedBuffer[T] {
	shapeCopy := append([]int(nil), shape...)
	return &TypedBuffer[T]{
		dtype:   dtype,
		shape:   shapeCopy,
		strides: rowMajorStrides(shapeCopy),
		Data:    make([]T, product(shapeCopy)),
	}
}

// NewTypedBufferFromData wraps data (exactly product(shape) elements) as a
// row-major buffer.
func NewTypedBufferFromData[T Numeric](dtype Dtype, shape []int, data []T) (*TypedBuffer[T], error) {
	if len(data) != product(shape) {
		return nil, fmt.Errorf("data length %d does not match shape %v", len(data), shape)
	}
	return &TypedBuffer[T]{
		dtype:   dtype,
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
		Data:    data,
	}, nil
}

func (b *TypedBuffer[T]) Dtype() Dtype      { return b.dtype }
func (b *TypedBuffer[T]) Shape() []int      { return b.shape }
func (b *TypedBuffer[T]) Strides() []int    { return b.strides }
func (b *TypedBuffer[T]) Rank() int         { return len(b.shape) }
func (b *TypedBuffer[T]) Size() int         { return len(b.Data) }
func (b *TypedBuffer[T]) ElemSize() int     { return int(reflect.TypeOf(*new(T)).Size()) }

func (b *TypedBuffer[T]) Clone() Buffer {
	dataCopy := append([]T(nil), b.Data...)
	return &TypedBuffer[T]{
		dtype:   b.dtype,
		shape:   append([]int(nil), b.shape...),
		strides: append([]int(nil), b.strides...),
		Data:    dataCopy,
	}
}

func (b *TypedBuffer[T]) At(flatIndex int) float64 {
	v := b.Data[flatIndex]
	switch x := any(v).(type) {
	case complex64Val:
		return float64(x.Re)
	case complex128Val:
		return x.Re
	default:
		return toFloat64(v)
	}
}

func (b *TypedBuffer[T]) SetAt(flatIndex int, v float64) {
	switch any(b.Data[flatIndex]).(type) {
	case complex64Val:
		b.Data[flatIndex] = any(complex64Val{Re: float32(v)}).(T)
	case complex128Val:
		b.Data[flatIndex] = any(complex128Val{Re: v}).(T)
	default:
		b.Data[flatIndex] = fromFloat64[T](v)
	}
}

func (b *TypedBuffer[T]) AtComplex(flatIndex int) (re, im float64) {
	switch x := any(b.Data[flatIndex]).(type) {
	case complex64Val:
		return float64(x.Re), float64(x.Im)
	case complex128Val:
		return x.Re, x.Im
	default:
		return toFloat64(b.Data[flatIndex]), 0
	}
}

func (b *TypedBuffer[T]) SetAtComplex(flatIndex int, re, im float64) {
	switch any(b.Data[flatIndex]).(type) {
	case complex64Val:
		b.Data[flatIndex] = any(complex64Val{Re: float32(re), Im: float32(im)}).(T)
	case complex128Val:
		b.Data[flatIndex] = any(complex128Val{Re: re, Im: im}).(T)
	default:
		b.Data[flatIndex] = fromFloat64[T](re)
	}
}

func toFloat64[T Numeric](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

func fromFloat64[T Numeric](v float64) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(float32(v)).(T)
	case float64:
		return any(v).(T)
	case int8:
		return any(int8(v)).(T)
	case int16:
		return any(int16(v)).(T)
	case int32:
		return any(int32(v)).(T)
	case int64:
		return any(int64(v)).(T)
	default:
		return zero
	}
}

// NewBuffer allocates a zero-valued row-major Buffer for dtype, dispatching
// to the matching TypedBuffer instantiation.
func NewBuffer(dtype Dtype, shape []int) (Buffer, error) {
	switch dtype {
	case Float32:
		return NewTypedBuffer[float32](dtype, shape), nil
	case Float64:
		return NewTypedBuffer[float64](dtype, shape), nil
	case Int8:
		return NewTypedBuffer[int8](dtype, shape), nil
	case Int16:
		return NewTypedBuffer[int16](dtype, shape), nil
	case Int32:
		return NewTypedBuffer[int32](dtype, shape), nil
	case Int64:
		return NewTypedBuffer[int64](dtype, shape), nil
	case Complex64:
		return NewTypedBuffer[complex64Val](dtype, shape), nil
	case Complex128:
		return NewTypedBuffer[complex128Val](dtype, shape), nil
	default:
		return nil, fmt.Errorf("unsupported dtype %q", dtype)
	}
}

// NewTypedBufferWithStrides wraps data as a buffer with explicit strides,
// letting callers build non-row-major (e.g. column-major) buffers directly,
// such as the column-major operands NativeGemm's layout dispatch accepts.
func NewTypedBufferWithStrides[T Numeric](dtype Dtype, shape, strides []int, data []T) *TypedBuffer[T] {
	return &TypedBuffer[T]{
		dtype:   dtype,
		shape:   append([]int(nil), shape...),
		strides: append([]int(nil), strides...),
		Data:    data,
	}
}

// NewBufferFromFloats allocates a buffer of dtype from a flat []float64,
// coercing each element to the native storage type. This is the backbone of
// astensor's host-array coercion (spec.md §4.A filter/astensor).
func NewBufferFromFloats(dtype Dtype, shape []int, flat []float64) (Buffer, error) {
	buf, err := NewBuffer(dtype, shape)
	if err != nil {
		return nil, err
	}
	if len(flat) != buf.Size() {
		return nil, fmt.Errorf("data length %d does not match shape %v", len(flat), shape)
	}
	for i, v := range flat {
		buf.SetAt(i, v)
	}
	return buf, nil
}
