// Package descriptor implements the typed array Result: the symbolic
// placeholder/value carrier combining a static descriptor (dtype +
// broadcast pattern) with an optional concrete strided buffer.
package descriptor

import (
	"fmt"

	graphErrors "tensorgraph/internal/errors"
)

// Dtype is an element-type tag drawn from the closed set the compiler core
// understands.
type Dtype string

const (
	Float32    Dtype = "float32"
	Float64    Dtype = "float64"
	Int8       Dtype = "int8"
	Int16      Dtype = "int16"
	Int32      Dtype = "int32"
	Int64      Dtype = "int64"
	Complex64  Dtype = "complex64"
	Complex128 Dtype = "complex128"
)

// Kind buckets a Dtype into its host-domain element kind, used by the
// codegen layer to decide which native operations apply.
type Kind int

const (
	KindReal Kind = iota
	KindInteger
	KindComplex
)

// Spec is the dtype-spec table of spec.md §4.A: for each dtype, the
// host-domain element kind, the native element typename the code generator
// should emit, and the runtime type enum the emitted code refers to.
type Spec struct {
	Dtype       Dtype
	Kind        Kind
	NativeType  string
	RuntimeEnum string
}

var dtypeSpecs = map[Dtype]Spec{
	Float32:    {Float32, KindReal, "float32", "FLOAT32"},
	Float64:    {Float64, KindReal, "float64", "FLOAT64"},
	Int8:       {Int8, KindInteger, "int8", "INT8"},
	Int16:      {Int16, KindInteger, "int16", "INT16"},
	Int32:      {Int32, KindInteger, "int32", "INT32"},
	Int64:      {Int64, KindInteger, "int64", "INT64"},
	Complex64:  {Complex64, KindComplex, "complex64_t", "COMPLEX64"},
	Complex128: {Complex128, KindComplex, "complex128_t", "COMPLEX128"},
}

// SpecOf looks up the dtype-spec table entry for dtype. It is exported (not
// just used internally) so that the surrounding code generator can query
// native type names without re-deriving them.
func SpecOf(dtype Dtype) (Spec, error) {
	s, ok := dtypeSpecs[dtype]
	if !ok {
		return Spec{}, graphErrors.Newf(graphErrors.UnsupportedDtype, "descriptor.SpecOf", "unsupported dtype %q", dtype)
	}
	return s, nil
}

// Valid reports whether dtype is one of the closed set of supported dtypes.
func (d Dtype) Valid() bool {
	_, ok := dtypeSpecs[d]
	return ok
}

func (d Dtype) String() string {
	return string(d)
}

// complex64Val and complex128Val are the user-defined complex structs the
// codegen layer's support_code hook emits, mirroring the closed-form +, -,
// *, / over (real, imag) pairs described in spec.md §4.A. They additionally
// exist here so the reference evaluator can operate on complex buffers
// without depending on native Go complex64/128 (whose rounding the spec does
// not pin down relative to the emitted native struct).
type complex64Val struct{ Re, Im float32 }
type complex128Val struct{ Re, Im float64 }

func (a complex64Val) Add(b complex64Val) complex64Val {
	return complex64Val{a.Re + b.Re, a.Im + b.Im}
}
func (a complex64Val) Sub(b complex64Val) complex64Val {
	return complex64Val{a.Re - b.Re, a.Im - b.Im}
}
func (a complex64Val) Mul(b complex64Val) complex64Val {
	return complex64Val{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}
func (a complex64Val) Div(b complex64Val) complex64Val {
	denom := b.Re*b.Re + b.Im*b.Im
	return complex64Val{
		(a.Re*b.Re + a.Im*b.Im) / denom,
		(a.Im*b.Re - a.Re*b.Im) / denom,
	}
}

func (a complex128Val) Add(b complex128Val) complex128Val {
	return complex128Val{a.Re + b.Re, a.Im + b.Im}
}
func (a complex128Val) Sub(b complex128Val) complex128Val {
	return complex128Val{a.Re - b.Re, a.Im - b.Im}
}
func (a complex128Val) Mul(b complex128Val) complex128Val {
	return complex128Val{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}
func (a complex128Val) Div(b complex128Val) complex128Val {
	denom := b.Re*b.Re + b.Im*b.Im
	return complex128Val{
		(a.Re*b.Re + a.Im*b.Im) / denom,
		(a.Im*b.Re - a.Re*b.Im) / denom,
	}
}

func (a complex64Val) String() string  { return fmt.Sprintf("(%g+%gi)", a.Re, a.Im) }
func (a complex128Val) String() string { return fmt.Sprintf("(%g+%gi)", a.Re, a.Im) }
