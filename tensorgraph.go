// Package tensorgraph is the exposed surface of the compiler core: a small,
// explicit expression-builder API over the typed result/op machinery in
// internal/descriptor, internal/graphop, internal/broadcastlift,
// internal/extgraph, and internal/kernels.
//
// The original language this was distilled from builds graphs through
// operator overloading on its array handle type. Go has none, so this
// package takes the "explicit builder function" option instead of trying
// to fake chainable operators: Add(x, y), Mul(x, y), and so on, each
// returning (*Result, error) like every other fallible constructor in this
// module.
package tensorgraph

import (
	"tensorgraph/internal/broadcastlift"
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/extgraph"
	graphErrors "tensorgraph/internal/errors"
	"tensorgraph/internal/graphop"
	"tensorgraph/internal/kernels"
)

// ErrorKind is the addressable error-category vocabulary every failure in
// this package surfaces as (spec.md §6 "error string constants").
type ErrorKind = graphErrors.Kind

const (
	EArityMismatch = graphErrors.ArityMismatch
	ERankRestriction = graphErrors.RankRestriction
	EScalarRequired  = graphErrors.ScalarRequired
	EZAliasesInput   = graphErrors.ZAliasesInput
	EInvalidAxis     = graphErrors.InvalidAxis
	EInvalidIndex    = graphErrors.InvalidIndex
	EShapeMismatch   = graphErrors.ShapeMismatch
	ENotImplementedType = graphErrors.NotImplementedType
)

// ErrorKindOf reports the GraphError.Kind of err, or "" if err is not one.
func ErrorKindOf(err error) ErrorKind {
	var ge *graphErrors.GraphError
	if graphErrors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// Dtype, Pattern, Result, and Buffer are the descriptor-level vocabulary
// every op in this package is built from.
type (
	Dtype   = descriptor.Dtype
	Pattern = descriptor.Pattern
	Result  = descriptor.Result
	Buffer  = descriptor.Buffer
)

const (
	Float32    = descriptor.Float32
	Float64    = descriptor.Float64
	Int8       = descriptor.Int8
	Int16      = descriptor.Int16
	Int32      = descriptor.Int32
	Int64      = descriptor.Int64
	Complex64  = descriptor.Complex64
	Complex128 = descriptor.Complex128
)

// Constructors: bare, typed, and plural forms.
var (
	Scalar   = descriptor.Scalar
	Vector   = descriptor.Vector
	Matrix   = descriptor.Matrix
	Row      = descriptor.Row
	Col      = descriptor.Col
	IScalar  = descriptor.IScalar
	FScalar  = descriptor.FScalar
	IVector  = descriptor.IVector
	FVector  = descriptor.FVector
	IMatrix  = descriptor.IMatrix
	FMatrix  = descriptor.FMatrix
	IRow     = descriptor.IRow
	FRow     = descriptor.FRow
	ICol     = descriptor.ICol
	FCol     = descriptor.FCol
	Scalars  = descriptor.Scalars
	Vectors  = descriptor.Vectors
	Matrices = descriptor.Matrices
	Rows     = descriptor.Rows
	Cols     = descriptor.Cols
	IScalars = descriptor.IScalars
	FScalars = descriptor.FScalars
	IVectors = descriptor.IVectors
	FVectors = descriptor.FVectors
	IMatrices = descriptor.IMatrices
	FMatrices = descriptor.FMatrices

	Astensor = descriptor.Astensor
)

// Elementwise arithmetic and comparisons, broadcast per-axis (spec.md §4.C).
var (
	Add = broadcastlift.Add
	Sub = broadcastlift.Sub
	Mul = broadcastlift.Mul
	Div = broadcastlift.Div
	Pow = broadcastlift.Pow

	AddInplace = broadcastlift.AddInplace
	SubInplace = broadcastlift.SubInplace
	MulInplace = broadcastlift.MulInplace
	DivInplace = broadcastlift.DivInplace
	PowInplace = broadcastlift.PowInplace

	LT = broadcastlift.LT
	LE = broadcastlift.LE
	GT = broadcastlift.GT
	GE = broadcastlift.GE

	Fill        = broadcastlift.Fill
	FillInplace = broadcastlift.FillInplace
	OnesLike    = broadcastlift.OnesLike
	ZerosLike   = broadcastlift.ZerosLike
	TensorCopy  = broadcastlift.TensorCopy
)

// Elementwise unary math, and their in-place siblings.
var (
	Abs  = broadcastlift.Abs
	Exp  = broadcastlift.Exp
	Neg  = broadcastlift.Neg
	Log  = broadcastlift.Log
	Log2 = broadcastlift.Log2
	Sgn  = broadcastlift.Sgn
	Sqr  = broadcastlift.Sqr
	Sqrt = broadcastlift.Sqrt
	Cos  = broadcastlift.Cos
	Sin  = broadcastlift.Sin
	Tan  = broadcastlift.Tan
	Cosh = broadcastlift.Cosh
	Sinh = broadcastlift.Sinh
	Tanh = broadcastlift.Tanh

	AbsInplace  = broadcastlift.AbsInplace
	ExpInplace  = broadcastlift.ExpInplace
	NegInplace  = broadcastlift.NegInplace
	LogInplace  = broadcastlift.LogInplace
	Log2Inplace = broadcastlift.Log2Inplace
	SgnInplace  = broadcastlift.SgnInplace
	SqrInplace  = broadcastlift.SqrInplace
	SqrtInplace = broadcastlift.SqrtInplace
	CosInplace  = broadcastlift.CosInplace
	SinInplace  = broadcastlift.SinInplace
	TanInplace  = broadcastlift.TanInplace
	CoshInplace = broadcastlift.CoshInplace
	SinhInplace = broadcastlift.SinhInplace
	TanhInplace = broadcastlift.TanhInplace
)

// Transpose, reduction, and the three kernels spec.md §1 calls out.
var (
	Transpose         = kernels.Transpose
	NewTransposeInplace = kernels.NewTransposeInplace
	GradTranspose     = kernels.GradTranspose

	AxisScalar = kernels.AxisScalar
)

// IndexEntry, Slice, and Index build Subtensor index payloads (spec.md
// §4.D / §9 "tuple-or-integer index payload").
type IndexEntry = kernels.IndexEntry

var (
	Slice = kernels.Slice
	Index = kernels.Index
)

// Subtensor builds a view-like slicing op over base (spec.md §4.D).
func Subtensor(base *Result, index []IndexEntry) (*Result, error) {
	s, err := kernels.NewSubtensor(base, index)
	if err != nil {
		return nil, err
	}
	return s.Outputs[0], nil
}

// Argmax returns (maxval, argidx) along axis (nil defaults to the last
// axis), spec.md §4.E.
func Argmax(x *Result, axis *Result) (*Result, *Result, error) {
	a, err := kernels.NewArgmax(x, axis)
	if err != nil {
		return nil, nil, err
	}
	return a.Outputs[0], a.Outputs[1], nil
}

// Max is sugar for the first return of Argmax (spec.md §4.E).
func Max(x *Result, axis *Result) (*Result, error) {
	return kernels.Max(x, axis)
}

// Sum reduces x to a scalar, or along axis if given.
func Sum(x *Result, axis *Result) (*Result, error) {
	s, err := extgraph.NewSum(x, axis)
	if err != nil {
		return nil, err
	}
	return s.Outputs[0], nil
}

// Dot is the rank-sensitive dot product of spec.md §4.G.
func Dot(x, y *Result) (*Result, error) {
	d, err := kernels.NewDot(x, y)
	if err != nil {
		return nil, err
	}
	return d.Outputs[0], nil
}

// Gemm builds z <- b*z + a*(x*y) in place (spec.md §4.H). The returned
// Result is Gemm's own output, a distinct Result from z; once the op runs,
// its buffer is z's buffer object (Gemm's destroy_map declares it so).
func Gemm(z, a, x, y, b *Result) (*Result, error) {
	g, err := kernels.NewGemm(z, a, x, y, b)
	if err != nil {
		return nil, err
	}
	return g.Outputs[0], nil
}

// NativeGemm runs Gemm's BLAS-backed native kernel directly over concrete
// buffers, bypassing graph construction. a and b are the same scale
// factors Gemm's op node carries as scalar Results.
func NativeGemm(z, x, y Buffer, a, b float64) error {
	return kernels.NativeGemm(z, x, y, a, b)
}

// Performer is anything with a no-argument reference-evaluator Perform()
// error, as every op type in this package has. Grad hooks (Dot.Grad,
// GradTranspose) take the upstream gradient explicitly and are called
// directly rather than through Run or Eval.
type Performer interface {
	Perform() error
}

// Run evaluates each op in order, stopping at the first error (spec.md §5:
// "a graph is executed by running each op's Perform in dependency order").
func Run(ops ...Performer) error {
	for _, op := range ops {
		if err := op.Perform(); err != nil {
			return err
		}
	}
	return nil
}

// Eval evaluates every *Result in targets by walking each one's producing
// op back through its inputs (a post-order traversal of graphop.Base.Inputs)
// and running every op's Perform exactly once, in dependency order, before
// the op that consumes its output. Leaf Results (inputs supplied directly
// via Astensor, with no producing op) are left as-is.
func Eval(targets ...*Result) error {
	visited := map[*Result]bool{}
	performed := map[*graphop.Base]bool{}
	var visit func(r *Result) error
	visit = func(r *Result) error {
		if visited[r] {
			return nil
		}
		visited[r] = true
		base, ok := r.Owner().(*graphop.Base)
		if !ok || performed[base] {
			return nil
		}
		for _, in := range base.Inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		performed[base] = true
		return base.Perform()
	}
	for _, r := range targets {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}
