// Package scalarops is the scalar-op library spec.md §1 lists as an
// external collaborator "consumed as a factory": the elementwise
// per-element functions internal/broadcastlift lifts into many-dimensional
// broadcasting array ops.
package scalarops

import (
	"fmt"
	"math"
)

// Op is one scalar primitive: its declared arity and its pointwise
// reference evaluator. broadcastlift.Make takes an Op and produces the
// corresponding broadcasting array op.
type Op interface {
	Name() string
	Nin() int
	Apply(args ...float64) (float64, error)
}

type unary struct {
	name string
	fn   func(float64) float64
}

func (u unary) Name() string { return u.name }
func (u unary) Nin() int     { return 1 }
func (u unary) Apply(args ...float64) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("scalarops.%s: expected 1 argument, got %d", u.name, len(args))
	}
	return u.fn(args[0]), nil
}

type binary struct {
	name string
	fn   func(a, b float64) float64
}

func (b binary) Name() string { return b.name }
func (b binary) Nin() int     { return 2 }
func (b binary) Apply(args ...float64) (float64, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("scalarops.%s: expected 2 arguments, got %d", b.name, len(args))
	}
	return b.fn(args[0], args[1]), nil
}

func sgn(a float64) float64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	default:
		return 0
	}
}

// Binary arithmetic family (spec.md §4.C).
var (
	Add = binary{"Add", func(a, b float64) float64 { return a + b }}
	Sub = binary{"Sub", func(a, b float64) float64 { return a - b }}
	Mul = binary{"Mul", func(a, b float64) float64 { return a * b }}
	Div = binary{"Div", func(a, b float64) float64 { return a / b }}
	Pow = binary{"Pow", math.Pow}

	// Fill(model, v) broadcasts scalar v to model's shape: the scalar
	// function itself just discards its first argument's value (the lift
	// adapter still broadcasts over model's shape).
	Fill = binary{"Fill", func(_, v float64) float64 { return v }}

	// Comparisons. The closed dtype set has no boolean, so results are
	// encoded as 1/0 in whatever dtype the comparison unifies to, matching
	// how the rest of the host-language surface represents truthiness.
	Lt = binary{"LT", func(a, b float64) float64 {
		if a < b {
			return 1
		}
		return 0
	}}
	Le = binary{"LE", func(a, b float64) float64 {
		if a <= b {
			return 1
		}
		return 0
	}}
	Gt = binary{"GT", func(a, b float64) float64 {
		if a > b {
			return 1
		}
		return 0
	}}
	Ge = binary{"GE", func(a, b float64) float64 {
		if a >= b {
			return 1
		}
		return 0
	}}
)

// Unary family (spec.md §4.C).
var (
	Abs  = unary{"Abs", math.Abs}
	Exp  = unary{"Exp", math.Exp}
	Neg  = unary{"Neg", func(a float64) float64 { return -a }}
	Log  = unary{"Log", math.Log}
	Log2 = unary{"Log2", math.Log2}
	Sgn  = unary{"Sgn", sgn}
	Sqr  = unary{"Sqr", func(a float64) float64 { return a * a }}
	Sqrt = unary{"Sqrt", math.Sqrt}
	Cos  = unary{"Cos", math.Cos}
	Sin  = unary{"Sin", math.Sin}
	Tan  = unary{"Tan", math.Tan}
	Cosh = unary{"Cosh", math.Cosh}
	Sinh = unary{"Sinh", math.Sinh}
	Tanh = unary{"Tanh", math.Tanh}

	// Identity backs TensorCopy: spec.md §4.C lists "Identity(TensorCopy)"
	// among the lifted families, the only one without an in-place sibling.
	Identity = unary{"Identity", func(a float64) float64 { return a }}
)
