package broadcastlift

import (
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/scalarops"
)

// Binary arithmetic + comparisons, and their in-place siblings where
// spec.md §4.C declares one (comparisons don't get one: there is no
// "less-than in place").
var (
	addCtor = Make(scalarops.Add, "Add")
	subCtor = Make(scalarops.Sub, "Sub")
	mulCtor = Make(scalarops.Mul, "Mul")
	divCtor = Make(scalarops.Div, "Div")
	powCtor = Make(scalarops.Pow, "Pow")

	addInplaceCtor = MakeInplace(scalarops.Add, "Add")
	subInplaceCtor = MakeInplace(scalarops.Sub, "Sub")
	mulInplaceCtor = MakeInplace(scalarops.Mul, "Mul")
	divInplaceCtor = MakeInplace(scalarops.Div, "Div")
	powInplaceCtor = MakeInplace(scalarops.Pow, "Pow")

	ltCtor = Make(scalarops.Lt, "LT")
	leCtor = Make(scalarops.Le, "LE")
	gtCtor = Make(scalarops.Gt, "GT")
	geCtor = Make(scalarops.Ge, "GE")

	fillCtor = Make(scalarops.Fill, "Fill")

	absCtor  = Make(scalarops.Abs, "Abs")
	expCtor  = Make(scalarops.Exp, "Exp")
	negCtor  = Make(scalarops.Neg, "Neg")
	logCtor  = Make(scalarops.Log, "Log")
	log2Ctor = Make(scalarops.Log2, "Log2")
	sgnCtor  = Make(scalarops.Sgn, "Sgn")
	sqrCtor  = Make(scalarops.Sqr, "Sqr")
	sqrtCtor = Make(scalarops.Sqrt, "Sqrt")
	cosCtor  = Make(scalarops.Cos, "Cos")
	sinCtor  = Make(scalarops.Sin, "Sin")
	tanCtor  = Make(scalarops.Tan, "Tan")
	coshCtor = Make(scalarops.Cosh, "Cosh")
	sinhCtor = Make(scalarops.Sinh, "Sinh")
	tanhCtor = Make(scalarops.Tanh, "Tanh")

	absInplaceCtor  = MakeInplace(scalarops.Abs, "Abs")
	expInplaceCtor  = MakeInplace(scalarops.Exp, "Exp")
	negInplaceCtor  = MakeInplace(scalarops.Neg, "Neg")
	logInplaceCtor  = MakeInplace(scalarops.Log, "Log")
	log2InplaceCtor = MakeInplace(scalarops.Log2, "Log2")
	sgnInplaceCtor  = MakeInplace(scalarops.Sgn, "Sgn")
	sqrInplaceCtor  = MakeInplace(scalarops.Sqr, "Sqr")
	sqrtInplaceCtor = MakeInplace(scalarops.Sqrt, "Sqrt")
	cosInplaceCtor  = MakeInplace(scalarops.Cos, "Cos")
	sinInplaceCtor  = MakeInplace(scalarops.Sin, "Sin")
	tanInplaceCtor  = MakeInplace(scalarops.Tan, "Tan")
	coshInplaceCtor = MakeInplace(scalarops.Cosh, "Cosh")
	sinhInplaceCtor = MakeInplace(scalarops.Sinh, "Sinh")
	tanhInplaceCtor = MakeInplace(scalarops.Tanh, "Tanh")
	fillInplaceCtor = MakeInplace(scalarops.Fill, "Fill")

	// TensorCopy, like the comparisons above, has no in-place sibling
	// (spec.md §4.C): copying in place would defeat its purpose.
	tensorCopyCtor = Make(scalarops.Identity, "TensorCopy")
)

func out1(op *Broadcast, err error) (*descriptor.Result, error) {
	if err != nil {
		return nil, err
	}
	return op.Outputs[0], nil
}

func Add(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(addCtor(x, y)) }
func Sub(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(subCtor(x, y)) }
func Mul(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(mulCtor(x, y)) }
func Div(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(divCtor(x, y)) }
func Pow(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(powCtor(x, y)) }

func AddInplace(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(addInplaceCtor(x, y)) }
func SubInplace(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(subInplaceCtor(x, y)) }
func MulInplace(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(mulInplaceCtor(x, y)) }
func DivInplace(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(divInplaceCtor(x, y)) }
func PowInplace(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(powInplaceCtor(x, y)) }

func LT(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(ltCtor(x, y)) }
func LE(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(leCtor(x, y)) }
func GT(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(gtCtor(x, y)) }
func GE(x, y *descriptor.Result) (*descriptor.Result, error) { return out1(geCtor(x, y)) }

func Abs(x *descriptor.Result) (*descriptor.Result, error)  { return out1(absCtor(x)) }
func Exp(x *descriptor.Result) (*descriptor.Result, error)  { return out1(expCtor(x)) }
func Neg(x *descriptor.Result) (*descriptor.Result, error)  { return out1(negCtor(x)) }
func Log(x *descriptor.Result) (*descriptor.Result, error)  { return out1(logCtor(x)) }
func Log2(x *descriptor.Result) (*descriptor.Result, error) { return out1(log2Ctor(x)) }
func Sgn(x *descriptor.Result) (*descriptor.Result, error)  { return out1(sgnCtor(x)) }
func Sqr(x *descriptor.Result) (*descriptor.Result, error)  { return out1(sqrCtor(x)) }
func Sqrt(x *descriptor.Result) (*descriptor.Result, error) { return out1(sqrtCtor(x)) }
func Cos(x *descriptor.Result) (*descriptor.Result, error)  { return out1(cosCtor(x)) }
func Sin(x *descriptor.Result) (*descriptor.Result, error)  { return out1(sinCtor(x)) }
func Tan(x *descriptor.Result) (*descriptor.Result, error)  { return out1(tanCtor(x)) }
func Cosh(x *descriptor.Result) (*descriptor.Result, error) { return out1(coshCtor(x)) }
func Sinh(x *descriptor.Result) (*descriptor.Result, error) { return out1(sinhCtor(x)) }
func Tanh(x *descriptor.Result) (*descriptor.Result, error) { return out1(tanhCtor(x)) }

func AbsInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(absInplaceCtor(x)) }
func ExpInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(expInplaceCtor(x)) }
func NegInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(negInplaceCtor(x)) }
func LogInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(logInplaceCtor(x)) }
func Log2Inplace(x *descriptor.Result) (*descriptor.Result, error) { return out1(log2InplaceCtor(x)) }
func SgnInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(sgnInplaceCtor(x)) }
func SqrInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(sqrInplaceCtor(x)) }
func SqrtInplace(x *descriptor.Result) (*descriptor.Result, error) { return out1(sqrtInplaceCtor(x)) }
func CosInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(cosInplaceCtor(x)) }
func SinInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(sinInplaceCtor(x)) }
func TanInplace(x *descriptor.Result) (*descriptor.Result, error)  { return out1(tanInplaceCtor(x)) }
func CoshInplace(x *descriptor.Result) (*descriptor.Result, error) { return out1(coshInplaceCtor(x)) }
func SinhInplace(x *descriptor.Result) (*descriptor.Result, error) { return out1(sinhInplaceCtor(x)) }
func TanhInplace(x *descriptor.Result) (*descriptor.Result, error) { return out1(tanhInplaceCtor(x)) }

// Fill broadcasts scalar v's value to model's shape (spec.md §4.C).
func Fill(model, v *descriptor.Result) (*descriptor.Result, error) { return out1(fillCtor(model, v)) }
func FillInplace(model, v *descriptor.Result) (*descriptor.Result, error) {
	return out1(fillInplaceCtor(model, v))
}

// TensorCopy materializes a fresh buffer holding model's values; it backs
// Transpose's "always copy before transposing in place" discipline
// (spec.md §4.F).
func TensorCopy(model *descriptor.Result) (*descriptor.Result, error) { return out1(tensorCopyCtor(model)) }

// OnesLike and ZerosLike specialize Fill with 1 and 0 (spec.md §4.C).
func OnesLike(model *descriptor.Result) (*descriptor.Result, error) {
	one, err := descriptor.Astensor(1.0, descriptor.Pattern{}, "")
	if err != nil {
		return nil, err
	}
	return Fill(model, one)
}

func ZerosLike(model *descriptor.Result) (*descriptor.Result, error) {
	zero, err := descriptor.Astensor(0.0, descriptor.Pattern{}, "")
	if err != nil {
		return nil, err
	}
	return Fill(model, zero)
}
