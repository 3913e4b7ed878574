// Package nativegen implements the native code-generation protocol consumed
// by internal/descriptor: each Result's codegen hook emits a self-contained
// LLVM IR fragment instead of the ad-hoc C-string
// concatenation the original source used. spec.md §9 leaves "exact native
// syntax implementation-defined"; this project's choice is real IR built
// with github.com/llir/llvm so the surrounding compiler has something an
// LLVM toolchain can actually consume.
package nativegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Fragment is one codegen hook's contribution: a module plus the symbol
// names it exposes to the next hook in the pipeline (declare -> init ->
// extract -> ... -> cleanup), matching spec.md §4.A's "set of variables made
// available to downstream kernels": NAME, type_num_NAME, dtype_NAME.
type Fragment struct {
	Module *ir.Module
	Vars   map[string]string
}

func NewFragment() *Fragment {
	return &Fragment{Module: ir.NewModule(), Vars: map[string]string{}}
}

func (f *Fragment) String() string {
	return f.Module.String()
}

// NativeLLType maps a dtype-spec native typename to the LLVM type the
// codegen stubs below build functions over. Complex dtypes are handled
// separately by EmitComplexSupportCode, which builds its own struct type.
func NativeLLType(native string) (types.Type, error) {
	switch native {
	case "float32":
		return types.Float, nil
	case "float64":
		return types.Double, nil
	case "int8":
		return types.I8, nil
	case "int16":
		return types.I16, nil
	case "int32":
		return types.I32, nil
	case "int64":
		return types.I64, nil
	default:
		return nil, fmt.Errorf("nativegen: no scalar LLVM type for %q (use EmitComplexSupportCode)", native)
	}
}

// ArrayStubs holds the five per-variable hooks spec.md §4.A names: declare,
// init, extract, sync, cleanup. Each is a minimal valid LLVM function over a
// pointer to elemType; the body is intentionally a stub (the real
// marshaling logic belongs to the host-array runtime this module's
// compiler plugs into, which is out of scope per spec.md §1).
type ArrayStubs struct {
	Declare *ir.Func
	Init    *ir.Func
	Extract *ir.Func
	Sync    *ir.Func
	Cleanup *ir.Func
}

// EmitArrayStubs emits declare/init/extract/sync/cleanup for varName into
// frag's module, and records the NAME/type_num_NAME/dtype_NAME variables the
// Fragment exposes.
func EmitArrayStubs(frag *Fragment, varName string, elemType types.Type, typeNum int64) *ArrayStubs {
	m := frag.Module
	ptr := types.NewPointer(elemType)

	declare := m.NewFunc(symbol("declare", varName), types.Void)
	declare.NewBlock("entry").NewRet(nil)

	initFn := m.NewFunc(symbol("init", varName), types.Void, ir.NewParam("handle", ptr))
	initFn.NewBlock("entry").NewRet(nil)

	extract := m.NewFunc(symbol("extract", varName), ptr)
	extract.NewBlock("entry").NewRet(constant.NewNull(ptr))

	sync := m.NewFunc(symbol("sync", varName), types.Void, ir.NewParam("handle", ptr))
	sync.NewBlock("entry").NewRet(nil)

	cleanup := m.NewFunc(symbol("cleanup", varName), types.Void, ir.NewParam("handle", ptr))
	cleanup.NewBlock("entry").NewRet(nil)

	frag.Vars[varName] = varName
	frag.Vars["type_num_"+varName] = fmt.Sprintf("%d", typeNum)
	frag.Vars["dtype_"+varName] = elemType.String()

	return &ArrayStubs{Declare: declare, Init: initFn, Extract: extract, Sync: sync, Cleanup: cleanup}
}

func symbol(hook, varName string) string {
	return fmt.Sprintf("%s_%s", hook, varName)
}

// EmitComplexSupportCode emits the per-dtype auxiliary struct definition
// spec.md §4.A calls for: a {real, imag} struct of the given float width,
// plus add/sub/mul/div functions implementing the closed-form identities
// (division uses (r1*r2+i1*i2)/|y|^2 and (i1*r2-r1*i2)/|y|^2) as real LLVM
// IR instructions rather than text templates.
func EmitComplexSupportCode(frag *Fragment, structName string, floatType types.Type) *types.StructType {
	m := frag.Module
	st := types.NewStruct(floatType, floatType)

	type parts struct {
		re, im value.Value
	}
	extractParts := func(b *ir.Block, v value.Value) parts {
		return parts{
			re: b.NewExtractValue(v, 0),
			im: b.NewExtractValue(v, 1),
		}
	}
	pack := func(b *ir.Block, re, im value.Value) value.Value {
		agg := b.NewInsertValue(constant.NewZeroInitializer(st), re, 0)
		return b.NewInsertValue(agg, im, 1)
	}

	newBinOp := func(name string, body func(b *ir.Block, a, bb parts) (re, im value.Value)) *ir.Func {
		fn := m.NewFunc(name, st, ir.NewParam("a", st), ir.NewParam("b", st))
		entry := fn.NewBlock("entry")
		a := extractParts(entry, fn.Params[0])
		b := extractParts(entry, fn.Params[1])
		re, im := body(entry, a, b)
		entry.NewRet(pack(entry, re, im))
		return fn
	}

	newBinOp(structName+"_add", func(b *ir.Block, a, bb parts) (value.Value, value.Value) {
		return b.NewFAdd(a.re, bb.re), b.NewFAdd(a.im, bb.im)
	})
	newBinOp(structName+"_sub", func(b *ir.Block, a, bb parts) (value.Value, value.Value) {
		return b.NewFSub(a.re, bb.re), b.NewFSub(a.im, bb.im)
	})
	newBinOp(structName+"_mul", func(b *ir.Block, a, bb parts) (value.Value, value.Value) {
		re := b.NewFSub(b.NewFMul(a.re, bb.re), b.NewFMul(a.im, bb.im))
		im := b.NewFAdd(b.NewFMul(a.re, bb.im), b.NewFMul(a.im, bb.re))
		return re, im
	})
	newBinOp(structName+"_div", func(b *ir.Block, a, bb parts) (value.Value, value.Value) {
		denom := b.NewFAdd(b.NewFMul(bb.re, bb.re), b.NewFMul(bb.im, bb.im))
		re := b.NewFDiv(b.NewFAdd(b.NewFMul(a.re, bb.re), b.NewFMul(a.im, bb.im)), denom)
		im := b.NewFDiv(b.NewFSub(b.NewFMul(a.im, bb.re), b.NewFMul(a.re, bb.im)), denom)
		return re, im
	})

	return st
}
