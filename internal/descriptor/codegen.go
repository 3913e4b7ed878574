package descriptor

import (
	"github.com/llir/llvm/ir/types"

	graphErrors "tensorgraph/internal/errors"
	"tensorgraph/internal/nativegen"
)

// CodegenStubs is the set of named string-emitting hooks spec.md §4.A
// describes: declare, init, extract, sync, cleanup, support_code. Each
// receives a variable name and a substitution map (forwarded as additional
// Fragment.Vars entries so a downstream kernel's own codegen can reference
// them) and returns the emitted native source fragment.
//
// Declare, Init, Extract, Sync and Cleanup all return the same fragment: one
// LLVM module holding the five empty stub functions nativegen.EmitArrayStubs
// builds for varName (plus the complex support code for complex dtypes).
type CodegenStubs struct {
	result *Result
}

// Codegen returns the codegen stub surface for r.
func (r *Result) Codegen() *CodegenStubs {
	return &CodegenStubs{result: r}
}

// dtypeOrder fixes a stable numbering used for the type_num_NAME variable;
// downstream kernels only need these to be distinct and consistent within
// one program, not to match any external runtime's numbering.
var dtypeOrder = []Dtype{Float32, Float64, Int8, Int16, Int32, Int64, Complex64, Complex128}

func typeNumFor(dtype Dtype) int64 {
	for i, d := range dtypeOrder {
		if d == dtype {
			return int64(i)
		}
	}
	return -1
}

// floatComponentType returns the LLVM float type backing a complex dtype's
// {real, imag} struct: float32 components for Complex64, float64 for
// Complex128.
func floatComponentType(dtype Dtype) types.Type {
	if dtype == Complex64 {
		return types.Float
	}
	return types.Double
}

func (c *CodegenStubs) buildFragment(varName string, subst map[string]string) (*nativegen.Fragment, error) {
	spec, err := SpecOf(c.result.dtype)
	if err != nil {
		return nil, err
	}
	frag := nativegen.NewFragment()
	if spec.Kind == KindComplex {
		nativegen.EmitComplexSupportCode(frag, spec.NativeType, floatComponentType(c.result.dtype))
		// Complex array stubs still need a concrete pointer element type;
		// the float component width stands in for the native element.
		nativegen.EmitArrayStubs(frag, varName, floatComponentType(c.result.dtype), typeNumFor(c.result.dtype))
	} else {
		llType, err := nativegen.NativeLLType(spec.NativeType)
		if err != nil {
			return nil, err
		}
		nativegen.EmitArrayStubs(frag, varName, llType, typeNumFor(c.result.dtype))
	}
	for k, v := range subst {
		frag.Vars[k] = v
	}
	return frag, nil
}

// Declare emits the declaration hook for varName: the stub fragment, whose
// declare_<varName> function has an empty body.
func (c *CodegenStubs) Declare(varName string, subst map[string]string) (string, error) {
	frag, err := c.buildFragment(varName, subst)
	if err != nil {
		return "", err
	}
	return frag.String(), nil
}

// Init emits the initialization hook; it returns the same fragment as
// Declare, whose init_<varName> function has an empty body.
func (c *CodegenStubs) Init(varName string, subst map[string]string) (string, error) {
	return c.Declare(varName, subst)
}

// Extract emits the extraction hook; it returns the same fragment as
// Declare. The emitted IR performs no checks; ValidateForExtract is the
// Go-side check, rejecting null buffers and dtype mismatches (data is always
// a Buffer, so there is no non-array case to reject).
func (c *CodegenStubs) Extract(varName string, subst map[string]string) (string, error) {
	return c.Declare(varName, subst)
}

// ValidateForExtract is the runtime-side precondition the native extract
// hook enforces: no null buffer, no dtype mismatch.
func (r *Result) ValidateForExtract() error {
	if r.data == nil {
		return graphErrors.New(graphErrors.NotImplementedType, "extract", "cannot extract a null buffer")
	}
	if r.data.Dtype() != r.dtype {
		return graphErrors.Newf(graphErrors.NotImplementedType, "extract",
			"buffer dtype %q does not match descriptor dtype %q", r.data.Dtype(), r.dtype)
	}
	return nil
}

// Sync emits the sync-back hook; it returns the same fragment as Declare,
// whose sync_<varName> function has an empty body. It does not look at the
// Result's data: it neither writes a buffer back nor emits a null sentinel
// for a Result without data.
func (c *CodegenStubs) Sync(varName string, subst map[string]string) (string, error) {
	return c.Declare(varName, subst)
}

// Cleanup emits the cleanup hook; it returns the same fragment as Declare,
// whose cleanup_<varName> function has an empty body.
func (c *CodegenStubs) Cleanup(varName string, subst map[string]string) (string, error) {
	return c.Declare(varName, subst)
}

// SupportCode emits the per-dtype auxiliary struct definitions (complex
// arithmetic operator overloads for the two complex widths); for non-complex
// dtypes there is no auxiliary code and SupportCode returns the empty
// string.
func (c *CodegenStubs) SupportCode() (string, error) {
	spec, err := SpecOf(c.result.dtype)
	if err != nil {
		return "", err
	}
	if spec.Kind != KindComplex {
		return "", nil
	}
	frag := nativegen.NewFragment()
	nativegen.EmitComplexSupportCode(frag, spec.NativeType, floatComponentType(c.result.dtype))
	return frag.String(), nil
}
