package nativegen

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir/types"
)

func TestEmitArrayStubsExposesVars(t *testing.T) {
	frag := NewFragment()
	stubs := EmitArrayStubs(frag, "v0", types.Double, 12)
	if stubs.Declare == nil || stubs.Init == nil || stubs.Extract == nil || stubs.Sync == nil || stubs.Cleanup == nil {
		t.Fatalf("expected all five stub functions to be built")
	}
	if frag.Vars["v0"] != "v0" {
		t.Errorf("expected NAME var to be recorded")
	}
	if frag.Vars["type_num_v0"] != "12" {
		t.Errorf("expected type_num_NAME var to be recorded, got %q", frag.Vars["type_num_v0"])
	}
	ir := frag.String()
	if !strings.Contains(ir, "declare_v0") || !strings.Contains(ir, "extract_v0") {
		t.Errorf("expected emitted IR to mention the stub function names, got:\n%s", ir)
	}
}

func TestEmitComplexSupportCodeBuildsArithmetic(t *testing.T) {
	frag := NewFragment()
	EmitComplexSupportCode(frag, "complex64_t", types.Float)
	ir := frag.String()
	for _, want := range []string{"complex64_t_add", "complex64_t_sub", "complex64_t_mul", "complex64_t_div"} {
		if !strings.Contains(ir, want) {
			t.Errorf("expected emitted IR to define %s, got:\n%s", want, ir)
		}
	}
}
