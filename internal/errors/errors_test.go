package errors

import "testing"

func TestNewAndIs(t *testing.T) {
	err := New(WrongRank, "Tensor.filter", "expected rank 2, got rank 1")
	if !Is(err, WrongRank) {
		t.Errorf("expected Is(err, WrongRank) to be true")
	}
	if Is(err, InvalidIndex) {
		t.Errorf("expected Is(err, InvalidIndex) to be false")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Newf(ArityMismatch, "Gemm", "expected %d inputs, got %d", 5, 3)
	got := err.Error()
	want := "Gemm: ArityMismatch: expected 5 inputs, got 3"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWithContext(t *testing.T) {
	err := New(ZAliasesInput, "Gemm", "z shares storage with x")
	err = WithContext(err, map[string]interface{}{"z": "v0", "x": "v0"})
	var ge *GraphError
	if !As(err, &ge) {
		t.Fatalf("expected *GraphError")
	}
	if ge.Context["z"] != "v0" {
		t.Errorf("expected context to be attached")
	}
}
