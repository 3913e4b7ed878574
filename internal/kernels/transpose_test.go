package kernels

import (
	"testing"

	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/graphop"
)

// evalChain runs every op r depends on, inputs first, then r's own producing
// op. Transpose builds TransposeInplace over a TensorCopy, so the copy must
// run before the transpose has data to read.
func evalChain(t *testing.T, r *descriptor.Result) {
	t.Helper()
	base, ok := r.Owner().(*graphop.Base)
	if !ok {
		return
	}
	for _, in := range base.Inputs {
		evalChain(t, in)
	}
	if err := base.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
}

// TestTransposeMatrix is spec.md §8 scenario 2: transpose([[1,2],[3,4]]) ==
// [[1,3],[2,4]].
func TestTransposeMatrix(t *testing.T) {
	m := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	tOut, err := Transpose(m)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	evalChain(t, tOut)
	want := []float64{1, 3, 2, 4}
	out := tOut.Data()
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestTransposeRectangular(t *testing.T) {
	m := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	tOut, err := Transpose(m)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	if tOut.Rank() != 2 {
		t.Fatalf("expected rank 2, got %d", tOut.Rank())
	}
}

// TestTransposeTransposeIdempotentPattern is spec.md §8 invariant 6:
// transpose(transpose(x)) has the same broadcast pattern as x.
func TestTransposeTransposeIdempotentPattern(t *testing.T) {
	m := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	once, err := Transpose(m)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	twice, err := Transpose(once)
	if err != nil {
		t.Fatalf("Transpose (second): %v", err)
	}
	want := m.Broadcastable()
	got := twice.Broadcastable()
	if len(want) != len(got) {
		t.Fatalf("broadcastable length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("broadcastable[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGradTransposeIsTranspose(t *testing.T) {
	gz := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	gx, err := GradTranspose(gz)
	if err != nil {
		t.Fatalf("GradTranspose: %v", err)
	}
	evalChain(t, gx)
	want := []float64{1, 3, 2, 4}
	out := gx.Data()
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}
