package kernels

import (
	"testing"

	"tensorgraph/internal/descriptor"
)

func mustScalar(t *testing.T, v float64) *descriptor.Result {
	t.Helper()
	r := descriptor.MustNew(descriptor.Float64, descriptor.Pattern{}, "")
	buf, err := descriptor.NewBufferFromFloats(descriptor.Float64, nil, []float64{v})
	if err != nil {
		t.Fatalf("NewBufferFromFloats: %v", err)
	}
	if err := r.SetData(buf); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	return r
}

// TestGemmReferenceEvaluator is spec.md §8's scenario 4: z = [[1,1],[1,1]],
// a=2.0, x=identity, y=[[3,4],[5,6]], b=0.5 => z = 0.5*z0 + 2.0*(x*y).
func TestGemmReferenceEvaluator(t *testing.T) {
	z := mustMatrix(t, []float64{1, 1, 1, 1}, []int{2, 2})
	a := mustScalar(t, 2.0)
	x := mustMatrix(t, []float64{1, 0, 0, 1}, []int{2, 2})
	y := mustMatrix(t, []float64{3, 4, 5, 6}, []int{2, 2})
	b := mustScalar(t, 0.5)

	zBufBefore := z.Data()

	g, err := NewGemm(z, a, x, y, b)
	if err != nil {
		t.Fatalf("NewGemm: %v", err)
	}
	if err := g.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	want := []float64{6.5, 8.5, 10.5, 12.5}
	out := g.Outputs[0].Data()
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Errorf("z[%d] = %v, want %v", i, got, w)
		}
	}
	// The output is the same buffer object z started with, not a copy
	// (spec.md Testable Property 8).
	if out != zBufBefore {
		t.Errorf("Gemm output is not the same buffer object as z")
	}
	if z.Data() != out {
		t.Errorf("z's own Data() was not updated in place")
	}
}

func TestGemmZAliasesXRejected(t *testing.T) {
	x := mustMatrix(t, []float64{1, 0, 0, 1}, []int{2, 2})
	a := mustScalar(t, 1.0)
	y := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	b := mustScalar(t, 0.0)

	_, err := NewGemm(x, a, x, y, b)
	if err == nil {
		t.Fatalf("expected ZAliasesInput error when z is x")
	}
}

func TestGemmRejectsNonRank2(t *testing.T) {
	z := mustMatrix(t, []float64{1, 1, 1, 1}, []int{2, 2})
	a := mustScalar(t, 1.0)
	x := mustVector(t, []float64{1, 2})
	y := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	b := mustScalar(t, 0.0)

	if _, err := NewGemm(z, a, x, y, b); err == nil {
		t.Fatalf("expected a rank-restriction error when x is rank 1")
	}
}

func TestGemmRejectsNonScalarAlpha(t *testing.T) {
	z := mustMatrix(t, []float64{1, 1, 1, 1}, []int{2, 2})
	a := mustVector(t, []float64{1, 2})
	x := mustMatrix(t, []float64{1, 0, 0, 1}, []int{2, 2})
	y := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	b := mustScalar(t, 0.0)

	if _, err := NewGemm(z, a, x, y, b); err == nil {
		t.Fatalf("expected a scalar-required error when a is rank 1")
	}
}

// TestGemmDispatchBranches walks through §4.H's optimized-form switch.
func TestGemmDispatchBranches(t *testing.T) {
	x := mustMatrix(t, []float64{1, 0, 0, 1}, []int{2, 2})
	y := mustMatrix(t, []float64{2, 0, 0, 2}, []int{2, 2})

	cases := []struct {
		name string
		a, b float64
		z    []float64
		want []float64
	}{
		{"b=0,a=1", 1, 0, []float64{9, 9, 9, 9}, []float64{2, 0, 0, 2}},
		{"b=0,a=-1", -1, 0, []float64{9, 9, 9, 9}, []float64{-2, 0, 0, -2}},
		{"b=0,a=general", 3, 0, []float64{9, 9, 9, 9}, []float64{6, 0, 0, 6}},
		{"b=1,a=1", 1, 1, []float64{1, 1, 1, 1}, []float64{3, 1, 1, 3}},
		{"b=1,a=-1", -1, 1, []float64{5, 5, 5, 5}, []float64{3, 5, 5, 3}},
		{"b=1,a=general", 4, 1, []float64{1, 1, 1, 1}, []float64{9, 1, 1, 9}},
		{"general", 2, 2, []float64{1, 1, 1, 1}, []float64{6, 2, 2, 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			z := mustMatrix(t, append([]float64(nil), tc.z...), []int{2, 2})
			a := mustScalar(t, tc.a)
			b := mustScalar(t, tc.b)
			g, err := NewGemm(z, a, x, y, b)
			if err != nil {
				t.Fatalf("NewGemm: %v", err)
			}
			if err := g.Perform(); err != nil {
				t.Fatalf("Perform: %v", err)
			}
			out := g.Outputs[0].Data()
			for i, w := range tc.want {
				if got := out.At(i); got != w {
					t.Errorf("z[%d] = %v, want %v", i, got, w)
				}
			}
		})
	}
}

func TestGemmGradIsUnimplemented(t *testing.T) {
	z := mustMatrix(t, []float64{1, 1, 1, 1}, []int{2, 2})
	a := mustScalar(t, 1.0)
	x := mustMatrix(t, []float64{1, 0, 0, 1}, []int{2, 2})
	y := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	b := mustScalar(t, 0.0)

	g, err := NewGemm(z, a, x, y, b)
	if err != nil {
		t.Fatalf("NewGemm: %v", err)
	}
	if err := g.Grad(); err == nil {
		t.Fatalf("expected Gemm.Grad to report unimplemented")
	}
}
