package extgraph

import (
	"testing"

	"tensorgraph/internal/descriptor"
)

func mustMatrix(t *testing.T, flat []float64, shape []int) *descriptor.Result {
	t.Helper()
	broadcastable := make(descriptor.Pattern, len(shape))
	r := descriptor.MustNew(descriptor.Float64, broadcastable, "")
	buf, err := descriptor.NewBufferFromFloats(descriptor.Float64, shape, flat)
	if err != nil {
		t.Fatalf("NewBufferFromFloats: %v", err)
	}
	if err := r.SetData(buf); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	return r
}

func TestDimShufflePermutes2x3(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	ds, err := NewDimShuffle(x, []int{1, 0}, false, "Transpose")
	if err != nil {
		t.Fatalf("NewDimShuffle: %v", err)
	}
	if err := ds.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	out := ds.Outputs[0].Data()
	if out.Shape()[0] != 3 || out.Shape()[1] != 2 {
		t.Fatalf("expected shape [3 2], got %v", out.Shape())
	}
	want := []float64{1, 4, 2, 5, 3, 6}
	for i, w := range want {
		if out.At(i) != w {
			t.Errorf("element %d = %v, want %v", i, out.At(i), w)
		}
	}
}

func TestDimShuffleWrongPermLength(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	if _, err := NewDimShuffle(x, []int{0, 1, 2}, false, "Bad"); err == nil {
		t.Fatalf("expected an error for a permutation length mismatch")
	}
}

func TestSumFullReduction(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})
	s, err := NewSum(x, nil)
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	if err := s.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if s.Outputs[0].Rank() != 0 {
		t.Fatalf("expected a scalar output, got rank %d", s.Outputs[0].Rank())
	}
	if got := s.Outputs[0].Data().At(0); got != 10 {
		t.Errorf("sum = %v, want 10", got)
	}
}

func TestSumAlongAxis(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	axisBuf, err := descriptor.NewBufferFromFloats(descriptor.Int64, nil, []float64{1})
	if err != nil {
		t.Fatalf("NewBufferFromFloats: %v", err)
	}
	axis := descriptor.MustNew(descriptor.Int64, descriptor.Pattern{}, "axis")
	if err := axis.SetData(axisBuf); err != nil {
		t.Fatalf("SetData: %v", err)
	}

	s, err := NewSum(x, axis)
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	if err := s.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	out := s.Outputs[0].Data()
	want := []float64{6, 15}
	for i, w := range want {
		if out.At(i) != w {
			t.Errorf("element %d = %v, want %v", i, out.At(i), w)
		}
	}
}
