package kernels

import (
	"testing"

	"tensorgraph/internal/descriptor"
)

func mustVector(t *testing.T, flat []float64) *descriptor.Result {
	t.Helper()
	r := descriptor.MustNew(descriptor.Float64, descriptor.Pattern{false}, "")
	buf, err := descriptor.NewBufferFromFloats(descriptor.Float64, []int{len(flat)}, flat)
	if err != nil {
		t.Fatalf("NewBufferFromFloats: %v", err)
	}
	if err := r.SetData(buf); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	return r
}

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

func TestSubtensorIntegerIndex(t *testing.T) {
	x := mustVector(t, []float64{10, 20, 30, 40})
	s, err := NewSubtensor(x, []IndexEntry{Index(2)})
	if err != nil {
		t.Fatalf("NewSubtensor: %v", err)
	}
	if s.Outputs[0].Rank() != 0 {
		t.Fatalf("expected a scalar result, got rank %d", s.Outputs[0].Rank())
	}
	if err := s.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if got := s.Outputs[0].Data().At(0); got != 30 {
		t.Errorf("x[2] = %v, want 30", got)
	}
}

func TestSubtensorNegativeIntegerIndex(t *testing.T) {
	x := mustVector(t, []float64{10, 20, 30, 40})
	s, err := NewSubtensor(x, []IndexEntry{Index(-1)})
	if err != nil {
		t.Fatalf("NewSubtensor: %v", err)
	}
	if err := s.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if got := s.Outputs[0].Data().At(0); got != 40 {
		t.Errorf("x[-1] = %v, want 40", got)
	}
}

func TestSubtensorSliceWithOpenStop(t *testing.T) {
	x := mustVector(t, []float64{10, 20, 30, 40, 50})
	s, err := NewSubtensor(x, []IndexEntry{Slice(1, MaxIndex, 1)})
	if err != nil {
		t.Fatalf("NewSubtensor: %v", err)
	}
	if err := s.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	out := s.Outputs[0].Data()
	want := []float64{20, 30, 40, 50}
	if out.Size() != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), out.Size())
	}
	for i, w := range want {
		if out.At(i) != w {
			t.Errorf("element %d = %v, want %v", i, out.At(i), w)
		}
	}
}

func TestSubtensorPadsShortIndex(t *testing.T) {
	m := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	s, err := NewSubtensor(m, []IndexEntry{Index(1)})
	if err != nil {
		t.Fatalf("NewSubtensor: %v", err)
	}
	if s.Outputs[0].Rank() != 1 {
		t.Fatalf("expected rank 1 after padding, got %d", s.Outputs[0].Rank())
	}
	if err := s.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	out := s.Outputs[0].Data()
	want := []float64{4, 5, 6}
	for i, w := range want {
		if out.At(i) != w {
			t.Errorf("element %d = %v, want %v", i, out.At(i), w)
		}
	}
}

func TestSubtensorOutOfRangeIndex(t *testing.T) {
	x := mustVector(t, []float64{1, 2, 3})
	s, err := NewSubtensor(x, []IndexEntry{Index(5)})
	if err != nil {
		t.Fatalf("NewSubtensor: %v", err)
	}
	if err := s.Perform(); err == nil {
		t.Fatalf("expected an out-of-range index error")
	}
}
