package kernels

import "testing"

func TestDotMatrixMatrix(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	y := mustMatrix(t, []float64{7, 8, 9, 10, 11, 12}, []int{3, 2})

	d, err := NewDot(x, y)
	if err != nil {
		t.Fatalf("NewDot: %v", err)
	}
	if err := d.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	// [[1,2,3],[4,5,6]] . [[7,8],[9,10],[11,12]] = [[58,64],[139,154]]
	want := []float64{58, 64, 139, 154}
	out := d.Outputs[0].Data()
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestDotMatrixVector(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	y := mustVector(t, []float64{1, 1, 1})

	d, err := NewDot(x, y)
	if err != nil {
		t.Fatalf("NewDot: %v", err)
	}
	if d.Outputs[0].Rank() != 1 {
		t.Fatalf("expected rank-1 output for matrix . vector, got %d", d.Outputs[0].Rank())
	}
	if err := d.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	want := []float64{6, 15}
	out := d.Outputs[0].Data()
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestDotScalarBroadcastRank(t *testing.T) {
	x := mustScalar(t, 2)
	y := mustMatrix(t, []float64{1, 2, 3, 4}, []int{2, 2})

	d, err := NewDot(x, y)
	if err != nil {
		t.Fatalf("NewDot: %v", err)
	}
	if d.Outputs[0].Rank() != y.Rank() {
		t.Fatalf("scalar . y should carry y's broadcast pattern, got rank %d want %d", d.Outputs[0].Rank(), y.Rank())
	}
	if err := d.Perform(); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	want := []float64{2, 4, 6, 8}
	out := d.Outputs[0].Data()
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestDotGradShape(t *testing.T) {
	x := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	y := mustMatrix(t, []float64{1, 2, 3, 4, 5, 6}, []int{3, 2})
	d, err := NewDot(x, y)
	if err != nil {
		t.Fatalf("NewDot: %v", err)
	}
	gz := mustMatrix(t, []float64{1, 1, 1, 1}, []int{2, 2})
	gx, gy, err := d.Grad(gz)
	if err != nil {
		t.Fatalf("Grad: %v", err)
	}
	if gx.Rank() != x.Rank() {
		t.Errorf("gx rank = %d, want %d", gx.Rank(), x.Rank())
	}
	if gy.Rank() != y.Rank() {
		t.Errorf("gy rank = %d, want %d", gy.Rank(), y.Rank())
	}
}
