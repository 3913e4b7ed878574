package scalarops

import "testing"

func TestBinaryApply(t *testing.T) {
	cases := []struct {
		op   Op
		a, b float64
		want float64
	}{
		{Add, 2, 3, 5},
		{Sub, 5, 3, 2},
		{Mul, 4, 3, 12},
		{Div, 9, 3, 3},
		{Pow, 2, 10, 1024},
		{Lt, 1, 2, 1},
		{Lt, 2, 1, 0},
		{Ge, 2, 2, 1},
	}
	for _, c := range cases {
		got, err := c.op.Apply(c.a, c.b)
		if err != nil {
			t.Fatalf("%s.Apply(%v, %v): %v", c.op.Name(), c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("%s.Apply(%v, %v) = %v, want %v", c.op.Name(), c.a, c.b, got, c.want)
		}
	}
}

func TestBinaryApplyWrongArity(t *testing.T) {
	if _, err := Add.Apply(1); err == nil {
		t.Fatalf("expected an arity error")
	}
}

func TestUnaryApply(t *testing.T) {
	cases := []struct {
		op   Op
		a    float64
		want float64
	}{
		{Abs, -3, 3},
		{Neg, 3, -3},
		{Sqr, 4, 16},
		{Sgn, -5, -1},
		{Sgn, 0, 0},
		{Sgn, 5, 1},
		{Identity, 7, 7},
	}
	for _, c := range cases {
		got, err := c.op.Apply(c.a)
		if err != nil {
			t.Fatalf("%s.Apply(%v): %v", c.op.Name(), c.a, err)
		}
		if got != c.want {
			t.Errorf("%s.Apply(%v) = %v, want %v", c.op.Name(), c.a, got, c.want)
		}
	}
}
