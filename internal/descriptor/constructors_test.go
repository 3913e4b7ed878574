package descriptor

import "testing"

func TestVectorIsRankOne(t *testing.T) {
	v := Vector("v", Float64)
	if v.Rank() != 1 {
		t.Errorf("expected vector to be rank 1, got %d", v.Rank())
	}
	if v.Broadcastable()[0] {
		t.Errorf("expected vector's single axis to be non-broadcast")
	}
}

func TestRowAndColBroadcastPatterns(t *testing.T) {
	r := Row("r", Float64)
	if !r.Broadcastable().Equal(Pattern{true, false}) {
		t.Errorf("row pattern = %v, want (true,false)", r.Broadcastable())
	}
	c := Col("c", Float64)
	if !c.Broadcastable().Equal(Pattern{false, true}) {
		t.Errorf("col pattern = %v, want (false,true)", c.Broadcastable())
	}
}

func TestAstensorIdempotentOnResult(t *testing.T) {
	v := Vector("v", Float64)
	got, err := Astensor(v, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("expected astensor to be idempotent on an existing Result")
	}
}

func TestAstensorRejectsNil(t *testing.T) {
	if _, err := Astensor(nil, nil, ""); err == nil {
		t.Errorf("expected astensor(nil) to fail")
	}
}

func TestAstensorCoercesFloatSlice(t *testing.T) {
	r, err := Astensor([]float64{1, 2, 3}, nil, "v")
	if err != nil {
		t.Fatal(err)
	}
	if r.Rank() != 1 || r.Dtype() != Float64 {
		t.Fatalf("unexpected descriptor: rank=%d dtype=%s", r.Rank(), r.Dtype())
	}
	if r.Data().At(1) != 2 {
		t.Errorf("expected coerced data to round-trip")
	}
}

func TestAstensorDefaultBroadcastableFromShape(t *testing.T) {
	r, err := Astensor([][]float64{{1, 2, 3}}, nil, "row")
	if err != nil {
		t.Fatal(err)
	}
	// shape (1,3): axis 0 has size 1 so defaults to broadcastable.
	want := Pattern{true, false}
	if !r.Broadcastable().Equal(want) {
		t.Errorf("broadcastable = %v, want %v", r.Broadcastable(), want)
	}
}

func TestPluralConstructorsNameIndependently(t *testing.T) {
	vs := Vectors("a", "b", "c")
	if len(vs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vs))
	}
	for i, name := range []string{"a", "b", "c"} {
		if vs[i].Name() != name {
			t.Errorf("vs[%d].Name() = %q, want %q", i, vs[i].Name(), name)
		}
	}
}
