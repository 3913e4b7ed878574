package descriptor

import "testing"

func TestElemwiseBroadcastAlignsRightmost(t *testing.T) {
	// x: (3,) broadcastable=(false); y: (1,3) broadcastable=(true,false)
	// aligned: x padded to (true,false), result = AND per axis = (true,false)
	got := ElemwiseBroadcast(Pattern{false}, Pattern{true, false})
	want := Pattern{true, false}
	if !got.Equal(want) {
		t.Errorf("ElemwiseBroadcast = %v, want %v", got, want)
	}
}

func TestElemwiseBroadcastBothNonBroadcastStaysNonBroadcast(t *testing.T) {
	got := ElemwiseBroadcast(Pattern{false, false}, Pattern{false, false})
	want := Pattern{false, false}
	if !got.Equal(want) {
		t.Errorf("ElemwiseBroadcast = %v, want %v", got, want)
	}
}

func TestElemwiseBroadcastBothBroadcastStaysBroadcast(t *testing.T) {
	got := ElemwiseBroadcast(Pattern{true}, Pattern{true})
	want := Pattern{true}
	if !got.Equal(want) {
		t.Errorf("ElemwiseBroadcast = %v, want %v", got, want)
	}
}

func TestPadLeft(t *testing.T) {
	got := Pattern{false}.PadLeft(3, true)
	want := Pattern{true, true, false}
	if !got.Equal(want) {
		t.Errorf("PadLeft = %v, want %v", got, want)
	}
}
