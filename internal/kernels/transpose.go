package kernels

import (
	"tensorgraph/internal/broadcastlift"
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/extgraph"
)

// TransposeInplace is DimShuffle specialized to the reversal permutation
// with the in-place flag set (spec.md §4.F).
type TransposeInplace struct {
	*extgraph.DimShuffle
}

func reversalPerm(rank int) []int {
	perm := make([]int, rank)
	for i := range perm {
		perm[i] = rank - 1 - i
	}
	return perm
}

// NewTransposeInplace builds a TransposeInplace of x.
func NewTransposeInplace(x *descriptor.Result) (*TransposeInplace, error) {
	ds, err := extgraph.NewDimShuffle(x, reversalPerm(x.Rank()), true, "TransposeInplace")
	if err != nil {
		return nil, err
	}
	return &TransposeInplace{DimShuffle: ds}, nil
}

// Transpose is transpose_inplace(tensor_copy(x)): it always materializes a
// fresh buffer first so the in-place op cannot clobber aliased upstream
// storage (spec.md §4.F).
func Transpose(x *descriptor.Result) (*descriptor.Result, error) {
	copied, err := broadcastlift.TensorCopy(x)
	if err != nil {
		return nil, err
	}
	t, err := NewTransposeInplace(copied)
	if err != nil {
		return nil, err
	}
	return t.Outputs[0], nil
}

// GradTranspose is the grad of transpose: transpose (spec.md §4.F).
func GradTranspose(gz *descriptor.Result) (*descriptor.Result, error) {
	return Transpose(gz)
}
