// Package graphop implements the ArrayOp base of spec.md §4.B: the
// construction protocol shared by every concrete op in internal/kernels,
// internal/broadcastlift, and internal/extgraph — arity checking, dtype
// unification, and broadcast-pattern propagation, followed by allocating and
// wiring the op's fresh outputs.
package graphop

import (
	"tensorgraph/internal/descriptor"
	graphErrors "tensorgraph/internal/errors"
)

// Spec is what a concrete op supplies to Construct: its declared arity and
// the broadcast-propagation rule spec.md §4.B calls abstract ("each op
// supplies its shape algebra").
type Spec interface {
	// Nin is the declared input arity; -1 means "don't check" (spec.md §4.B
	// step 2: "if nin >= 0 and arity mismatches, fail").
	Nin() int
	Nout() int
	PropagateBroadcastable(inputs []descriptor.Pattern) ([]descriptor.Pattern, error)
}

// DtypePropagator is implemented by ops that need a non-default dtype
// inference rule. Ops that don't implement it get DefaultPropagateDtype
// (spec.md §4.B step 4).
type DtypePropagator interface {
	PropagateDtype(inputs []descriptor.Dtype) ([]descriptor.Dtype, error)
}

// Base is the common bookkeeping every concrete op embeds: its inputs,
// freshly allocated outputs, and the destroy_map/view_map aliasing
// declarations of spec.md §3 ("Op node").
type Base struct {
	Name       string
	Inputs     []*descriptor.Result
	Outputs    []*descriptor.Result
	DestroyMap map[int][]int
	ViewMap    map[int][]int

	// Exec is set by the concrete op constructor (Broadcast, DimShuffle,
	// Sum, Subtensor, Argmax, Dot, Gemm, ...) once the wrapper embedding
	// this Base exists, so that Perform (and hence a Result's Owner) can
	// run the op without the caller needing to keep the concrete wrapper
	// type around — spec.md §5's "a graph is executed by running each
	// op's Perform in dependency order" walks Outputs[i].Owner(), which
	// otherwise only ever sees this bare Base.
	Exec func() error
}

// OpName satisfies descriptor.Owner.
func (b *Base) OpName() string { return b.Name }

// Perform runs the op's reference evaluator via the Exec hook the
// constructor installed. It is what lets a *Base, reached through
// Result.Owner(), still be executed generically.
func (b *Base) Perform() error {
	if b.Exec == nil {
		return graphErrors.New(graphErrors.Unimplemented, b.Name, "op has no reference evaluator wired")
	}
	return b.Exec()
}

// DefaultPropagateDtype is spec.md §4.B step 4: the set of non-null input
// dtypes must have cardinality exactly one; otherwise propagation fails.
func DefaultPropagateDtype(inputs []descriptor.Dtype, nout int) ([]descriptor.Dtype, error) {
	seen := map[descriptor.Dtype]bool{}
	for _, d := range inputs {
		if d != "" {
			seen[d] = true
		}
	}
	if len(seen) == 0 {
		return nil, graphErrors.New(graphErrors.DtypeInferenceUnderdetermined, "propagate_dtype", "no non-null input dtypes to infer from")
	}
	if len(seen) > 1 {
		return nil, graphErrors.Newf(graphErrors.DtypeInferenceConflict, "propagate_dtype", "conflicting input dtypes: %v", seen)
	}
	var only descriptor.Dtype
	for d := range seen {
		only = d
	}
	out := make([]descriptor.Dtype, nout)
	for i := range out {
		out[i] = only
	}
	return out, nil
}

// Construct runs the construction protocol of spec.md §4.B steps 1-5:
//
//  1. coerce each positional input via descriptor.Astensor
//  2. check arity against spec.Nin()
//  3. propagate broadcast patterns via spec.PropagateBroadcastable
//  4. propagate dtypes (spec.PropagateDtype if present, else the default)
//  5. allocate spec.Nout() fresh outputs, owned by the returned Base
//
// Any failure aborts before any output is installed, per spec.md §7's
// "every graph-build error aborts construction immediately".
func Construct(spec Spec, name string, rawInputs []interface{}) (*Base, error) {
	inputs := make([]*descriptor.Result, len(rawInputs))
	for i, v := range rawInputs {
		r, err := descriptor.Astensor(v, nil, "")
		if err != nil {
			return nil, err
		}
		inputs[i] = r
	}

	if nin := spec.Nin(); nin >= 0 && len(inputs) != nin {
		return nil, graphErrors.Newf(graphErrors.ArityMismatch, name, "expected %d inputs, got %d", nin, len(inputs))
	}

	patterns := make([]descriptor.Pattern, len(inputs))
	dtypes := make([]descriptor.Dtype, len(inputs))
	for i, r := range inputs {
		patterns[i] = r.Broadcastable()
		dtypes[i] = r.Dtype()
	}

	outPatterns, err := spec.PropagateBroadcastable(patterns)
	if err != nil {
		return nil, err
	}

	var outDtypes []descriptor.Dtype
	if dp, ok := spec.(DtypePropagator); ok {
		outDtypes, err = dp.PropagateDtype(dtypes)
	} else {
		outDtypes, err = DefaultPropagateDtype(dtypes, spec.Nout())
	}
	if err != nil {
		return nil, err
	}

	base := &Base{
		Name:       name,
		Inputs:     inputs,
		DestroyMap: map[int][]int{},
		ViewMap:    map[int][]int{},
	}
	base.Outputs = make([]*descriptor.Result, spec.Nout())
	for i := range base.Outputs {
		r, err := descriptor.New(outDtypes[i], outPatterns[i], "")
		if err != nil {
			return nil, err
		}
		r.SetOwner(base, i)
		base.Outputs[i] = r
	}
	return base, nil
}

// ViewRoots walks r's owner chain through each op's ViewMap declaration and
// returns the transitive set of non-view ancestors (spec.md §5/§9 "view
// root"). A leaf result (no owner) or a result an op does not declare as a
// view of any input is its own root.
func ViewRoots(r *descriptor.Result) []*descriptor.Result {
	owner := r.Owner()
	if owner == nil {
		return []*descriptor.Result{r}
	}
	base, ok := owner.(*Base)
	if !ok {
		return []*descriptor.Result{r}
	}
	role, ok := r.Role()
	if !ok {
		return []*descriptor.Result{r}
	}
	srcs, aliasing := base.ViewMap[role]
	if !aliasing {
		return []*descriptor.Result{r}
	}
	var roots []*descriptor.Result
	for _, inIdx := range srcs {
		roots = append(roots, ViewRoots(base.Inputs[inIdx])...)
	}
	return roots
}

// RootsIntersect reports whether a and b share any view root by identity,
// the check Gemm's constructor runs on z against x and y (spec.md §4.H).
func RootsIntersect(a, b []*descriptor.Result) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
