package descriptor

import (
	"fmt"
	"hash/fnv"

	graphErrors "tensorgraph/internal/errors"
)

// Owner is the minimal surface a TypedArrayResult needs from the op that
// produced it. It stands in for the generic Op base of spec.md §6
// ("Interfaces consumed"), which lives outside this module's scope; the
// concrete implementation is internal/graphop.Base.
type Owner interface {
	OpName() string
}

// Result is the typed array Result of spec.md §3/§4.A: a symbolic array
// value combining a static descriptor (Dtype + Pattern) with an optional
// concrete buffer.
type Result struct {
	dtype         Dtype
	broadcastable Pattern
	data          Buffer
	name          string
	owner         Owner
	role          *int // nil for leaves/inputs
}

// New constructs a Result from (dtype, broadcastable). dtype must be one of
// the closed set in the dtype-spec table or construction fails with
// UnsupportedDtype.
func New(dtype Dtype, broadcastable Pattern, name string) (*Result, error) {
	if !dtype.Valid() {
		return nil, graphErrors.Newf(graphErrors.UnsupportedDtype, "descriptor.New", "unsupported dtype %q", dtype)
	}
	return &Result{
		dtype:         dtype,
		broadcastable: broadcastable.Clone(),
		name:          name,
	}, nil
}

// MustNew panics on error. Reserved for tests and constant-shape call sites
// where the dtype is hardcoded and known valid.
func MustNew(dtype Dtype, broadcastable Pattern, name string) *Result {
	r, err := New(dtype, broadcastable, name)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Result) Dtype() Dtype             { return r.dtype }
func (r *Result) Broadcastable() Pattern   { return r.broadcastable.Clone() }
func (r *Result) Rank() int                { return len(r.broadcastable) }
func (r *Result) Name() string             { return r.name }
func (r *Result) Owner() Owner             { return r.owner }
func (r *Result) Role() (int, bool) {
	if r.role == nil {
		return 0, false
	}
	return *r.role, true
}
func (r *Result) Data() Buffer { return r.data }

// SetOwner wires owner/role at graph-construction time (spec.md §4.B step
// 5). Not exported beyond this module's op-construction path: only
// internal/graphop installs ownership, mirroring "mutation is limited to
// ... owner/role assignment at graph-wiring time" (spec.md §3 Lifecycle).
func (r *Result) SetOwner(owner Owner, role int) {
	r.owner = owner
	roleCopy := role
	r.role = &roleCopy
}

// Filter validates a Buffer against this Result's descriptor: rank must
// match len(broadcastable), and every broadcast axis must have size 1.
// (spec.md §4.A filter.)
func (r *Result) Filter(buf Buffer) (Buffer, error) {
	if buf.Dtype() != r.dtype {
		coerced, err := coerceDtype(buf, r.dtype)
		if err != nil {
			return nil, err
		}
		buf = coerced
	}
	shape := buf.Shape()
	if len(shape) != len(r.broadcastable) {
		return nil, graphErrors.Newf(graphErrors.WrongRank, "Tensor.filter",
			"broadcastable %v has rank %d, got array of rank %d", r.broadcastable, len(r.broadcastable), len(shape))
	}
	for i, b := range r.broadcastable {
		if b && shape[i] != 1 {
			return nil, graphErrors.Newf(graphErrors.NonUnitBroadcastAxis, "Tensor.filter",
				"axis %d is declared broadcastable but has size %d", i, shape[i])
		}
	}
	return buf, nil
}

// coerceDtype casts buf's storage to dtype, matching "if not already a
// strided array of matching dtype, coerces by dtype cast" (spec.md §4.A).
func coerceDtype(buf Buffer, dtype Dtype) (Buffer, error) {
	flat := make([]float64, buf.Size())
	for i := range flat {
		flat[i] = buf.At(i)
	}
	return NewBufferFromFloats(dtype, buf.Shape(), flat)
}

// SetData runs Filter and, on success, installs the validated buffer.
func (r *Result) SetData(buf Buffer) error {
	validated, err := r.Filter(buf)
	if err != nil {
		return err
	}
	r.data = validated
	return nil
}

// Fingerprint is the hashable content fingerprint desc() of spec.md §4.A: a
// pure function of (dtype, broadcastable, data-bytes-or-null), used by the
// enclosing compiler for constant-folding equality (Testable Property 1).
type Fingerprint struct {
	Dtype         Dtype
	Broadcastable string
	DataHash      uint64
	HasData       bool
}

func (r *Result) Desc() Fingerprint {
	fp := Fingerprint{Dtype: r.dtype, Broadcastable: fmt.Sprint([]bool(r.broadcastable))}
	if r.data == nil {
		return fp
	}
	fp.HasData = true
	h := fnv.New64a()
	for i := 0; i < r.data.Size(); i++ {
		fmt.Fprintf(h, "%x", r.data.At(i))
	}
	fp.DataHash = h.Sum64()
	return fp
}

// Clone returns a new Result with the same descriptor and name; if
// transferData, the buffer is deep-copied, otherwise the clone starts with
// no data.
func (r *Result) Clone(transferData bool) *Result {
	out := &Result{
		dtype:         r.dtype,
		broadcastable: r.broadcastable.Clone(),
		name:          r.name,
	}
	if transferData && r.data != nil {
		out.data = r.data.Clone()
	}
	return out
}
