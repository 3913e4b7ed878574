// Package errors provides the typed error used across the graph-construction
// and kernel-execution layers of the compiler core.
package errors

import (
	stderrors "errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies a stable error category. Kinds are the addressable string
// constants referenced by spec §6/§7 so that callers (and tests) can match on
// them without parsing messages.
type Kind string

const (
	// Descriptor errors (§4.A, §7).
	UnsupportedDtype    Kind = "UnsupportedDtype"
	WrongRank           Kind = "wrong rank"
	NonUnitBroadcastAxis Kind = "non-unit size on broadcastable dimension"

	// Graph-build errors (§4.B, §7).
	ArityMismatch               Kind = "ArityMismatch"
	DtypeInferenceUnderdetermined Kind = "DtypeInferenceUnderdetermined"
	DtypeInferenceConflict      Kind = "DtypeInferenceConflict"
	InvalidIndex                Kind = "invalid index"
	RankRestriction             Kind = "gemm only works for rank 2"
	ScalarRequired               Kind = "gemm requires scalar argument"
	ZAliasesInput                Kind = "argument z aliased to x or y"
	InvalidAxis                  Kind = "invalid axis"

	// Runtime kernel errors (§4.H, §7).
	NotImplementedType              Kind = "NotImplementedType"
	ShapeMismatch                    Kind = "ShapeMismatch"
	NonUnitStride                    Kind = "NonUnitStride"
	StrideNotMultipleOfElementSize   Kind = "StrideNotMultipleOfElementSize"

	// Unimplemented operations (§4.D, §4.H).
	Unimplemented Kind = "Unimplemented"
)

// GraphError is the error type raised by every graph-build or runtime-kernel
// failure in this module. Context carries structured detail (offending
// shapes, dtypes, op name) useful to a caller without forcing it to parse
// Message.
type GraphError struct {
	Kind    Kind
	Op      string
	Message string
	Context map[string]interface{}
	cause   error
}

func (e *GraphError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *GraphError) Unwrap() error {
	return e.cause
}

// New builds a GraphError, wrapping it through pkg/errors so the surrounding
// compiler retains a stack trace at the point of failure.
func New(kind Kind, op, message string) error {
	return pkgerrors.WithStack(&GraphError{Kind: kind, Op: op, Message: message})
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, format string, args ...interface{}) error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// WithContext attaches structured detail to a GraphError produced by New,
// looking through any pkg/errors wrapping to find it.
func WithContext(err error, ctx map[string]interface{}) error {
	var ge *GraphError
	if !stderrors.As(err, &ge) {
		return err
	}
	ge.Context = ctx
	return err
}

// As delegates to the standard library's errors.As so callers outside this
// package don't need a second import to unwrap a GraphError.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is reports whether err is a GraphError of the given kind.
func Is(err error, kind Kind) bool {
	var ge *GraphError
	if !stderrors.As(err, &ge) {
		return false
	}
	return ge.Kind == kind
}
