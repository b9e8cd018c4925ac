// Package result holds the outcome of a call into an external collaborator.
//
// A Result is exactly one of:
//   - Ok: the collaborator answered and the value is usable as is.
//   - Degraded: the collaborator failed, but a built-in default stands in for its answer.
//   - Fatal: the collaborator failed and nothing can stand in for it.
package result

import "fmt"

type Kind int

const (
	KindOk Kind = iota
	KindDegraded
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindDegraded:
		return "degraded"
	case KindFatal:
		return "fatal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Result[T any] struct {
	kind  Kind
	value T
	// For Degraded, why the default was used. For Fatal, the error itself.
	reason error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{kind: KindOk, value: value}
}

func Degraded[T any](fallback T, reason error) Result[T] {
	return Result[T]{kind: KindDegraded, value: fallback, reason: reason}
}

func Fatal[T any](err error) Result[T] {
	return Result[T]{kind: KindFatal, reason: err}
}

func (r Result[T]) Kind() Kind {
	return r.kind
}

func (r Result[T]) IsOk() bool {
	return r.kind == KindOk
}

func (r Result[T]) IsDegraded() bool {
	return r.kind == KindDegraded
}

func (r Result[T]) IsFatal() bool {
	return r.kind == KindFatal
}

// Value returns the usable value: the answer for Ok, the fallback for Degraded,
// and the zero value for Fatal.
func (r Result[T]) Value() T {
	return r.value
}

// Reason is nil for Ok.
func (r Result[T]) Reason() error {
	return r.reason
}

// Unwrap collapses the result into Go's usual (value, error) pair.
// Degraded results are not errors.
func (r Result[T]) Unwrap() (T, error) {
	if r.kind == KindFatal {
		var zero T
		return zero, r.reason
	}
	return r.value, nil
}
