package erroror

import (
	"fmt"

	"github.com/m-ou-se/mstd/pkg/contract"
)

// Empty is the payload type of a result that carries no value.
type Empty = struct{}

// Of is either a T value or an E error.
//
// The zero Of is ok and holds the zero T. An E is "no error" when it is the
// zero E or, if E implements OKer, when its OK method says so.
type Of[T any, E comparable] struct {
	err   E
	value T // valid only while err is "no error"
}

// Status is a result without a payload: any "no error" E means success.
type Status[E comparable] = Of[Empty, E]

// Value returns a successful result holding v.
func Value[T any, E comparable](v T) Of[T, E] {
	return Of[T, E]{value: v}
}

// Error returns a failed result holding e.
//
// Unless T is Empty, e must denote an actual error: passing "no error" means
// the caller meant to return a value and forgot it, and Error panics.
func Error[T any, E comparable](e E) Of[T, E] {
	requireError[T](e)
	return Of[T, E]{err: e}
}

// Done returns a successful Status.
func Done[E comparable]() Status[E] {
	return Status[E]{}
}

// StatusOf returns a Status holding e. A "no error" e is a success.
func StatusOf[E comparable](e E) Status[E] {
	return Status[E]{err: e}
}

// Ok returns a successful result with the error interface as error type.
func Ok[T any](v T) Of[T, error] {
	return Of[T, error]{value: v}
}

// Fail returns a failed result with the error interface as error type.
// err must not be nil.
func Fail[T any](err error) Of[T, error] {
	return Error[T](err)
}

// From converts a Go (value, error) pair. A non-nil err wins and v is dropped.
func From[T any](v T, err error) Of[T, error] {
	if err != nil {
		return Of[T, error]{err: err}
	}
	return Of[T, error]{value: v}
}

// OK reports whether r holds a value (for Status: whether it is a success).
func (r Of[T, E]) OK() bool {
	return isOK(r.err)
}

// Err returns r's error. It is the zero E when r is ok.
func (r Of[T, E]) Err() E {
	return r.err
}

// Value returns r's payload. It panics if r is not ok.
func (r Of[T, E]) Value() T {
	r.mustBeOK()
	return r.value
}

// ValuePtr returns a pointer to r's payload for in-place access.
// It panics if r is not ok.
func (r *Of[T, E]) ValuePtr() *T {
	r.mustBeOK()
	return &r.value
}

// Take moves the payload out of r. r stays ok but no longer holds the value.
// It panics if r is not ok.
func (r *Of[T, E]) Take() T {
	r.mustBeOK()
	v := r.value
	var zero T
	r.value = zero
	return v
}

// ValueOr returns r's payload, or def if r is not ok.
func (r Of[T, E]) ValueOr(def T) T {
	if !r.OK() {
		return def
	}
	return r.value
}

// Get returns the payload and the error in Go's usual order.
// The payload is the zero T when r is not ok.
func (r Of[T, E]) Get() (T, E) {
	return r.value, r.err
}

// Set makes r a successful result holding v.
func (r *Of[T, E]) Set(v T) {
	// payload first: r must never read as ok without its value
	r.value = v
	var zero E
	r.err = zero
}

// SetErr makes r a failed result holding e, under the same rule as Error.
func (r *Of[T, E]) SetErr(e E) {
	requireError[T](e)
	var zero T
	r.value = zero
	r.err = e
}

// Move returns r's current state and leaves r ok with the zero payload.
func (r *Of[T, E]) Move() Of[T, E] {
	out := *r
	*r = Of[T, E]{}
	return out
}

// Is reports whether r's error equals e. Errors also match the way
// errors.Is does, through wrapping.
func (r Of[T, E]) Is(e E) bool {
	return matches(r.err, e)
}

// String formats r as ok(value) or error(err).
func (r Of[T, E]) String() string {
	if r.OK() {
		return fmt.Sprintf("ok(%v)", r.value)
	}
	return fmt.Sprintf("error(%v)", r.err)
}

func (r *Of[T, E]) mustBeOK() {
	if !r.OK() {
		contract.Panic(contract.ErrNoValue, "error is %v", r.err)
	}
}

func requireError[T any, E comparable](e E) {
	if !isOK(e) || isEmpty[T]() {
		return
	}
	contract.Panic(contract.ErrMissingValue, "result of type %T built from %v", *new(T), e)
}

func isEmpty[T any]() bool {
	_, ok := any(*new(T)).(Empty)
	return ok
}
