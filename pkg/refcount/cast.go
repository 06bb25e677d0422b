package refcount

import (
	"reflect"

	"github.com/m-ou-se/mstd/pkg/contract"
)

// StaticCast converts p into a Ptr[U] to the same object, consuming p:
// p is left null and the count does not change.
//
// The caller asserts that the object can be viewed as U, typically because U
// is an interface the concrete type is known to implement. A wrong assertion
// is a contract violation and panics; use DynamicCast when the answer is not
// known in advance.
func StaticCast[U, T any](p *Ptr[T]) Ptr[U] {
	if p.obj == nil {
		return Ptr[U]{}
	}
	if _, ok := view[U](p.obj); !ok {
		contract.Panic(contract.ErrBadCast, "%T cannot be viewed as %s", p.obj, typeName[U]())
	}
	return Ptr[U]{obj: p.Move().obj}
}

// DynamicCast returns a new Ptr[U] to p's object if it can be viewed as U,
// incrementing the count. Otherwise it returns a null Ptr. p is never
// modified.
func DynamicCast[U, T any](p Ptr[T]) Ptr[U] {
	if p.obj == nil {
		return Ptr[U]{}
	}
	if _, ok := view[U](p.obj); !ok {
		traceCastFailed(p.obj, typeName[U]())
		return Ptr[U]{}
	}
	Increment(p.obj)
	return Ptr[U]{obj: p.obj}
}

// DynamicCastMove is the consuming form of DynamicCast. On success p's
// reference moves into the result and p is left null; on failure the result
// is null and p keeps its reference. The count never changes.
func DynamicCastMove[U, T any](p *Ptr[T]) Ptr[U] {
	if p.obj == nil {
		return Ptr[U]{}
	}
	if _, ok := view[U](p.obj); !ok {
		traceCastFailed(p.obj, typeName[U]())
		return Ptr[U]{}
	}
	return Ptr[U]{obj: p.Move().obj}
}

func typeName[U any]() string {
	return reflect.TypeFor[U]().String()
}
