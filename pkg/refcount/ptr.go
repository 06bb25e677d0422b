package refcount

import (
	"fmt"
	"reflect"
)

// Ptr is a counted owning handle to an object viewed as T.
//
// The zero Ptr is null. Go copies a Ptr by plain assignment without touching
// the count, so ownership moves are explicit: Clone adds a reference, Move
// transfers one, Reset drops one. A Ptr copied by assignment must be treated
// as the same handle, and only one of the copies may be Reset.
//
// The referenced object is either a Counted value whose view is T (intrusive
// counting) or a value wrapped by New (the view is then *V). Which one is
// invisible through Get.
type Ptr[T any] struct {
	obj Counted
}

// Adopt returns a Ptr that takes over the reference obj was created with.
// The count is not incremented. Use it for objects nobody else owns yet,
// such as one just allocated with &T{...}.
//
// Adopt and Share must not be confused: adopting an object that already has
// owners destroys it too early, and sharing a fresh one leaks it.
func Adopt[T Counted](obj T) Ptr[T] {
	if isNil(obj) {
		return Ptr[T]{}
	}
	return Ptr[T]{obj: obj}
}

// Share returns a new Ptr to obj, which is already referenced elsewhere and
// stays so. The count is incremented.
func Share[T Counted](obj T) Ptr[T] {
	if isNil(obj) {
		return Ptr[T]{}
	}
	Increment(obj)
	return Ptr[T]{obj: obj}
}

// Get returns the referenced object, or the zero T if p is null.
func (p Ptr[T]) Get() T {
	v, _ := view[T](p.obj)
	return v
}

// IsNil reports whether p is null.
func (p Ptr[T]) IsNil() bool {
	return p.obj == nil
}

// Clone returns another handle to the same object, incrementing its count.
func (p Ptr[T]) Clone() Ptr[T] {
	if p.obj != nil {
		Increment(p.obj)
	}
	return Ptr[T]{obj: p.obj}
}

// Move transfers p's reference to the returned Ptr and leaves p null.
func (p *Ptr[T]) Move() Ptr[T] {
	q := Ptr[T]{obj: p.obj}
	p.obj = nil
	return q
}

// Set makes p another handle to q's object (copy assignment). The new
// reference is taken before the old one is dropped, so p.Set(p) is safe.
func (p *Ptr[T]) Set(q Ptr[T]) {
	if same(p.obj, q.obj) {
		return
	}
	if q.obj != nil {
		Increment(q.obj)
	}
	old := p.obj
	p.obj = q.obj
	if old != nil {
		Decrement(old)
	}
}

// Take moves q's reference into p (move assignment), dropping whatever p
// held before. q is left null.
func (p *Ptr[T]) Take(q *Ptr[T]) {
	if p == q {
		return
	}
	old := p.obj
	p.obj = q.obj
	q.obj = nil
	if old != nil {
		Decrement(old)
	}
}

// Reset drops p's reference and leaves p null. If it was the last
// reference, the object is destroyed.
func (p *Ptr[T]) Reset() {
	if p.obj == nil {
		return
	}
	obj := p.obj
	p.obj = nil
	Decrement(obj)
}

// UseCount returns the number of references to p's object, or 0 if p is
// null. See the package-level UseCount for its limits.
func (p Ptr[T]) UseCount() int64 {
	if p.obj == nil {
		return 0
	}
	return UseCount(p.obj)
}

// Unique reports whether p holds the only reference to its object.
func (p Ptr[T]) Unique() bool {
	return p.UseCount() == 1
}

// ReleaseUnique hands the object over to an exclusively owned Box if p holds
// its only reference, leaving p null. Otherwise it returns false and p is
// unchanged.
func (p *Ptr[T]) ReleaseUnique() (Box[T], bool) {
	if !p.Unique() {
		return Box[T]{}, false
	}
	b := Box[T]{obj: p.obj}
	p.obj = nil
	return b, true
}

// Equal reports whether p and q reference the same object. Two null
// pointers are equal.
func (p Ptr[T]) Equal(q Ptr[T]) bool {
	return same(p.obj, q.obj)
}

// String formats p with the address of its object.
func (p Ptr[T]) String() string {
	if p.obj == nil {
		return "Ptr(nil)"
	}
	return fmt.Sprintf("Ptr(%p, refs=%d)", p.obj.Refcount(), p.UseCount())
}

// Same reports whether a and b reference the same object, whatever their
// element types.
func Same[A, B any](a Ptr[A], b Ptr[B]) bool {
	return same(a.obj, b.obj)
}

func same(a, b Counted) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Refcount() == b.Refcount()
}

// view returns obj seen as T: the wrapped value for wrappers, obj itself
// otherwise.
func view[T any](obj Counted) (T, bool) {
	var zero T
	switch o := obj.(type) {
	case nil:
		return zero, false
	case element:
		v, ok := o.element().(T)
		return v, ok
	}
	v, ok := obj.(T)
	return v, ok
}

func isNil(c Counted) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
