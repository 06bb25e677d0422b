package refcount

import "github.com/m-ou-se/mstd/pkg/contract"

// Box exclusively owns an object released from a Ptr. Nothing else refers
// to it, so Close destroys the object immediately.
//
// The zero Box is empty.
type Box[T any] struct {
	obj Counted
}

// Get returns the owned object, or the zero T if b is empty.
func (b Box[T]) Get() T {
	v, _ := view[T](b.obj)
	return v
}

// IsNil reports whether b is empty.
func (b Box[T]) IsNil() bool {
	return b.obj == nil
}

// Share turns b back into counted ownership. The returned Ptr holds the
// single reference and b is left empty.
func (b *Box[T]) Share() Ptr[T] {
	p := Ptr[T]{obj: b.obj}
	b.obj = nil
	return p
}

// Close destroys the owned object and leaves b empty. The count is not
// consulted: b is the only owner.
func (b *Box[T]) Close() {
	if b.obj == nil {
		return
	}
	obj := b.obj
	b.obj = nil
	obj.Refcount().release()
	destroy(obj)
}

// Copier is implemented by intrusively counted types that TakeOrCopy may
// copy. CopyCounted returns a copy of the receiver's data with a zero
// Refcounted and must not read the receiver's Refcounted, which other
// owners may be changing.
type Copier[V any] interface {
	CopyCounted() V
}

// TakeOrCopy returns p's object as a Box: released from p if p is its only
// owner, otherwise a copy while p keeps its reference.
//
// A wrapped value is copied as a plain value. An intrusively counted *V
// must implement Copier[V]; otherwise copying is a contract violation and
// TakeOrCopy panics with contract.ErrNotCopyable, leaving p unchanged.
// The copy reads the shared object's data without synchronisation; callers
// that mutate it concurrently must coordinate themselves.
func TakeOrCopy[V any](p *Ptr[*V]) Box[*V] {
	if p.IsNil() {
		return Box[*V]{}
	}
	if b, ok := p.ReleaseUnique(); ok {
		return b
	}
	var cp Ptr[*V]
	switch o := p.obj.(type) {
	case *wrapper[V]:
		cp = Ptr[*V]{obj: &wrapper[V]{value: o.value}}
	default:
		c, ok := any(p.Get()).(Copier[V])
		if !ok {
			contract.Panic(contract.ErrNotCopyable, "%T does not implement Copier", p.Get())
		}
		cp = New(c.CopyCounted())
	}
	b, _ := cp.ReleaseUnique()
	return b
}
