package refcount

// wrapper gives a reference count to a value whose type has none.
// Only New creates one.
type wrapper[V any] struct {
	Refcounted
	value V
}

// element is implemented by wrapper only; Ptr uses it to reach the value.
type element interface {
	element() any
}

func (w *wrapper[V]) element() any { return &w.value }

// Destroy forwards to the wrapped value and then clears it.
func (w *wrapper[V]) Destroy() {
	if d, ok := any(&w.value).(Destroyer); ok {
		d.Destroy()
	} else if d, ok := any(w.value).(Destroyer); ok {
		d.Destroy()
	}
	var zero V
	w.value = zero
}

// New allocates a copy of v and returns the only reference to it.
//
// If *V implements Counted, the copy is counted by its own embedded
// Refcounted, which is reset so the copy does not inherit v's count.
// Copying v reads its Refcounted, so v must not be an object other
// goroutines hold references to; copy shared objects with TakeOrCopy.
// Otherwise the copy is placed in a wrapper that carries the count. Either
// way the element is reached as *V through the returned Ptr.
func New[V any](v V) Ptr[*V] {
	if _, ok := any((*V)(nil)).(Counted); ok {
		p := new(V)
		*p = v
		c := any(p).(Counted)
		c.Refcount().reset()
		return Ptr[*V]{obj: c}
	}
	return Ptr[*V]{obj: &wrapper[V]{value: v}}
}
