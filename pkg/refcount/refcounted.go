package refcount

import (
	"sync/atomic"

	"github.com/m-ou-se/mstd/pkg/contract"
)

// Refcounted is an atomic reference count meant to be embedded in the object
// it counts. Embedding it makes the object implement Counted.
//
// The zero Refcounted already accounts for one reference: an object is born
// owned by whoever created it. On 32-bit platforms Refcounted must be the
// first field of the embedding struct so the counter is 64-bit aligned.
type Refcounted struct {
	extra int64 // references beyond the first; -1 once destroyed
}

// Refcount returns r. It is the method through which Counted is satisfied.
func (r *Refcounted) Refcount() *Refcounted { return r }

func (r *Refcounted) increment() int64 {
	return atomic.AddInt64(&r.extra, 1) + 1
}

func (r *Refcounted) decrement() int64 {
	return atomic.AddInt64(&r.extra, -1) + 1
}

func (r *Refcounted) load() int64 {
	return atomic.LoadInt64(&r.extra) + 1
}

// release marks an exclusively owned object as destroyed.
func (r *Refcounted) release() {
	atomic.StoreInt64(&r.extra, -1)
}

// reset gives a freshly copied object its own single reference.
func (r *Refcounted) reset() {
	atomic.StoreInt64(&r.extra, 0)
}

// Counted is implemented by objects that carry their own reference count.
type Counted interface {
	Refcount() *Refcounted
}

// Destroyer is implemented by counted objects that need cleanup when their
// last reference goes away. Destroy is called exactly once.
type Destroyer interface {
	Destroy()
}

// Increment adds a reference to c and returns the new count.
//
// The caller must already hold a reference: incrementing an object whose
// count reached zero panics with contract.ErrReleased.
func Increment(c Counted) int64 {
	n := c.Refcount().increment()
	if n <= 1 {
		c.Refcount().decrement()
		contract.Panic(contract.ErrReleased, "%T gained a reference after its last release", c)
	}
	return n
}

// Decrement drops a reference to c and returns the new count. The call that
// takes the count to zero destroys c; no other call does, however many run
// concurrently.
func Decrement(c Counted) int64 {
	n := c.Refcount().decrement()
	switch {
	case n == 0:
		destroy(c)
	case n < 0:
		contract.Panic(contract.ErrOverRelease, "%T released %d times too often", c, -n)
	}
	return n
}

// UseCount returns the current count of c. It is informational only: the
// count may change right after it is read, so it must not be used alone to
// decide whether mutating the object is safe.
func UseCount(c Counted) int64 {
	return c.Refcount().load()
}

func destroy(c Counted) {
	if d, ok := c.(Destroyer); ok {
		d.Destroy()
	}
	traceDestroy(c)
}
